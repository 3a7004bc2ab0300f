package report

import (
	"fmt"
	"io"
	"time"

	"Ductcalc/internal/calc/duct"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"
)

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
	Lang    string `json:"lang"`
}

func (m Meta) title() string {
	if m.Title == "" {
		return "Duct CFM Report"
	}
	return m.Title
}

var verdictRGB = map[duct.Verdict][3]int{
	duct.VerdictGood:       {22, 163, 74},
	duct.VerdictUndersized: {220, 38, 38},
	duct.VerdictOversized:  {202, 138, 4},
}

// WritePDF renders res as a one page A4 summary followed by the line breakdown.
func WritePDF(w io.Writer, meta Meta, res duct.CalculationResult, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(meta.title()))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", meta.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", meta.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Equipment")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	for _, kv := range [][2]string{
		{"Tons", fmt.Sprintf("%s (%s)", res.Tons.String(), res.TonsSource)},
		{"CFM per ton", fmt.Sprint(res.CFMPerTon)},
		{"Required CFM", fmt.Sprint(res.RequiredCFM)},
		{"Acceptable range (+/-10%)", fmt.Sprintf("%d - %d", res.LowerBound, res.UpperBound)},
		{"System total CFM", fmt.Sprint(res.TotalCFM)},
	} {
		pdf.CellFormat(70, 6, kv[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for _, side := range []struct {
		name    string
		total   int
		verdict duct.Verdict
	}{
		{"Supply", res.TotalSupplyCFM, res.SupplyVerdict},
		{"Return", res.TotalReturnCFM, res.ReturnVerdict},
	} {
		rgb := verdictRGB[side.verdict]
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(70, 7, fmt.Sprintf("%s total CFM: %d", side.name, side.total), "", 0, "L", false, 0, "")
		pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
		pdf.CellFormat(0, 7, tr(duct.VerdictLabel(meta.Lang, side.verdict)), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	headers := []string{"Side", "Diameter", "Type", "Qty", "CFM/unit", "Subtotal", "Note"}
	widths := []float64{20, 22, 20, 15, 22, 22, 69}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, l := range res.Lines {
		cfm, sub := "-", "-"
		if l.OK() {
			cfm, sub = fmt.Sprint(*l.CFMPerUnit), fmt.Sprint(*l.Subtotal)
		}
		cells := []string{string(l.Side), fmt.Sprintf("%d\"", l.Diameter), string(l.Type), fmt.Sprint(l.Quantity), cfm, sub, l.Error}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, tr(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if meta.Notes != "" {
		pdf.Ln(6)
		pdf.MultiCell(0, 6, tr(meta.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

// WriteXLSX writes a workbook with a summary sheet, the line breakdown and the
// effective tables used.
func WriteXLSX(w io.Writer, meta Meta, res duct.CalculationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName(f.GetSheetName(0), summary); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := [][]interface{}{
		{meta.title()},
		{"Project", meta.Project},
		{"Author", meta.Author},
		{"Tons", res.Tons.String()},
		{"Tons source", string(res.TonsSource)},
		{"CFM per ton", res.CFMPerTon},
		{"Required CFM", res.RequiredCFM},
		{"Lower bound", res.LowerBound},
		{"Upper bound", res.UpperBound},
		{"Supply total CFM", res.TotalSupplyCFM},
		{"Return total CFM", res.TotalReturnCFM},
		{"System total CFM", res.TotalCFM},
		{"Supply verdict", duct.VerdictLabel(meta.Lang, res.SupplyVerdict)},
		{"Return verdict", duct.VerdictLabel(meta.Lang, res.ReturnVerdict)},
	}
	if err := writeRows(f, summary, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summary, "A1", "A14", bold); err != nil {
		return err
	}

	const lines = "Lines"
	if _, err := f.NewSheet(lines); err != nil {
		return err
	}
	rows = [][]interface{}{{"Side", "Diameter", "Type", "Qty", "CFM/unit", "Subtotal", "Note"}}
	for _, l := range res.Lines {
		if l.OK() {
			rows = append(rows, []interface{}{string(l.Side), l.Diameter, string(l.Type), l.Quantity, *l.CFMPerUnit, *l.Subtotal, ""})
		} else {
			rows = append(rows, []interface{}{string(l.Side), l.Diameter, string(l.Type), l.Quantity, nil, nil, l.Error})
		}
	}
	if err := writeRows(f, lines, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(lines, "A1", "G1", bold); err != nil {
		return err
	}

	const tables = "Tables"
	if _, err := f.NewSheet(tables); err != nil {
		return err
	}
	rows = [][]interface{}{{"Diameter", "Supply Flex", "Supply Sheet", "Return Flex", "Return Sheet"}}
	for _, d := range duct.Diameters {
		rows = append(rows, []interface{}{
			d,
			cellValue(res.SupplyTable, d, duct.Flex),
			cellValue(res.SupplyTable, d, duct.Sheet),
			cellValue(res.ReturnTable, d, duct.Flex),
			cellValue(res.ReturnTable, d, duct.Sheet),
		})
	}
	if err := writeRows(f, tables, rows); err != nil {
		return err
	}

	return f.Write(w)
}

func cellValue(t duct.Table, d int, typ duct.DuctType) interface{} {
	if v, ok := duct.Lookup(t, d, typ); ok {
		return v
	}
	return duct.NotApplicableToken
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
