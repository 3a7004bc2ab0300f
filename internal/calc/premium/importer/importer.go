package importer

import (
	"fmt"
	"io"
	"strings"

	"Ductcalc/internal/calc/duct"

	"github.com/xuri/excelize/v2"
)

// ParseSheet reads duct rows from the first sheet of an xlsx workbook.
// Expected columns: side (supply/return), diameter, type, qty. The first row
// is a header. Rows with an unknown side are skipped; every other value is
// passed through raw so the calculator applies its usual leniency.
func ParseSheet(r io.Reader) (supply, ret duct.Entries, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return supply, ret, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return supply, ret, fmt.Errorf("read %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return supply, ret, fmt.Errorf("sheet %s has no duct rows", sheet)
	}

	for _, row := range rows[1:] {
		if len(row) < 4 {
			continue
		}
		switch duct.Side(strings.ToLower(strings.TrimSpace(row[0]))) {
		case duct.SideSupply:
			supply.Add(row[1], strings.TrimSpace(row[2]), row[3])
		case duct.SideReturn:
			ret.Add(row[1], strings.TrimSpace(row[2]), row[3])
		}
	}
	return supply, ret, nil
}
