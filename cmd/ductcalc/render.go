package main

import (
	"fmt"
	"strings"

	"Ductcalc/internal/calc/duct"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	verdictStyles = map[duct.Verdict]lipgloss.Style{
		duct.VerdictGood:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		duct.VerdictUndersized: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		duct.VerdictOversized:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B")),
	}

	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6B7280")).
		Padding(0, 1)
)

func renderResult(lang string, res duct.CalculationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", titleStyle.Render(duct.Label(lang, "title")))
	fmt.Fprintf(&b, "%-22s %s %s\n", duct.Label(lang, "tons")+":", res.Tons.String(), mutedStyle.Render("("+string(res.TonsSource)+")"))
	fmt.Fprintf(&b, "%-22s %d\n", duct.Label(lang, "cfm_per_ton")+":", res.CFMPerTon)
	fmt.Fprintf(&b, "%-22s %d\n", duct.Label(lang, "required_cfm")+":", res.RequiredCFM)
	fmt.Fprintf(&b, "%-22s %d - %d\n", duct.Label(lang, "range")+":", res.LowerBound, res.UpperBound)
	fmt.Fprintf(&b, "%-22s %d  %s\n", duct.Label(lang, "supply_total")+":", res.TotalSupplyCFM, renderVerdict(lang, res.SupplyVerdict))
	fmt.Fprintf(&b, "%-22s %d  %s\n", duct.Label(lang, "return_total")+":", res.TotalReturnCFM, renderVerdict(lang, res.ReturnVerdict))
	fmt.Fprintf(&b, "%-22s %d", duct.Label(lang, "system_total")+":", res.TotalCFM)

	out := panel.Render(b.String()) + "\n"
	if len(res.Lines) > 0 {
		out += renderLines(lang, res.Lines)
	}
	return out
}

func renderVerdict(lang string, v duct.Verdict) string {
	return verdictStyles[v].Render(duct.VerdictLabel(lang, v))
}

func renderLines(lang string, lines []duct.LineResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-7s %5s %-6s %4s %9s %9s\n",
		duct.Label(lang, "side"), duct.Label(lang, "diameter"), duct.Label(lang, "type"),
		duct.Label(lang, "qty"), duct.Label(lang, "cfm_per_unit"), duct.Label(lang, "subtotal"))
	for _, l := range lines {
		if !l.OK() {
			fmt.Fprintf(&b, "%-7s %4d\" %-6s %4d %s\n", l.Side, l.Diameter, l.Type, l.Quantity, errorStyle.Render(l.Error))
			continue
		}
		fmt.Fprintf(&b, "%-7s %4d\" %-6s %4d %9d %9d\n", l.Side, l.Diameter, l.Type, l.Quantity, *l.CFMPerUnit, *l.Subtotal)
	}
	return b.String()
}

func renderTables(supply, ret duct.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("Rated CFM per duct"))
	fmt.Fprintf(&b, "%5s %12s %12s %12s %12s\n", "Diam", "Supply Flex", "Supply Sheet", "Return Flex", "Return Sheet")
	for _, d := range duct.Diameters {
		fmt.Fprintf(&b, "%4d\" %12s %12s %12s %12s\n", d,
			cellText(supply, d, duct.Flex), cellText(supply, d, duct.Sheet),
			cellText(ret, d, duct.Flex), cellText(ret, d, duct.Sheet))
	}
	return b.String()
}

func cellText(t duct.Table, d int, typ duct.DuctType) string {
	if v, ok := duct.Lookup(t, d, typ); ok {
		return fmt.Sprint(v)
	}
	return "-"
}
