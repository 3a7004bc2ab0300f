package duct

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// Entries are the raw duct rows for one side, submitted as parallel sequences
// and paired by position.
type Entries struct {
	Diameters  []string `json:"diameter"`
	Types      []string `json:"type"`
	Quantities []string `json:"qty"`
}

// Add appends one row.
func (e *Entries) Add(diameter, typ, qty string) {
	e.Diameters = append(e.Diameters, diameter)
	e.Types = append(e.Types, typ)
	e.Quantities = append(e.Quantities, qty)
}

// Len is the number of complete rows; extra values in a longer sequence are ignored.
func (e Entries) Len() int {
	return min(len(e.Diameters), len(e.Types), len(e.Quantities))
}

type LineResult struct {
	Side       Side     `json:"side"`
	Diameter   int      `json:"diameter"`
	Type       DuctType `json:"type"`
	Quantity   int      `json:"qty"`
	CFMPerUnit *int     `json:"cfm_per_unit,omitempty"`
	Subtotal   *int     `json:"subtotal,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func (l LineResult) OK() bool { return l.Error == "" }

var lookupCell = Lookup

// Aggregate looks up every usable row of one side and sums the subtotals.
// Rows without an integer diameter or with a non-positive quantity are dropped;
// rows whose lookup fails, or whose subtotal would not fit in an int, are
// reported with Error set and add nothing.
func Aggregate(side Side, entries Entries, table Table) ([]LineResult, int) {
	var (
		lines []LineResult
		total int
	)
	for i := 0; i < entries.Len(); i++ {
		dRaw := strings.TrimSpace(entries.Diameters[i])
		if dRaw == "" {
			continue
		}
		d, err := strconv.Atoi(dRaw)
		if err != nil {
			continue
		}
		typ := parseType(entries.Types[i])
		qty, err := strconv.Atoi(strings.TrimSpace(entries.Quantities[i]))
		if err != nil || qty <= 0 {
			continue
		}

		line := LineResult{Side: side, Diameter: d, Type: typ, Quantity: qty}
		cfm, ok := lookupCell(table, d, typ)
		if !ok {
			line.Error = fmt.Sprintf("No %s for %d\" in %s table", typ, d, side)
			lines = append(lines, line)
			continue
		}
		sub, ok := mulInt(cfm, qty)
		if !ok || sub > math.MaxInt-total {
			line.Error = fmt.Sprintf("%d x %d\" %s exceeds the supported airflow range", qty, d, typ)
			lines = append(lines, line)
			continue
		}
		line.CFMPerUnit = &cfm
		line.Subtotal = &sub
		total += sub
		lines = append(lines, line)
	}
	return lines, total
}

func parseType(raw string) DuctType {
	switch t := DuctType(raw); t {
	case Flex, Sheet:
		return t
	default:
		return Flex
	}
}

// mulInt multiplies two non-negative ints, reporting false on overflow.
func mulInt(a, b int) (int, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}
