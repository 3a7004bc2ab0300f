package duct

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type DuctType string

const (
	Flex  DuctType = "Flex"
	Sheet DuctType = "Sheet"
)

var DuctTypes = []DuctType{Flex, Sheet}

type Side string

const (
	SideSupply Side = "supply"
	SideReturn Side = "return"
)

const (
	DefaultCFMPerTon  = 400
	DefaultSqftPerTon = 500
	Margin            = 0.10

	// NotApplicableToken marks a cell with no physical product (matched case-insensitively).
	NotApplicableToken = "xx"
)

// Diameters is the fixed set of nominal duct sizes, in inches.
var Diameters = []int{5, 6, 7, 8, 9, 10, 12, 14, 16, 18, 20}

// Cell is a rated capacity in CFM, or "not applicable" when no product exists
// for that diameter and type.
type Cell struct {
	CFM       int
	Available bool
}

func Capacity(cfm int) Cell { return Cell{CFM: cfm, Available: true} }

var NotApplicable = Cell{}

func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Available {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(c.CFM)), nil
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = NotApplicable
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cell: %w", err)
	}
	*c = Capacity(v)
	return nil
}

type Row map[DuctType]Cell

// Table maps a diameter to its per-type capacities.
type Table map[int]Row

// Clone returns a deep copy so the receiver can never be mutated through the result.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for d, row := range t {
		r := make(Row, len(row))
		for typ, c := range row {
			r[typ] = c
		}
		out[d] = r
	}
	return out
}

// Lookup returns the rated CFM for a diameter and type. A missing diameter, a
// missing type or a not-applicable cell all report false.
func Lookup(t Table, diameter int, typ DuctType) (int, bool) {
	row, ok := t[diameter]
	if !ok {
		return 0, false
	}
	c, ok := row[typ]
	if !ok || !c.Available {
		return 0, false
	}
	return c.CFM, true
}

var defaultSupplyTable = Table{
	5:  {Flex: Capacity(45), Sheet: Capacity(65)},
	6:  {Flex: Capacity(65), Sheet: Capacity(110)},
	7:  {Flex: Capacity(110), Sheet: Capacity(160)},
	8:  {Flex: Capacity(150), Sheet: Capacity(230)},
	9:  {Flex: Capacity(200), Sheet: Capacity(325)},
	10: {Flex: Capacity(270), Sheet: Capacity(425)},
	12: {Flex: Capacity(440), Sheet: Capacity(700)},
	14: {Flex: Capacity(650), Sheet: Capacity(1000)},
	16: {Flex: Capacity(900), Sheet: Capacity(1500)},
	18: {Flex: Capacity(1300), Sheet: Capacity(2000)},
	20: {Flex: Capacity(1700), Sheet: Capacity(2600)},
}

var defaultReturnTable = Table{
	5:  {Flex: NotApplicable, Sheet: Capacity(45)},
	6:  {Flex: Capacity(45), Sheet: Capacity(75)},
	7:  {Flex: Capacity(70), Sheet: Capacity(110)},
	8:  {Flex: Capacity(100), Sheet: Capacity(160)},
	9:  {Flex: Capacity(140), Sheet: Capacity(220)},
	10: {Flex: Capacity(200), Sheet: Capacity(300)},
	12: {Flex: Capacity(300), Sheet: Capacity(475)},
	14: {Flex: Capacity(450), Sheet: Capacity(700)},
	16: {Flex: Capacity(620), Sheet: Capacity(1000)},
	18: {Flex: Capacity(900), Sheet: Capacity(1400)},
	20: {Flex: Capacity(1200), Sheet: Capacity(1800)},
}

// BaselineSupply returns a private copy of the reference supply table.
func BaselineSupply() Table { return defaultSupplyTable.Clone() }

// BaselineReturn returns a private copy of the reference return table.
func BaselineReturn() Table { return defaultReturnTable.Clone() }

type OverrideKey struct {
	Side     Side
	Diameter int
	Type     DuctType
}

func (k OverrideKey) String() string {
	return fmt.Sprintf("%s_%d_%s", k.Side, k.Diameter, k.Type)
}

// Overrides holds raw per-cell values. A key that is absent means "keep baseline".
type Overrides map[OverrideKey]string

// ParseOverrideKey decodes the flat "<side>_<diameter>_<type>" field name,
// e.g. "return_5_Flex".
func ParseOverrideKey(s string) (OverrideKey, bool) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return OverrideKey{}, false
	}
	side := Side(parts[0])
	if side != SideSupply && side != SideReturn {
		return OverrideKey{}, false
	}
	d, err := strconv.Atoi(parts[1])
	if err != nil {
		return OverrideKey{}, false
	}
	typ := DuctType(parts[2])
	if typ != Flex && typ != Sheet {
		return OverrideKey{}, false
	}
	return OverrideKey{Side: side, Diameter: d, Type: typ}, true
}

// OverridesFromMap keeps the entries of m whose keys decode as override keys.
func OverridesFromMap(m map[string]string) Overrides {
	out := make(Overrides, len(m))
	for k, v := range m {
		if key, ok := ParseOverrideKey(k); ok {
			out[key] = v
		}
	}
	return out
}

// ResolveTables merges overrides onto deep copies of the given baselines and
// resolves the cfm-per-ton constant for one calculation.
func ResolveTables(overrides Overrides, cfmPerTonRaw string, supply, ret Table) (Table, Table, int) {
	effSupply := supply.Clone()
	effReturn := ret.Clone()

	for _, d := range Diameters {
		for _, typ := range DuctTypes {
			applyOverride(effSupply, d, typ, overrides[OverrideKey{SideSupply, d, typ}])
			applyOverride(effReturn, d, typ, overrides[OverrideKey{SideReturn, d, typ}])
		}
	}

	return effSupply, effReturn, parseCFMPerTon(cfmPerTonRaw)
}

func applyOverride(t Table, d int, typ DuctType, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	var c Cell
	if strings.EqualFold(raw, NotApplicableToken) {
		c = NotApplicable
	} else {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return
		}
		c = Capacity(v)
	}
	if t[d] == nil {
		t[d] = Row{}
	}
	t[d][typ] = c
}

func parseCFMPerTon(raw string) int {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return DefaultCFMPerTon
	}
	v = v.Truncate(0)
	if !fitsInt(v) {
		return DefaultCFMPerTon
	}
	return int(v.IntPart())
}
