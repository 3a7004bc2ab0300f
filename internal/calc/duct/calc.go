package duct

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

type Verdict string

const (
	VerdictGood       Verdict = "Good"
	VerdictUndersized Verdict = "Undersized"
	VerdictOversized  Verdict = "Oversized"
)

// Color is the display colour used by the web form for a verdict.
func (v Verdict) Color() string {
	switch v {
	case VerdictGood:
		return "green"
	case VerdictUndersized:
		return "red"
	default:
		return "yellow"
	}
}

type Input struct {
	Overrides Overrides
	CFMPerTon string
	Tonnage   TonnageInput
	Supply    Entries
	Return    Entries
}

type CalculationResult struct {
	TotalCFM       int     `json:"total_cfm"`
	TotalSupplyCFM int     `json:"total_cfm_supply"`
	TotalReturnCFM int     `json:"total_cfm_return"`
	RequiredCFM    int     `json:"required_cfm"`
	LowerBound     int     `json:"lower_bound"`
	UpperBound     int     `json:"upper_bound"`
	SupplyVerdict  Verdict `json:"verdict_supply"`
	SupplyColor    string  `json:"color_supply"`
	ReturnVerdict  Verdict `json:"verdict_return"`
	ReturnColor    string  `json:"color_return"`

	Lines []LineResult `json:"entries"`

	Tons        decimal.Decimal `json:"tons"`
	TonsSource  TonnageSource   `json:"tons_source"`
	TonsEntered string          `json:"tons_entered"`
	HouseSize   string          `json:"house_size"`
	SqftPerTon  int             `json:"sqft_per_ton_used"`
	CFMPerTon   int             `json:"cfm_per_ton_used"`
	SupplyTable Table           `json:"supply_table_used"`
	ReturnTable Table           `json:"return_table_used"`
}

// SupplyLines returns the supply rows of Lines, in input order.
func (r CalculationResult) SupplyLines() []LineResult { return r.linesFor(SideSupply) }

// ReturnLines returns the return rows of Lines, in input order.
func (r CalculationResult) ReturnLines() []LineResult { return r.linesFor(SideReturn) }

func (r CalculationResult) linesFor(side Side) []LineResult {
	var out []LineResult
	for _, l := range r.Lines {
		if l.Side == side {
			out = append(out, l)
		}
	}
	return out
}

// Evaluate derives the required airflow and its ±Margin band from the tonnage
// and classifies each side's total against that single band.
func Evaluate(totalSupply, totalReturn int, tons decimal.Decimal, cfmPerTon int) (CalculationResult, error) {
	if totalSupply+totalReturn == 0 {
		return CalculationResult{}, validation(KindNoValidDucts)
	}
	if totalSupply > math.MaxInt-totalReturn {
		return CalculationResult{}, fmt.Errorf("%w: total airflow out of range", ErrCalculation)
	}

	required := tons.Mul(decimal.NewFromInt(int64(cfmPerTon)))
	margin := decimal.NewFromFloat(Margin)
	lower := required.Mul(decimal.NewFromInt(1).Sub(margin))
	upper := required.Mul(decimal.NewFromInt(1).Add(margin))
	if !fitsInt(upper.RoundBank(0)) || !fitsInt(lower.RoundBank(0)) {
		return CalculationResult{}, fmt.Errorf("%w: required airflow %s out of range", ErrCalculation, required)
	}

	sv := classify(decimal.NewFromInt(int64(totalSupply)), lower, upper)
	rv := classify(decimal.NewFromInt(int64(totalReturn)), lower, upper)

	return CalculationResult{
		TotalCFM:       totalSupply + totalReturn,
		TotalSupplyCFM: totalSupply,
		TotalReturnCFM: totalReturn,
		RequiredCFM:    int(required.IntPart()),
		LowerBound:     int(lower.RoundBank(0).IntPart()),
		UpperBound:     int(upper.RoundBank(0).IntPart()),
		SupplyVerdict:  sv,
		SupplyColor:    sv.Color(),
		ReturnVerdict:  rv,
		ReturnColor:    rv.Color(),
		Tons:           tons,
		CFMPerTon:      cfmPerTon,
	}, nil
}

func fitsInt(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(decimal.NewFromInt(math.MinInt)) && d.LessThanOrEqual(decimal.NewFromInt(math.MaxInt))
}

func classify(v, lower, upper decimal.Decimal) Verdict {
	switch {
	case v.LessThan(lower):
		return VerdictUndersized
	case v.GreaterThan(upper):
		return VerdictOversized
	default:
		return VerdictGood
	}
}

// Calculate runs one complete calculation. Validation failures come back as
// *ValidationError; any unexpected fault is reported as ErrCalculation.
func Calculate(in Input) (res CalculationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = CalculationResult{}
			err = fmt.Errorf("%w: %v", ErrCalculation, r)
		}
	}()

	supplyTable, returnTable, cfmPerTon := ResolveTables(in.Overrides, in.CFMPerTon, defaultSupplyTable, defaultReturnTable)

	tonnage, err := ResolveTonnage(in.Tonnage)
	if err != nil {
		return CalculationResult{}, err
	}

	supplyLines, totalSupply := Aggregate(SideSupply, in.Supply, supplyTable)
	returnLines, totalReturn := Aggregate(SideReturn, in.Return, returnTable)

	res, err = Evaluate(totalSupply, totalReturn, tonnage.Tons, cfmPerTon)
	if err != nil {
		return CalculationResult{}, err
	}

	res.Lines = append(supplyLines, returnLines...)
	res.TonsSource = tonnage.Source
	res.TonsEntered = in.Tonnage.Tons
	res.HouseSize = in.Tonnage.HouseSize
	res.SqftPerTon = int(tonnage.SqftPerTon.IntPart())
	res.SupplyTable = supplyTable
	res.ReturnTable = returnTable
	return res, nil
}
