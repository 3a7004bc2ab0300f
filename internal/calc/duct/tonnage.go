package duct

import (
	"strings"

	"github.com/shopspring/decimal"
)

type TonnageSource string

const (
	SourceManual TonnageSource = "manual"
	SourceHouse  TonnageSource = "house"
)

type TonnageInput struct {
	UseHouseSize bool   `json:"use_house_size"`
	HouseSize    string `json:"house_size"`
	SqftPerTon   string `json:"sqft_per_ton"`
	Tons         string `json:"tons"`
}

type Tonnage struct {
	Tons       decimal.Decimal `json:"tons"`
	Source     TonnageSource   `json:"source"`
	SqftPerTon decimal.Decimal `json:"sqft_per_ton"`
}

// ResolveTonnage picks the equipment tonnage: estimated from the house area
// when requested and usable, otherwise the manual value.
func ResolveTonnage(in TonnageInput) (Tonnage, error) {
	sqftPerTon := parsePositive(in.SqftPerTon, decimal.NewFromInt(DefaultSqftPerTon))
	out := Tonnage{SqftPerTon: sqftPerTon}

	houseRaw := strings.TrimSpace(in.HouseSize)
	if in.UseHouseSize && houseRaw != "" {
		hs, err := decimal.NewFromString(houseRaw)
		if err == nil && hs.IsPositive() {
			out.Tons = hs.Div(sqftPerTon).RoundBank(2)
			out.Source = SourceHouse
			return out, nil
		}
	}

	raw := strings.TrimSpace(in.Tons)
	if raw == "" {
		return Tonnage{}, validation(KindTonsRequired)
	}
	tons, err := decimal.NewFromString(raw)
	if err != nil {
		return Tonnage{}, validation(KindTonsInvalidFormat)
	}
	if !tons.IsPositive() {
		return Tonnage{}, validation(KindTonsNotPositive)
	}
	out.Tons = tons
	out.Source = SourceManual
	return out, nil
}

func parsePositive(raw string, def decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !v.IsPositive() {
		return def
	}
	return v
}
