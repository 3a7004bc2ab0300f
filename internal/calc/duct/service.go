package duct

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"Ductcalc/internal/repo"

	"go.uber.org/zap"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Request is the transport form of a calculation: every value is kept raw so
// the engine applies its own parsing and fallbacks.
type Request struct {
	Lang      string            `json:"lang"`
	Preset    string            `json:"preset,omitempty"`
	Overrides map[string]string `json:"overrides,omitempty"`
	CFMPerTon string            `json:"cfm_per_ton"`
	TonnageInput
	Supply Entries `json:"supply"`
	Return Entries `json:"return"`
}

// RequestFromForm decodes the field names used by the calculator web form.
func RequestFromForm(form url.Values) Request {
	req := Request{
		Lang:      form.Get("lang"),
		Preset:    strings.TrimSpace(form.Get("preset")),
		Overrides: map[string]string{},
		CFMPerTon: form.Get("cfm_per_ton"),
		TonnageInput: TonnageInput{
			UseHouseSize: form.Get("use_house_size") == "on",
			HouseSize:    strings.TrimSpace(form.Get("house_size")),
			SqftPerTon:   strings.TrimSpace(form.Get("sqft_per_ton")),
			Tons:         strings.TrimSpace(form.Get("tons")),
		},
	}
	for key := range form {
		if _, ok := ParseOverrideKey(key); ok {
			req.Overrides[key] = form.Get(key)
		}
	}
	for _, side := range []Side{SideSupply, SideReturn} {
		e := Entries{
			Diameters:  form[string(side)+"_diameter[]"],
			Types:      form[string(side)+"_type[]"],
			Quantities: form[string(side)+"_qty[]"],
		}
		if side == SideSupply {
			req.Supply = e
		} else {
			req.Return = e
		}
	}
	return req
}

type PresetLookup interface {
	GetPreset(ctx context.Context, name string) (repo.Preset, error)
}

// Service turns transport requests into engine input, applying a named
// preset underneath the request's own overrides.
type Service struct {
	Presets PresetLookup
	Log     *zap.Logger
}

func (s *Service) logger() *zap.Logger {
	if s == nil || s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Service) Input(ctx context.Context, req Request) (Input, error) {
	raw := map[string]string{}
	cfmPerTon := req.CFMPerTon

	if req.Preset != "" {
		if s == nil || s.Presets == nil {
			return Input{}, fmt.Errorf("%w: %q", ErrUnknownPreset, req.Preset)
		}
		p, err := s.Presets.GetPreset(ctx, req.Preset)
		if errors.Is(err, repo.ErrPresetNotFound) {
			return Input{}, fmt.Errorf("%w: %q", ErrUnknownPreset, req.Preset)
		}
		if err != nil {
			return Input{}, fmt.Errorf("load preset %q: %w", req.Preset, err)
		}
		for k, v := range p.Overrides {
			raw[k] = v
		}
		if strings.TrimSpace(cfmPerTon) == "" {
			cfmPerTon = p.CFMPerTon
		}
	}
	for k, v := range req.Overrides {
		if strings.TrimSpace(v) != "" {
			raw[k] = v
		}
	}

	return Input{
		Overrides: OverridesFromMap(raw),
		CFMPerTon: cfmPerTon,
		Tonnage:   req.TonnageInput,
		Supply:    req.Supply,
		Return:    req.Return,
	}, nil
}

// Run resolves req and calculates it.
func (s *Service) Run(ctx context.Context, req Request) (CalculationResult, error) {
	in, err := s.Input(ctx, req)
	if err != nil {
		return CalculationResult{}, err
	}
	res, err := Calculate(in)
	log := s.logger()
	switch {
	case err == nil:
		log.Debug("duct calculation",
			zap.Int("required_cfm", res.RequiredCFM),
			zap.Int("supply_cfm", res.TotalSupplyCFM),
			zap.Int("return_cfm", res.TotalReturnCFM),
			zap.String("supply_verdict", string(res.SupplyVerdict)),
			zap.String("return_verdict", string(res.ReturnVerdict)),
		)
	case errors.Is(err, ErrCalculation):
		log.Error("duct calculation failed", zap.Error(err))
	default:
		log.Debug("duct calculation rejected", zap.Error(err))
	}
	return res, err
}
