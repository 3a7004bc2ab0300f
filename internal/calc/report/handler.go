package report

import (
	"encoding/json"
	"net/http"
	"time"

	"Ductcalc/internal/calc/duct"
)

type Input struct {
	Meta
	Calculation duct.Request `json:"input"`
}

type Handler struct {
	Calc *duct.Service
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Input, duct.CalculationResult, bool) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return Input{}, duct.CalculationResult{}, false
	}
	if input.Lang == "" {
		input.Lang = input.Calculation.Lang
	}
	res, err := h.Calc.Run(r.Context(), input.Calculation)
	if err != nil {
		duct.WriteError(w, input.Lang, err)
		return Input{}, duct.CalculationResult{}, false
	}
	return input, res, true
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	input, res, ok := h.decode(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"duct-report.pdf\"")
	if err := WritePDF(w, input.Meta, res, time.Now()); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Spreadsheet(w http.ResponseWriter, r *http.Request) {
	input, res, ok := h.decode(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"duct-report.xlsx\"")
	if err := WriteXLSX(w, input.Meta, res); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}
