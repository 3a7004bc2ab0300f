package batch

import (
	"encoding/json"
	"net/http"
	"runtime"

	"Ductcalc/internal/calc/duct"
)

type Handler struct {
	Calc *duct.Service
}

func (h *Handler) Ducts(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(r.Context(), h.Calc, input, runtime.GOMAXPROCS(0))
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	duct.WriteJSON(w, http.StatusOK, res)
}
