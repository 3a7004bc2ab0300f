package duct

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handler struct {
	Service *Service
}

// Response is a calculation result with verdict labels in the requested language.
type Response struct {
	CalculationResult
	Lang              string `json:"lang"`
	SupplyVerdictText string `json:"verdict_supply_text"`
	ReturnVerdictText string `json:"verdict_return_text"`
}

func NewResponse(lang string, res CalculationResult) Response {
	lang = NormalizeLang(lang)
	return Response{
		CalculationResult: res,
		Lang:              lang,
		SupplyVerdictText: VerdictLabel(lang, res.SupplyVerdict),
		ReturnVerdictText: VerdictLabel(lang, res.ReturnVerdict),
	}
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	h.respond(w, r, req)
}

// CalcForm accepts the url-encoded fields posted by the calculator page.
func (h *Handler) CalcForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	h.respond(w, r, RequestFromForm(r.PostForm))
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, req Request) {
	res, err := h.Service.Run(r.Context(), req)
	if err != nil {
		WriteError(w, req.Lang, err)
		return
	}
	WriteJSON(w, http.StatusOK, NewResponse(req.Lang, res))
}

type Defaults struct {
	Diameters         []int      `json:"diameters"`
	Types             []DuctType `json:"types"`
	SupplyTable       Table      `json:"default_supply"`
	ReturnTable       Table      `json:"default_return"`
	CFMPerTon         int        `json:"default_cfm_per_ton"`
	SqftPerTon        int        `json:"default_sqft_per_ton"`
	Margin            float64    `json:"margin"`
	NotApplicableMark string     `json:"not_applicable_token"`
}

func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, Defaults{
		Diameters:         Diameters,
		Types:             DuctTypes,
		SupplyTable:       BaselineSupply(),
		ReturnTable:       BaselineReturn(),
		CFMPerTon:         DefaultCFMPerTon,
		SqftPerTon:        DefaultSqftPerTon,
		Margin:            Margin,
		NotApplicableMark: NotApplicableToken,
	})
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ErrorCode classifies a failed calculation for clients. Validation kinds and
// unknown presets are client errors; anything else is a generic calculation
// error.
func ErrorCode(err error) (string, int) {
	if kind, ok := KindOf(err); ok {
		return string(kind), http.StatusBadRequest
	}
	if errors.Is(err, ErrUnknownPreset) {
		return "unknown-preset", http.StatusBadRequest
	}
	return "calculation-error", http.StatusInternalServerError
}

func WriteError(w http.ResponseWriter, lang string, err error) {
	code, status := ErrorCode(err)
	WriteJSON(w, status, errorBody{Error: code, Message: ErrorMessage(lang, err), Code: status})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
