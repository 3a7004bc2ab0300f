package duct

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"Ductcalc/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	presets := repo.NewMemoryPresetDB()
	require.NoError(t, presets.SavePreset(context.Background(), repo.Preset{
		Name:      "tight-return",
		CFMPerTon: "350",
		Overrides: map[string]string{"return_5_Flex": "30", "return_8_Flex": "90"},
	}))
	return &Handler{Service: &Service{Presets: presets}}
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/tools/duct/calc", bytes.NewReader(b)))
	return rec
}

func TestCalcHandler(t *testing.T) {
	h := newHandler(t)
	req := Request{
		Lang:         "es",
		TonnageInput: TonnageInput{Tons: "3"},
		Supply:       entries([3]string{"8", "Flex", "8"}),
	}
	rec := postJSON(t, h.Calc, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 1200, got["required_cfm"])
	assert.Equal(t, "Good", got["verdict_supply"])
	assert.Equal(t, "Bien", got["verdict_supply_text"])
	assert.Equal(t, "Subdimensionado", got["verdict_return_text"])
	assert.Equal(t, "3", got["tons"])
	assert.Equal(t, "manual", got["tons_source"])
}

func TestCalcHandlerValidationError(t *testing.T) {
	h := newHandler(t)
	rec := postJSON(t, h.Calc, Request{TonnageInput: TonnageInput{Tons: "-5"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(KindTonsNotPositive), body.Error)
	assert.Equal(t, "Tons must be a number greater than 0.", body.Message)
}

func TestCalcHandlerBadPayload(t *testing.T) {
	h := newHandler(t)
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalcHandlerPreset(t *testing.T) {
	h := newHandler(t)
	rec := postJSON(t, h.Calc, Request{
		Preset:       "tight-return",
		Overrides:    map[string]string{"return_8_Flex": "95"},
		TonnageInput: TonnageInput{Tons: "1"},
		Return:       entries([3]string{"5", "Flex", "2"}, [3]string{"8", "Flex", "2"}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 350, got.RequiredCFM)
	assert.Equal(t, 250, got.TotalReturnCFM)
	assert.Equal(t, Capacity(95), got.ReturnTable[8][Flex])
}

func TestCalcHandlerUnknownPreset(t *testing.T) {
	h := newHandler(t)
	rec := postJSON(t, h.Calc, Request{Preset: "missing", TonnageInput: TonnageInput{Tons: "1"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown-preset")
}

func TestCalcFormHandler(t *testing.T) {
	h := newHandler(t)
	form := url.Values{
		"lang":              {"en"},
		"use_house_size":    {"on"},
		"house_size":        {"2000"},
		"sqft_per_ton":      {"500"},
		"supply_diameter[]": {"8", "", "10"},
		"supply_type[]":     {"Flex", "Flex", "Sheet"},
		"supply_qty[]":      {"8", "3", "1"},
		"return_diameter[]": {"5"},
		"return_type[]":     {"Flex"},
		"return_qty[]":      {"2"},
		"return_5_Flex":     {"xx"},
		"supply_10_Sheet":   {"400"},
		"unrelated_field":   {"1"},
	}
	r := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.CalcForm(rec, r)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, SourceHouse, got.TonsSource)
	assert.Equal(t, 1600, got.RequiredCFM)
	assert.Equal(t, 1600, got.TotalSupplyCFM)
	assert.Equal(t, 0, got.TotalReturnCFM)
	require.Len(t, got.Lines, 3)
	assert.NotEmpty(t, got.Lines[2].Error)
}

func TestCalcHandlerNoDucts(t *testing.T) {
	h := newHandler(t)
	rec := postJSON(t, h.Calc, Request{
		Lang:         "es",
		TonnageInput: TonnageInput{Tons: "3"},
		Supply:       entries([3]string{"8", "Flex", "0"}),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no-valid-ducts")
	assert.Contains(t, rec.Body.String(), "No se encontraron")
}

func TestDefaultsHandler(t *testing.T) {
	h := newHandler(t)
	rec := httptest.NewRecorder()
	h.Defaults(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got Defaults
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, Diameters, got.Diameters)
	assert.Equal(t, NotApplicable, got.ReturnTable[5][Flex])
	assert.Equal(t, Capacity(2600), got.SupplyTable[20][Sheet])
	assert.Equal(t, 400, got.CFMPerTon)
	assert.Equal(t, 500, got.SqftPerTon)
}

func TestErrorMessageFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "Enter equipment tons.", ErrorMessage("fr", &ValidationError{Kind: KindTonsRequired}))
	assert.Equal(t, "Formato de toneladas inválido.", ErrorMessage("es", &ValidationError{Kind: KindTonsInvalidFormat}))
	assert.Contains(t, ErrorMessage("en", ErrCalculation), "An error occurred")
	assert.Equal(t, "Sobredimensionado", VerdictLabel("es", VerdictOversized))
}

func TestCalcHandlerInternalFault(t *testing.T) {
	failLookups(t)
	h := newHandler(t)

	rec := postJSON(t, h.Calc, Request{
		Lang:         "es",
		TonnageInput: TonnageInput{Tons: "3"},
		Supply:       entries([3]string{"8", "Flex", "8"}),
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var got errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "calculation-error", got.Error)
	assert.Equal(t, http.StatusInternalServerError, got.Code)
	assert.Contains(t, got.Message, "Ocurrió un error")
}

func TestErrorCode(t *testing.T) {
	code, status := ErrorCode(&ValidationError{Kind: KindTonsNotPositive})
	assert.Equal(t, "tons-not-positive", code)
	assert.Equal(t, http.StatusBadRequest, status)

	code, status = ErrorCode(ErrUnknownPreset)
	assert.Equal(t, "unknown-preset", code)
	assert.Equal(t, http.StatusBadRequest, status)

	code, status = ErrorCode(ErrCalculation)
	assert.Equal(t, "calculation-error", code)
	assert.Equal(t, http.StatusInternalServerError, status)
}
