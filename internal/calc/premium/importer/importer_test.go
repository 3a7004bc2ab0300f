package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"Ductcalc/internal/calc/duct"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var layout = [][]interface{}{
	{"side", "diameter", "type", "qty"},
	{"Supply", 8, "Flex", 8},
	{"return", 10, "Sheet", 4},
	{"exhaust", 6, "Flex", 1},
	{"supply", 6},
	{"return", 5, "Flex", 1},
}

func TestParseSheet(t *testing.T) {
	supply, ret, err := ParseSheet(workbook(t, layout))
	require.NoError(t, err)

	assert.Equal(t, duct.Entries{Diameters: []string{"8"}, Types: []string{"Flex"}, Quantities: []string{"8"}}, supply)
	assert.Equal(t, []string{"10", "5"}, ret.Diameters)
	assert.Equal(t, []string{"4", "1"}, ret.Quantities)
}

func TestParseSheetEmpty(t *testing.T) {
	_, _, err := ParseSheet(workbook(t, [][]interface{}{{"side", "diameter", "type", "qty"}}))
	assert.Error(t, err)

	_, _, err = ParseSheet(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "layout.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(workbook(t, layout).Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("tons", "3"))
	require.NoError(t, mw.WriteField("return_5_Flex", "40"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/tools/duct/import", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	(&Handler{Calc: &duct.Service{}}).Ducts(rec, r)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got duct.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1200, got.TotalSupplyCFM)
	assert.Equal(t, 1240, got.TotalReturnCFM)
	assert.Equal(t, duct.VerdictGood, got.ReturnVerdict)
}

func TestHandlerMissingFile(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("tons", "3"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	(&Handler{Calc: &duct.Service{}}).Ducts(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
