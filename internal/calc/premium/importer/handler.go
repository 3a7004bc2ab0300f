package importer

import (
	"net/http"

	"Ductcalc/internal/calc/duct"
)

const maxUploadSize = 10 << 20

type Handler struct {
	Calc *duct.Service
}

// Ducts calculates a layout uploaded as a spreadsheet. Tonnage, presets and
// table overrides come from the other multipart fields, named as on the form.
func (h *Handler) Ducts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too big", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	supply, ret, err := ParseSheet(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}

	req := duct.RequestFromForm(r.MultipartForm.Value)
	req.Supply = supply
	req.Return = ret

	res, err := h.Calc.Run(r.Context(), req)
	if err != nil {
		duct.WriteError(w, req.Lang, err)
		return
	}
	duct.WriteJSON(w, http.StatusOK, duct.NewResponse(req.Lang, res))
}
