package preset

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"Ductcalc/internal/auth"
	"Ductcalc/internal/calc/duct"
	"Ductcalc/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Repo repo.Repository
	Log  *zap.Logger
}

type SaveRequest struct {
	Description string            `json:"description"`
	CFMPerTon   string            `json:"cfm_per_ton"`
	Overrides   map[string]string `json:"overrides"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	presets, err := h.Repo.ListPresets(r.Context())
	if err != nil {
		h.Log.Error("list presets", zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if presets == nil {
		presets = []repo.Preset{}
	}
	duct.WriteJSON(w, http.StatusOK, presets)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.GetPreset(r.Context(), mux.Vars(r)["name"])
	if errors.Is(err, repo.ErrPresetNotFound) {
		http.Error(w, "Preset not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("get preset", zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	duct.WriteJSON(w, http.StatusOK, p)
}

// Save creates or replaces a preset. Keys that are not table cells are
// rejected so a typo cannot silently do nothing.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])
	if name == "" {
		http.Error(w, "Preset name required", http.StatusBadRequest)
		return
	}
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	for key := range req.Overrides {
		if _, ok := duct.ParseOverrideKey(key); !ok {
			http.Error(w, "Unknown table cell: "+key, http.StatusBadRequest)
			return
		}
	}

	p := repo.Preset{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CFMPerTon:   strings.TrimSpace(req.CFMPerTon),
		Overrides:   req.Overrides,
	}
	if err := h.Repo.SavePreset(r.Context(), p); err != nil {
		h.Log.Error("save preset", zap.String("name", name), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	h.Log.Info("preset saved", zap.String("name", name), zap.String("by", auth.LoginFrom(r.Context())), zap.Int("cells", len(p.Overrides)))
	w.WriteHeader(http.StatusNoContent)
}
