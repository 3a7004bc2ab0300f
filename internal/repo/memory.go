package repo

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryPresetRepository keeps presets for the lifetime of the process. It is
// used when no database is configured.
type MemoryPresetRepository struct {
	mu      sync.RWMutex
	presets map[string]Preset
	now     func() time.Time
}

func NewMemoryPresetDB() *MemoryPresetRepository {
	return &MemoryPresetRepository{presets: make(map[string]Preset), now: time.Now}
}

func (r *MemoryPresetRepository) SavePreset(_ context.Context, p Preset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.Overrides = copyOverrides(p.Overrides)
	p.UpdatedAt = r.now()
	r.presets[p.Name] = p
	return nil
}

func (r *MemoryPresetRepository) GetPreset(_ context.Context, name string) (Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.presets[name]
	if !ok {
		return Preset{}, ErrPresetNotFound
	}
	p.Overrides = copyOverrides(p.Overrides)
	return p, nil
}

func (r *MemoryPresetRepository) ListPresets(_ context.Context) ([]Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Preset, 0, len(r.presets))
	for _, p := range r.presets {
		p.Overrides = copyOverrides(p.Overrides)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func copyOverrides(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
