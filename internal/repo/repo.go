package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrPresetNotFound = errors.New("preset not found")

// Preset is a named set of table overrides, keyed the same way as the
// calculator form ("return_5_Flex" -> "xx").
type Preset struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CFMPerTon   string            `json:"cfm_per_ton,omitempty"`
	Overrides   map[string]string `json:"overrides"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type Repository interface {
	SavePreset(ctx context.Context, p Preset) error
	GetPreset(ctx context.Context, name string) (Preset, error)
	ListPresets(ctx context.Context) ([]Preset, error)
}

const schema = `CREATE TABLE IF NOT EXISTS duct_presets (
	name        TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	cfm_per_ton TEXT NOT NULL DEFAULT '',
	overrides   JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresPresetRepository struct {
	db *sql.DB
}

func NewPostgresPresetDB(db *sql.DB) *PostgresPresetRepository {
	return &PostgresPresetRepository{db: db}
}

// Migrate creates the presets table when it does not exist yet.
func (r *PostgresPresetRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create duct_presets: %w", err)
	}
	return nil
}

func (r *PostgresPresetRepository) SavePreset(ctx context.Context, p Preset) error {
	overrides, err := json.Marshal(nonNil(p.Overrides))
	if err != nil {
		return fmt.Errorf("encode overrides: %w", err)
	}
	query := `INSERT INTO duct_presets (name, description, cfm_per_ton, overrides, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			cfm_per_ton = EXCLUDED.cfm_per_ton,
			overrides = EXCLUDED.overrides,
			updated_at = now()`
	_, err = r.db.ExecContext(ctx, query, p.Name, p.Description, p.CFMPerTon, overrides)
	return err
}

func (r *PostgresPresetRepository) GetPreset(ctx context.Context, name string) (Preset, error) {
	query := "SELECT name, description, cfm_per_ton, overrides, updated_at FROM duct_presets WHERE name=$1"
	p, err := scanPreset(r.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return Preset{}, ErrPresetNotFound
	}
	return p, err
}

func (r *PostgresPresetRepository) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name, description, cfm_per_ton, overrides, updated_at FROM duct_presets ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(s scanner) (Preset, error) {
	var (
		p   Preset
		raw []byte
	)
	if err := s.Scan(&p.Name, &p.Description, &p.CFMPerTon, &raw, &p.UpdatedAt); err != nil {
		return Preset{}, err
	}
	if err := json.Unmarshal(raw, &p.Overrides); err != nil {
		return Preset{}, fmt.Errorf("decode overrides of %q: %w", p.Name, err)
	}
	return p, nil
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
