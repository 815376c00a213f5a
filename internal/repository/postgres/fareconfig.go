package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
)

// FareConfigRepository is a PostgreSQL implementation of
// repository.FareConfigRepository. The pricing payload (rates, windows,
// bands) is stored as JSONB; version and active flag are flat columns so the
// single-active invariant can be enforced in SQL.
type FareConfigRepository struct {
	db *sql.DB
}

// NewFareConfigRepository creates a new PostgreSQL fare config repository.
func NewFareConfigRepository(db *sql.DB) *FareConfigRepository {
	return &FareConfigRepository{db: db}
}

// configPayload is the JSONB document stored per version.
type configPayload struct {
	Rates             map[domain.VehicleClass]domain.VehicleRates `json:"rates"`
	SurgeWindows      []domain.SurgeWindow                        `json:"surge_windows"`
	DemandBands       []domain.DemandBand                         `json:"demand_bands"`
	Night             domain.NightWindow                          `json:"night"`
	TaxPercent        float64                                     `json:"tax_percent"`
	CommissionPercent float64                                     `json:"commission_percent"`
}

// GetActive retrieves the active configuration.
func (r *FareConfigRepository) GetActive(ctx context.Context) (*domain.FareConfiguration, error) {
	query := `
		SELECT id, version, payload, created_at
		FROM fare_configurations WHERE active = TRUE
	`
	return r.scanConfig(r.db.QueryRowContext(ctx, query), true)
}

// GetByVersion retrieves a historical configuration.
func (r *FareConfigRepository) GetByVersion(ctx context.Context, version int64) (*domain.FareConfiguration, error) {
	query := `
		SELECT id, version, payload, created_at
		FROM fare_configurations WHERE version = $1
	`
	cfg, err := r.scanConfig(r.db.QueryRowContext(ctx, query, version), false)
	if err != nil {
		return nil, err
	}

	var active bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT active FROM fare_configurations WHERE version = $1`, version,
	).Scan(&active); err == nil {
		cfg.Active = active
	}
	return cfg, nil
}

// Publish deactivates the current version and inserts cfg as the next one,
// atomically, so exactly one configuration is active at any time.
func (r *FareConfigRepository) Publish(ctx context.Context, cfg *domain.FareConfiguration) (*domain.FareConfiguration, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var nextVersion int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM fare_configurations`,
	).Scan(&nextVersion)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE fare_configurations SET active = FALSE WHERE active = TRUE`,
	); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(configPayload{
		Rates:             cfg.Rates,
		SurgeWindows:      cfg.SurgeWindows,
		DemandBands:       cfg.DemandBands,
		Night:             cfg.Night,
		TaxPercent:        cfg.TaxPercent,
		CommissionPercent: cfg.CommissionPercent,
	})
	if err != nil {
		return nil, err
	}

	published := &domain.FareConfiguration{
		ID:                uuid.New().String(),
		Version:           nextVersion,
		Active:            true,
		Rates:             cfg.Rates,
		SurgeWindows:      cfg.SurgeWindows,
		DemandBands:       cfg.DemandBands,
		Night:             cfg.Night,
		TaxPercent:        cfg.TaxPercent,
		CommissionPercent: cfg.CommissionPercent,
		CreatedAt:         time.Now(),
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO fare_configurations (id, version, active, payload, created_at)
		 VALUES ($1, $2, TRUE, $3, $4)`,
		published.ID, published.Version, payload, published.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return published, nil
}

func (r *FareConfigRepository) scanConfig(row *sql.Row, active bool) (*domain.FareConfiguration, error) {
	var cfg domain.FareConfiguration
	var payload []byte

	err := row.Scan(&cfg.ID, &cfg.Version, &payload, &cfg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var doc configPayload
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}

	cfg.Active = active
	cfg.Rates = doc.Rates
	cfg.SurgeWindows = doc.SurgeWindows
	cfg.DemandBands = doc.DemandBands
	cfg.Night = doc.Night
	cfg.TaxPercent = doc.TaxPercent
	cfg.CommissionPercent = doc.CommissionPercent

	return &cfg, nil
}
