// Package rates reads the pricing configuration and material catalog from the database.
// Both are loaded once at startup and handed to the pricing engine.
package rates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/cotiza3d/internal/pricing"
)

// ErrConfigMissing is returned when the pricing_config singleton row does not exist.
var ErrConfigMissing = errors.New("pricing_config singleton not found")

// Snapshot is the configuration source output: everything the engine needs.
type Snapshot struct {
	Config  pricing.Config
	Catalog pricing.Catalog
}

// Load reads the pricing configuration and active materials.
func Load(ctx context.Context, db *sql.DB) (Snapshot, error) {
	cfg, fallback, err := loadConfig(ctx, db)
	if err != nil {
		return Snapshot{}, err
	}

	materials, err := listMaterials(ctx, db)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Config:  cfg,
		Catalog: pricing.NewCatalog(fallback, materials...),
	}, nil
}

// LoadEngine loads a snapshot and builds a validated engine from it.
// An invalid stored configuration is reported here, never at quote time.
func LoadEngine(ctx context.Context, db *sql.DB) (*pricing.Engine, error) {
	snap, err := Load(ctx, db)
	if err != nil {
		return nil, err
	}

	engine, err := pricing.NewEngine(snap.Config, snap.Catalog)
	if err != nil {
		return nil, fmt.Errorf("stored pricing config: %w", err)
	}
	return engine, nil
}

func loadConfig(ctx context.Context, db *sql.DB) (pricing.Config, float64, error) {
	var (
		cfg      pricing.Config
		fallback float64
	)
	err := db.QueryRowContext(ctx, `
		SELECT
			web_commission_rate,
			art_commission_rate,
			vat_rate,
			income_tax_rate,
			profit_margin,
			hourly_machine_cost,
			setup_fee_small,
			setup_fee_medium,
			setup_fee_large,
			multi_color_penalty,
			complexity_risk_factor,
			standard_risk_factor,
			fallback_cost_per_gram,
			currency_symbol
		FROM pricing_config
		WHERE id = 1
	`).Scan(
		&cfg.WebCommissionRate,
		&cfg.ArtCommissionRate,
		&cfg.VATRate,
		&cfg.IncomeTaxRate,
		&cfg.ProfitMargin,
		&cfg.HourlyMachineCost,
		&cfg.SetupFees.Small,
		&cfg.SetupFees.Medium,
		&cfg.SetupFees.Large,
		&cfg.MultiColorPenalty,
		&cfg.ComplexityRiskFactor,
		&cfg.StandardRiskFactor,
		&fallback,
		&cfg.CurrencySymbol,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.Config{}, 0, ErrConfigMissing
		}
		return pricing.Config{}, 0, fmt.Errorf("query pricing_config: %w", err)
	}
	return cfg, fallback, nil
}

func listMaterials(ctx context.Context, db *sql.DB) ([]pricing.Material, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT code, name, cost_per_gram
		FROM materials
		WHERE active
		ORDER BY position, code
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]pricing.Material, 0)
	for rows.Next() {
		var m pricing.Material
		if err := rows.Scan(&m.Code, &m.Name, &m.CostPerGram); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}
