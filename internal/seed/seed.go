package seed

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/cotiza3d/internal/pricing"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way. Existing rows are never modified,
// so values edited directly in the database survive restarts.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(ctx, tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureMaterials(ctx, tx, pricing.DefaultCatalog(), &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensurePricingConfig(ctx, tx, pricing.DefaultConfig(), &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureMaterials(ctx context.Context, tx *sql.Tx, catalog pricing.Catalog, stats *Stats) error {
	for i, m := range catalog.Materials() {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM materials WHERE code = ? LIMIT 1)`, m.Code).Scan(&exists); err != nil {
			return fmt.Errorf("check material %s existence: %w", m.Code, err)
		}
		if exists {
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO materials (code, name, cost_per_gram, position, active)
			VALUES (?, ?, ?, ?, TRUE)
		`, m.Code, m.Name, m.CostPerGram, i); err != nil {
			return fmt.Errorf("insert material %s: %w", m.Code, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensurePricingConfig(ctx context.Context, tx *sql.Tx, cfg pricing.Config, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pricing_config WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check pricing config existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pricing_config (
			id,
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
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		cfg.WebCommissionRate,
		cfg.ArtCommissionRate,
		cfg.VATRate,
		cfg.IncomeTaxRate,
		cfg.ProfitMargin,
		cfg.HourlyMachineCost,
		cfg.SetupFees.Small,
		cfg.SetupFees.Medium,
		cfg.SetupFees.Large,
		cfg.MultiColorPenalty,
		cfg.ComplexityRiskFactor,
		cfg.StandardRiskFactor,
		pricing.DefaultMaterialRate,
		cfg.CurrencySymbol,
	); err != nil {
		return fmt.Errorf("insert pricing config singleton: %w", err)
	}
	stats.Inserts++
	return nil
}
