package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Simplici0/cotiza3d/internal/db"
)

func TestUpCreatesSchemaAndIsRepeatable(t *testing.T) {
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := Up(database); err != nil {
			t.Fatalf("run migrations (iteration=%d): %v", i, err)
		}
	}

	version, err := Version(database)
	if err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected schema version 1, got %d", version)
	}

	for _, table := range []string{"users", "materials", "pricing_config"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestPricingConfigIsSingleton(t *testing.T) {
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "singleton.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	_, err = database.Exec(`
		INSERT INTO pricing_config (
			id, web_commission_rate, art_commission_rate, vat_rate, income_tax_rate, profit_margin,
			hourly_machine_cost, setup_fee_small, setup_fee_medium, setup_fee_large,
			multi_color_penalty, complexity_risk_factor, standard_risk_factor, fallback_cost_per_gram
		) VALUES (2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0.022)
	`)
	if err == nil {
		t.Fatalf("expected check constraint to reject a second pricing_config row")
	}
}
