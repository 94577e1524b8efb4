package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Simplici0/cotiza3d/internal/db"
	"github.com/Simplici0/cotiza3d/internal/logging"
	"github.com/Simplici0/cotiza3d/internal/migrations"
	"github.com/Simplici0/cotiza3d/internal/pricing"
	"github.com/Simplici0/cotiza3d/internal/quoteinput"
	"github.com/Simplici0/cotiza3d/internal/rates"
	"github.com/Simplici0/cotiza3d/internal/seed"
)

type options struct {
	job      pricing.Job
	dbPath   string
	asJSON   bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{job: pricing.NewJob(0, 0, "PLA")}

	cmd := &cobra.Command{
		Use:   "cotizar",
		Short: "Calcula el precio de venta sugerido de una pieza impresa en 3D",
		Long: `Calcula el PVP de una pieza a partir de su peso, horas de impresión,
material, colores, complejidad y coste de diseño.

Sin --db se usan las tarifas por defecto del taller.`,
		Example: `  cotizar --gramos 100 --horas 2 --material PLA
  cotizar --gramos 320 --horas 9.5 --material TPU --complejo --colores 3 --json
  cotizar --db ./dev.db --gramos 40 --horas 1 --redondear=false`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup(cmd.ErrOrStderr(), opts.logLevel)
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.job.WeightGrams, "gramos", 0, "peso de la pieza en gramos")
	f.Float64Var(&opts.job.PrintHours, "horas", 0, "horas de impresión")
	f.StringVar(&opts.job.Material, "material", "PLA", "código del material (PLA, PETG, TPU, SEDA...)")
	f.BoolVar(&opts.job.Complex, "complejo", false, "pieza compleja (aplica factor de riesgo)")
	f.Float64Var(&opts.job.DesignFee, "diseno", 0, "coste fijo de diseño")
	f.IntVar(&opts.job.Colors, "colores", 1, "número de colores")
	f.BoolVar(&opts.job.Round, "redondear", true, "redondear el PVP al siguiente múltiplo de 0,50")
	f.StringVar(&opts.dbPath, "db", "", "base de datos SQLite con tarifas y materiales")
	f.BoolVar(&opts.asJSON, "json", false, "salida en JSON")
	f.StringVar(&opts.logLevel, "log-level", "warn", "nivel de log (debug, info, warn, error)")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts *options) error {
	engine, err := loadEngine(ctx, opts.dbPath)
	if err != nil {
		return err
	}

	job := quoteinput.Sanitize(opts.job)
	if !engine.Catalog().Has(job.Material) {
		slog.Warn("material desconocido, se usa la tarifa por defecto", "material", job.Material, "cost_per_gram", engine.Catalog().Fallback())
	}

	result := engine.Quote(job)
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Formatted())
	}
	return printBreakdown(out, result.Formatted(), engine.Config().CurrencySymbol)
}

func loadEngine(ctx context.Context, dbPath string) (*pricing.Engine, error) {
	if dbPath == "" {
		return pricing.NewEngine(pricing.DefaultConfig(), pricing.DefaultCatalog())
	}

	database, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return nil, err
	}
	if _, err := seed.Run(ctx, database, seed.Config{}); err != nil {
		return nil, err
	}
	return rates.LoadEngine(ctx, database)
}

func printBreakdown(out io.Writer, f pricing.Formatted, currency string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		label string
		value string
	}{
		{"PVP", f.Price},
		{"Base imponible", f.TaxableBase},
		{"IVA", f.VAT},
		{"IRPF (informativo)", f.IncomeTax},
		{"Coste real", f.ProductionCost},
		{"Plus riesgo", f.RiskSurcharge},
		{"Coste con riesgo", f.CostWithRisk},
		{"Material", f.MaterialCost},
		{"Máquina", f.MachineCost},
		{fmt.Sprintf("Precio base (%s)", f.SetupLabel), f.SetupFee},
		{"Purga multicolor", f.PurgePenalty},
		{"Comisión web", f.WebCommission},
		{"Comisión arte", f.ArtCommission},
		{"Margen bruto", f.GrossMargin},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s%s\t\n", row.label, row.value, currency); err != nil {
			return err
		}
	}
	return tw.Flush()
}
