package pricing

import (
	"errors"
	"math"
)

const (
	smallTierLimitGrams = 50.0
	largeTierLimitGrams = 250.0

	// Prices are rounded up to the next multiple of 1/roundingSteps.
	roundingSteps = 2.0
)

// Tier identifies the setup fee bracket selected from the job weight.
type Tier string

const (
	TierSmall  Tier = "small"
	TierMedium Tier = "medium"
	TierLarge  Tier = "large"
)

// Label returns the customer-facing name of the tier.
func (t Tier) Label() string {
	switch t {
	case TierSmall:
		return "Pequeña"
	case TierMedium:
		return "Mediana"
	case TierLarge:
		return "Grande"
	default:
		return string(t)
	}
}

// TierForWeight picks the setup tier. Both 50 g and 250 g belong to the medium tier.
func TierForWeight(grams float64) Tier {
	switch {
	case grams > largeTierLimitGrams:
		return TierLarge
	case grams >= smallTierLimitGrams:
		return TierMedium
	default:
		return TierSmall
	}
}

// Job holds the production parameters of a single object to quote.
type Job struct {
	WeightGrams float64
	PrintHours  float64
	Material    string
	Complex     bool
	DesignFee   float64
	Colors      int
	Round       bool
}

// NewJob returns a job with one color, no design fee and rounding enabled.
func NewJob(weightGrams, printHours float64, material string) Job {
	return Job{
		WeightGrams: weightGrams,
		PrintHours:  printHours,
		Material:    material,
		Colors:      1,
		Round:       true,
	}
}

// Breakdown contains every intermediate and line-item value of a quote at full precision.
type Breakdown struct {
	Price                 float64
	UnroundedPrice        float64
	TaxableBase           float64
	VAT                   float64
	IncomeTax             float64
	ProductionCost        float64
	RiskFactor            float64
	RiskSurcharge         float64
	CostWithRisk          float64
	PriceBeforeCommission float64
	MaterialCost          float64
	MachineCost           float64
	SetupFee              float64
	SetupTier             Tier
	PurgePenalty          float64
	WebCommission         float64
	ArtCommission         float64
	GrossMargin           float64
	Complex               bool
}

// Calculate computes the suggested price of job under cfg and catalog.
// It never fails; callers are expected to pass sanitized inputs and a validated config.
func Calculate(job Job, cfg Config, catalog Catalog) Breakdown {
	materialCost := job.WeightGrams * catalog.Rate(job.Material)
	machineCost := job.PrintHours * cfg.HourlyMachineCost

	tier := TierForWeight(job.WeightGrams)
	setupFee := cfg.SetupFees.For(tier)

	purge := 0.0
	if job.Colors > 1 {
		purge = float64(job.Colors-1) * cfg.MultiColorPenalty
	}

	subtotal := setupFee + purge + materialCost + machineCost

	riskFactor := cfg.StandardRiskFactor
	if job.Complex {
		riskFactor = cfg.ComplexityRiskFactor
	}
	costWithRisk := subtotal * riskFactor
	riskSurcharge := subtotal * (riskFactor - 1)

	beforeCommission := costWithRisk*(1+cfg.ProfitMargin) + job.DesignFee

	totalCommission := cfg.TotalCommissionRate()
	base := beforeCommission / (1 - totalCommission)
	price := base * (1 + cfg.VATRate)
	unrounded := price

	if job.Round {
		price = math.Ceil(price*roundingSteps) / roundingSteps
		base = price / (1 + cfg.VATRate)
	}

	return Breakdown{
		Price:                 price,
		UnroundedPrice:        unrounded,
		TaxableBase:           base,
		VAT:                   base * cfg.VATRate,
		IncomeTax:             base * cfg.IncomeTaxRate,
		ProductionCost:        subtotal,
		RiskFactor:            riskFactor,
		RiskSurcharge:         riskSurcharge,
		CostWithRisk:          costWithRisk,
		PriceBeforeCommission: beforeCommission,
		MaterialCost:          materialCost,
		MachineCost:           machineCost,
		SetupFee:              setupFee,
		SetupTier:             tier,
		PurgePenalty:          purge,
		WebCommission:         base * cfg.WebCommissionRate,
		ArtCommission:         base * cfg.ArtCommissionRate,
		GrossMargin:           base - subtotal - base*totalCommission,
		Complex:               job.Complex,
	}
}

// Engine binds a validated configuration and catalog.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg     Config
	catalog Catalog
}

// NewEngine validates cfg and catalog and returns an engine quoting against them.
func NewEngine(cfg Config, catalog Catalog) (*Engine, error) {
	if err := errors.Join(cfg.Validate(), catalog.Validate()); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, catalog: catalog}, nil
}

// Quote computes the breakdown for job.
func (e *Engine) Quote(job Job) Breakdown {
	return Calculate(job, e.cfg, e.catalog)
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Catalog returns the material catalog the engine was built with.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}
