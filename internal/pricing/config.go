package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid pricing config")

// SetupFees holds the flat preparation charge of each weight tier.
type SetupFees struct {
	Small  float64
	Medium float64
	Large  float64
}

// For returns the fee of tier.
func (s SetupFees) For(tier Tier) float64 {
	switch tier {
	case TierMedium:
		return s.Medium
	case TierLarge:
		return s.Large
	default:
		return s.Small
	}
}

// Config represents the business constants used by the price formula.
// Rates are fractions (0.21 means 21%).
type Config struct {
	WebCommissionRate    float64
	ArtCommissionRate    float64
	VATRate              float64
	IncomeTaxRate        float64
	ProfitMargin         float64
	HourlyMachineCost    float64
	SetupFees            SetupFees
	MultiColorPenalty    float64
	ComplexityRiskFactor float64
	StandardRiskFactor   float64
	CurrencySymbol       string
}

// DefaultConfig returns the constants of the shop's current deployment.
func DefaultConfig() Config {
	return Config{
		WebCommissionRate:    0.10,
		ArtCommissionRate:    0.05,
		VATRate:              0.21,
		IncomeTaxRate:        0.20,
		ProfitMargin:         0.50,
		HourlyMachineCost:    0.15,
		SetupFees:            SetupFees{Small: 1.00, Medium: 2.50, Large: 5.00},
		MultiColorPenalty:    1.50,
		ComplexityRiskFactor: 1.25,
		StandardRiskFactor:   1.0,
		CurrencySymbol:       "€",
	}
}

// TotalCommissionRate is the sum of every sales channel commission.
func (c Config) TotalCommissionRate() float64 {
	return c.WebCommissionRate + c.ArtCommissionRate
}

// Validate reports every constraint violated by c, joined into one error.
func (c Config) Validate() error {
	var errs []error

	rates := []struct {
		name  string
		value float64
	}{
		{"web_commission_rate", c.WebCommissionRate},
		{"art_commission_rate", c.ArtCommissionRate},
		{"vat_rate", c.VATRate},
		{"income_tax_rate", c.IncomeTaxRate},
	}
	for _, r := range rates {
		if !isFinite(r.value) || r.value < 0 || r.value >= 1 {
			errs = append(errs, fmt.Errorf("%w: %s must be in [0,1), got %v", ErrInvalidConfig, r.name, r.value))
		}
	}

	if total := c.TotalCommissionRate(); total >= 1 {
		errs = append(errs, fmt.Errorf("%w: total commission rate must be below 1, got %v", ErrInvalidConfig, total))
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"profit_margin", c.ProfitMargin},
		{"hourly_machine_cost", c.HourlyMachineCost},
		{"setup_fee_small", c.SetupFees.Small},
		{"setup_fee_medium", c.SetupFees.Medium},
		{"setup_fee_large", c.SetupFees.Large},
		{"multi_color_penalty", c.MultiColorPenalty},
	}
	for _, a := range amounts {
		if !isFinite(a.value) || a.value < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidConfig, a.name, a.value))
		}
	}

	factors := []struct {
		name  string
		value float64
	}{
		{"complexity_risk_factor", c.ComplexityRiskFactor},
		{"standard_risk_factor", c.StandardRiskFactor},
	}
	for _, f := range factors {
		if !isFinite(f.value) || f.value < 1 {
			errs = append(errs, fmt.Errorf("%w: %s must be at least 1, got %v", ErrInvalidConfig, f.name, f.value))
		}
	}

	return errors.Join(errs...)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
