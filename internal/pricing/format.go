package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Formatted is the display form of a Breakdown: every amount carries exactly two decimals.
type Formatted struct {
	Price          string `json:"price"`
	TaxableBase    string `json:"taxable_base"`
	VAT            string `json:"vat"`
	IncomeTax      string `json:"income_tax"`
	ProductionCost string `json:"production_cost"`
	RiskSurcharge  string `json:"risk_surcharge"`
	CostWithRisk   string `json:"cost_with_risk"`
	MaterialCost   string `json:"material_cost"`
	MachineCost    string `json:"machine_cost"`
	SetupFee       string `json:"setup_fee"`
	SetupTier      Tier   `json:"setup_tier"`
	SetupLabel     string `json:"setup_label"`
	PurgePenalty   string `json:"purge_penalty"`
	WebCommission  string `json:"web_commission"`
	ArtCommission  string `json:"art_commission"`
	GrossMargin    string `json:"gross_margin"`
	Complex        bool   `json:"complex"`
}

// Formatted rounds every monetary field to cents for display.
func (b Breakdown) Formatted() Formatted {
	return Formatted{
		Price:          Money(b.Price),
		TaxableBase:    Money(b.TaxableBase),
		VAT:            Money(b.VAT),
		IncomeTax:      Money(b.IncomeTax),
		ProductionCost: Money(b.ProductionCost),
		RiskSurcharge:  Money(b.RiskSurcharge),
		CostWithRisk:   Money(b.CostWithRisk),
		MaterialCost:   Money(b.MaterialCost),
		MachineCost:    Money(b.MachineCost),
		SetupFee:       Money(b.SetupFee),
		SetupTier:      b.SetupTier,
		SetupLabel:     b.SetupTier.Label(),
		PurgePenalty:   Money(b.PurgePenalty),
		WebCommission:  Money(b.WebCommission),
		ArtCommission:  Money(b.ArtCommission),
		GrossMargin:    Money(b.GrossMargin),
		Complex:        b.Complex,
	}
}

// Money renders v with exactly two fractional digits, rounding half away from zero.
func Money(v float64) string {
	if !isFinite(v) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
