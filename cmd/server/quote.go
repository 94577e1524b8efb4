package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Simplici0/cotiza3d/internal/pricing"
	"github.com/Simplici0/cotiza3d/internal/quoteinput"
)

const maxQuoteBodyBytes = 1 << 16

type calculatorViewData struct {
	baseViewData
	Materials        []pricing.Material
	SelectedMaterial string
	UnknownMaterial  string
	Job              pricing.Job
	Result           pricing.Formatted
	Currency         string
	ComplexityLabel  string
	TextURL          template.URL
}

type quoteRequest struct {
	WeightGrams float64 `json:"weight_grams"`
	PrintHours  float64 `json:"print_hours"`
	Material    string  `json:"material"`
	Complex     bool    `json:"complex"`
	DesignFee   float64 `json:"design_fee"`
	Colors      *int    `json:"colors"`
	Round       *bool   `json:"round"`
}

type quoteJob struct {
	WeightGrams float64 `json:"weight_grams"`
	PrintHours  float64 `json:"print_hours"`
	Material    string  `json:"material"`
	Complex     bool    `json:"complex"`
	DesignFee   float64 `json:"design_fee"`
	Colors      int     `json:"colors"`
	Round       bool    `json:"round"`
}

type quoteResponse struct {
	Job             quoteJob          `json:"job"`
	Currency        string            `json:"currency"`
	ComplexityLabel string            `json:"complexity_label"`
	Breakdown       pricing.Formatted `json:"breakdown"`
}

type materialResponse struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	CostPerGram float64 `json:"cost_per_gram"`
}

func (r quoteRequest) job() pricing.Job {
	job := pricing.Job{
		WeightGrams: r.WeightGrams,
		PrintHours:  r.PrintHours,
		Material:    strings.TrimSpace(r.Material),
		Complex:     r.Complex,
		DesignFee:   r.DesignFee,
		Colors:      1,
		Round:       true,
	}
	if r.Colors != nil {
		job.Colors = *r.Colors
	}
	if r.Round != nil {
		job.Round = *r.Round
	}
	return quoteinput.Sanitize(job)
}

func (s *server) quote(job pricing.Job) pricing.Breakdown {
	result := s.engine.Quote(job)
	s.metrics.Observe(job, s.engine.Catalog(), result)
	slog.Debug("quote computed",
		"material", job.Material,
		"weight_grams", job.WeightGrams,
		"print_hours", job.PrintHours,
		"price", result.Price,
	)
	return result
}

func (s *server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	job := quoteinput.FromValues(query)
	materials := s.engine.Catalog().Materials()

	// Unknown codes keep the fallback rate, like the JSON API and the CLI.
	selected, unknown := job.Material, ""
	if m, ok := s.engine.Catalog().Lookup(job.Material); ok {
		selected = m.Code
	} else if job.Material == "" && len(materials) > 0 {
		selected = materials[0].Code
		job.Material = selected
	} else {
		unknown = job.Material
	}

	result := s.quote(job)

	s.renderTemplate(w, "calculator.html", calculatorViewData{
		Materials:        materials,
		SelectedMaterial: selected,
		UnknownMaterial:  unknown,
		Job:              job,
		Result:           result.Formatted(),
		Currency:         s.engine.Config().CurrencySymbol,
		ComplexityLabel:  complexityLabel(job.Complex),
		TextURL:          quoteTextURL(job),
	})
}

func (s *server) handleQuoteQuery(w http.ResponseWriter, r *http.Request) {
	job := quoteinput.FromValues(r.URL.Query())
	writeJSON(w, http.StatusOK, s.quoteResponse(job))
}

func (s *server) handleQuoteJSON(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQuoteBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid quote request: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, s.quoteResponse(req.job()))
}

func (s *server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	materials := s.engine.Catalog().Materials()
	out := make([]materialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, materialResponse{Code: m.Code, Name: m.Name, CostPerGram: m.CostPerGram})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	job := quoteinput.FromValues(r.URL.Query())
	result := s.quote(job)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(renderQuoteText(job, result, s.engine.Catalog(), s.engine.Config().CurrencySymbol)))
}

func (s *server) quoteResponse(job pricing.Job) quoteResponse {
	result := s.quote(job)
	return quoteResponse{
		Job: quoteJob{
			WeightGrams: job.WeightGrams,
			PrintHours:  job.PrintHours,
			Material:    job.Material,
			Complex:     job.Complex,
			DesignFee:   job.DesignFee,
			Colors:      job.Colors,
			Round:       job.Round,
		},
		Currency:        s.engine.Config().CurrencySymbol,
		ComplexityLabel: complexityLabel(job.Complex),
		Breakdown:       result.Formatted(),
	}
}

func renderQuoteText(job pricing.Job, result pricing.Breakdown, catalog pricing.Catalog, currency string) string {
	f := result.Formatted()
	materialName := job.Material
	if m, ok := catalog.Lookup(job.Material); ok {
		materialName = m.Name
	}

	var b strings.Builder
	b.WriteString("Presupuesto de impresión 3D\n")
	fmt.Fprintf(&b, "PVP: %s%s\n", f.Price, currency)
	fmt.Fprintf(&b, "Base imponible: %s%s\n", f.TaxableBase, currency)
	fmt.Fprintf(&b, "IVA: %s%s\n", f.VAT, currency)
	b.WriteString("\nDesglose:\n")
	fmt.Fprintf(&b, "- Precio base (%s): %s%s\n", f.SetupLabel, f.SetupFee, currency)
	fmt.Fprintf(&b, "- Material: %s%s\n", f.MaterialCost, currency)
	fmt.Fprintf(&b, "- Máquina: %s%s\n", f.MachineCost, currency)
	if job.Colors > 1 {
		fmt.Fprintf(&b, "- Purga multicolor: %s%s\n", f.PurgePenalty, currency)
	}
	if job.Complex {
		fmt.Fprintf(&b, "- Plus riesgo: %s%s\n", f.RiskSurcharge, currency)
	}
	if job.DesignFee > 0 {
		fmt.Fprintf(&b, "- Diseño: %s%s\n", pricing.Money(job.DesignFee), currency)
	}
	b.WriteString("\nDatos de la pieza:\n")
	fmt.Fprintf(&b, "Material: %s\n", materialName)
	fmt.Fprintf(&b, "Peso: %s g\n", strconv.FormatFloat(job.WeightGrams, 'f', -1, 64))
	fmt.Fprintf(&b, "Horas de impresión: %s\n", strconv.FormatFloat(job.PrintHours, 'f', -1, 64))
	fmt.Fprintf(&b, "Colores: %d\n", job.Colors)
	fmt.Fprintf(&b, "%s\n", complexityLabel(job.Complex))
	return b.String()
}

func quoteTextURL(job pricing.Job) template.URL {
	v := url.Values{}
	v.Set(quoteinput.FieldWeight, strconv.FormatFloat(job.WeightGrams, 'f', -1, 64))
	v.Set(quoteinput.FieldHours, strconv.FormatFloat(job.PrintHours, 'f', -1, 64))
	v.Set(quoteinput.FieldMaterial, job.Material)
	v.Set(quoteinput.FieldColors, strconv.Itoa(job.Colors))
	v.Set(quoteinput.FieldDesignFee, strconv.FormatFloat(job.DesignFee, 'f', -1, 64))
	v.Set(quoteinput.FieldSubmitted, "1")
	if job.Complex {
		v.Set(quoteinput.FieldComplex, "on")
	}
	if job.Round {
		v.Set(quoteinput.FieldRound, "on")
	}
	return template.URL("/quote.txt?" + v.Encode())
}

func complexityLabel(isComplex bool) string {
	if isComplex {
		return "Pieza Compleja"
	}
	return "Pieza Estándar"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
