// Package quoteinput turns raw calculator fields into a pricing job.
//
// Coercion never fails: unparsable numbers become 0, an unparsable color count
// becomes 1, and negative or non-finite amounts are clamped to 0. The pricing
// engine itself does no such checks.
package quoteinput

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Simplici0/cotiza3d/internal/pricing"
)

// Field names shared by the calculator form, the query API and the CLI.
const (
	FieldWeight    = "gramos"
	FieldHours     = "horas"
	FieldMaterial  = "material"
	FieldColors    = "colores"
	FieldComplex   = "esComplejo"
	FieldDesignFee = "costeDiseno"
	FieldRound     = "redondear"

	// FieldSubmitted marks a submitted form, where an absent checkbox means unchecked.
	FieldSubmitted = "enviado"
)

// FromValues builds a sanitized job from form or query values.
func FromValues(v url.Values) pricing.Job {
	job := pricing.Job{
		WeightGrams: Number(v.Get(FieldWeight)),
		PrintHours:  Number(v.Get(FieldHours)),
		Material:    strings.TrimSpace(v.Get(FieldMaterial)),
		Complex:     Checkbox(v.Get(FieldComplex)),
		DesignFee:   Number(v.Get(FieldDesignFee)),
		Colors:      Count(v.Get(FieldColors)),
		Round:       true,
	}
	if v.Has(FieldRound) || v.Has(FieldSubmitted) {
		job.Round = Checkbox(v.Get(FieldRound))
	}
	return Sanitize(job)
}

// Sanitize clamps the amounts of job to non-negative finite values and the color count to at least 1.
func Sanitize(job pricing.Job) pricing.Job {
	job.WeightGrams = clamp(job.WeightGrams)
	job.PrintHours = clamp(job.PrintHours)
	job.DesignFee = clamp(job.DesignFee)
	if job.Colors < 1 {
		job.Colors = 1
	}
	return job
}

// Number parses a decimal amount, accepting a comma as decimal separator. Invalid input yields 0.
func Number(raw string) float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return clamp(value)
}

// Count parses a whole color count. Fractions are truncated; invalid input yields 1.
func Count(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return max(n, 1)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsNaN(f) || f < 1 || f > math.MaxInt32 {
		return 1
	}
	return int(f)
}

// Checkbox reports whether a checkbox or boolean field is set.
func Checkbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "on", "true", "si", "sí", "yes":
		return true
	default:
		return false
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
