package quoteinput

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Simplici0/cotiza3d/internal/pricing"
)

func TestFromValues_ParsesCalculatorFields(t *testing.T) {
	v := url.Values{}
	v.Set(FieldWeight, "100")
	v.Set(FieldHours, "2,5")
	v.Set(FieldMaterial, " TPU ")
	v.Set(FieldColors, "3")
	v.Set(FieldComplex, "on")
	v.Set(FieldDesignFee, "12.5")
	v.Set(FieldRound, "on")
	v.Set(FieldSubmitted, "1")

	job := FromValues(v)

	assert.Equal(t, pricing.Job{
		WeightGrams: 100,
		PrintHours:  2.5,
		Material:    "TPU",
		Complex:     true,
		DesignFee:   12.5,
		Colors:      3,
		Round:       true,
	}, job)
}

func TestFromValues_FallbacksOnInvalidInput(t *testing.T) {
	v := url.Values{}
	v.Set(FieldWeight, "abc")
	v.Set(FieldHours, "-3")
	v.Set(FieldColors, "many")
	v.Set(FieldDesignFee, "NaN")

	job := FromValues(v)

	assert.Zero(t, job.WeightGrams)
	assert.Zero(t, job.PrintHours)
	assert.Zero(t, job.DesignFee)
	assert.Equal(t, 1, job.Colors)
	assert.False(t, job.Complex)
	assert.True(t, job.Round, "rounding defaults to on when the form was never submitted")
}

func TestFromValues_SubmittedFormWithoutRoundingCheckbox(t *testing.T) {
	v := url.Values{}
	v.Set(FieldWeight, "100")
	v.Set(FieldSubmitted, "1")

	assert.False(t, FromValues(v).Round)
}

func TestNumber(t *testing.T) {
	assert.InDelta(t, 12.5, Number(" 12,5 "), 1e-12)
	assert.InDelta(t, 3, Number("3"), 1e-12)
	assert.Zero(t, Number("12abc"))
	assert.Zero(t, Number("-7"))
	assert.Zero(t, Number("NaN"))
	assert.Zero(t, Number(""))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 1, Count(""))
	assert.Equal(t, 1, Count("0"))
	assert.Equal(t, 1, Count("-4"))
	assert.Equal(t, 4, Count("4"))
	assert.Equal(t, 2, Count("2.9"))
	assert.Equal(t, 1, Count("1e20"))
}

func TestSanitize_ClampsNegativeAndNonFinite(t *testing.T) {
	job := Sanitize(pricing.Job{
		WeightGrams: -10,
		PrintHours:  math.Inf(1),
		DesignFee:   math.NaN(),
		Colors:      -2,
		Material:    "PLA",
	})

	assert.Zero(t, job.WeightGrams)
	assert.Zero(t, job.PrintHours)
	assert.Zero(t, job.DesignFee)
	assert.Equal(t, 1, job.Colors)
	assert.Equal(t, "PLA", job.Material)
}

func TestCheckbox(t *testing.T) {
	for _, raw := range []string{"on", "1", "TRUE", "sí"} {
		assert.True(t, Checkbox(raw), raw)
	}
	for _, raw := range []string{"", "off", "0", "no"} {
		assert.False(t, Checkbox(raw), raw)
	}
}
