package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/cotiza3d/internal/pricing"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestCotizar_DefaultRatesJSON(t *testing.T) {
	out := execute(t, "--gramos", "100", "--horas", "2", "--material", "PLA", "--json")

	var f pricing.Formatted
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, "11.00", f.Price)
	assert.Equal(t, "9.09", f.TaxableBase)
	assert.Equal(t, pricing.TierMedium, f.SetupTier)
}

func TestCotizar_TableOutput(t *testing.T) {
	out := execute(t, "--gramos", "300", "--horas", "4", "--complejo", "--colores", "2")

	assert.Contains(t, out, "PVP")
	assert.Contains(t, out, "Precio base (Grande)")
	assert.Contains(t, out, "5.00€")
}

func TestCotizar_WithoutRoundingAndNegativeInputs(t *testing.T) {
	out := execute(t, "--gramos", "-5", "--horas", "-1", "--redondear=false", "--json")

	var f pricing.Formatted
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, "0.00", f.MaterialCost)
	assert.Equal(t, "0.00", f.MachineCost)
	// 1.00 * 1.5 / 0.85 * 1.21 = 2.1352...
	assert.Equal(t, "2.14", f.Price)
}

func TestCotizar_ReadsRatesFromDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	out := execute(t, "--db", dbPath, "--gramos", "100", "--horas", "2", "--material", "TPU", "--json")

	var f pricing.Formatted
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, "10.00", f.MaterialCost)
}

func TestCotizar_RejectsPositionalArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"100"})

	assert.Error(t, cmd.Execute())
}
