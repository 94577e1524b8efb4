package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaterialRate is the cost per gram of generic PLA/PETG, used for unknown materials.
const DefaultMaterialRate = 0.022

// Material is one entry of the catalog.
type Material struct {
	Code        string
	Name        string
	CostPerGram float64
}

// Catalog maps material codes to their cost per gram. It is not modified after construction.
type Catalog struct {
	materials []Material
	rates     map[string]float64
	fallback  float64
}

// NewCatalog builds a catalog from materials, keeping their order for display.
// Later duplicates of a code replace earlier ones.
func NewCatalog(fallback float64, materials ...Material) Catalog {
	c := Catalog{
		materials: make([]Material, 0, len(materials)),
		rates:     make(map[string]float64, len(materials)),
		fallback:  fallback,
	}
	for _, m := range materials {
		key := normalizeCode(m.Code)
		if key == "" {
			continue
		}
		m.Code = key
		if _, seen := c.rates[key]; seen {
			for i := range c.materials {
				if c.materials[i].Code == key {
					c.materials[i] = m
				}
			}
		} else {
			c.materials = append(c.materials, m)
		}
		c.rates[key] = m.CostPerGram
	}
	return c
}

// DefaultCatalog returns the filament list sold by the shop.
func DefaultCatalog() Catalog {
	return NewCatalog(DefaultMaterialRate,
		Material{Code: "PLA", Name: "PLA", CostPerGram: 0.022},
		Material{Code: "PETG", Name: "PETG", CostPerGram: 0.022},
		Material{Code: "TPU", Name: "TPU (flexible)", CostPerGram: 0.1},
		Material{Code: "SEDA", Name: "PLA Seda", CostPerGram: 0.09},
	)
}

// Rate returns the cost per gram of code, or the fallback rate when the code is unknown.
func (c Catalog) Rate(code string) float64 {
	if rate, ok := c.rates[normalizeCode(code)]; ok {
		return rate
	}
	return c.fallback
}

// Has reports whether code is listed in the catalog.
func (c Catalog) Has(code string) bool {
	_, ok := c.rates[normalizeCode(code)]
	return ok
}

// Lookup returns the catalog entry for code.
func (c Catalog) Lookup(code string) (Material, bool) {
	key := normalizeCode(code)
	for _, m := range c.materials {
		if m.Code == key {
			return m, true
		}
	}
	return Material{}, false
}

// Fallback returns the rate applied to unknown codes.
func (c Catalog) Fallback() float64 {
	return c.fallback
}

// Materials returns a copy of the catalog entries in insertion order.
func (c Catalog) Materials() []Material {
	out := make([]Material, len(c.materials))
	copy(out, c.materials)
	return out
}

// Validate reports every non-positive or non-finite rate in c, joined into one error.
func (c Catalog) Validate() error {
	var errs []error
	if !isFinite(c.fallback) || c.fallback <= 0 {
		errs = append(errs, fmt.Errorf("%w: fallback_cost_per_gram must be above 0, got %v", ErrInvalidConfig, c.fallback))
	}
	for _, m := range c.materials {
		if !isFinite(m.CostPerGram) || m.CostPerGram <= 0 {
			errs = append(errs, fmt.Errorf("%w: cost_per_gram of %s must be above 0, got %v", ErrInvalidConfig, m.Code, m.CostPerGram))
		}
	}
	return errors.Join(errs...)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
