// Package fueleconomy provides a read-only lookup of EPA-style fuel-economy
// data keyed by year, make, and model. A small default dataset ships embedded;
// deployments with the full EPA extract point LoadFile at it instead.
package fueleconomy

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	_ "embed"
)

//go:embed vehicle-data.json
var embeddedData []byte

// MPG holds string-encoded fuel-economy figures as they appear in the source
// dataset. Values are decimal strings; parse failures read as 0.
type MPG struct {
	City     string `json:"city"`
	Highway  string `json:"highway"`
	Combined string `json:"combined"`
}

// Model is the per-model record: vehicle type, fuel economy, and an optional
// lifetime-mileage override that takes precedence over make-level estimates.
type Model struct {
	Type                   string `json:"type"`
	MPG                    MPG    `json:"mpg"`
	EstimatedLifetimeMiles int    `json:"estimatedLifetimeMiles,omitempty"`
}

// CombinedMPG returns the combined MPG as an integer, 0 when missing or
// unparseable.
func (m *Model) CombinedMPG() int {
	n, err := strconv.Atoi(strings.TrimSpace(m.MPG.Combined))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Dataset is the nested year -> make -> model table.
type Dataset struct {
	years map[string]map[string]map[string]Model
}

// Default returns the embedded dataset. The embedded data is validated at
// package init; a corrupt embed is a build defect, hence the panic.
func Default() *Dataset {
	return defaultDataset
}

var defaultDataset *Dataset

func init() {
	ds, err := parse(embeddedData)
	if err != nil {
		panic(fmt.Sprintf("fueleconomy: embedded dataset invalid: %v", err))
	}
	defaultDataset = ds
}

// LoadFile reads a dataset from a JSON file in the same nested shape.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // dataset path from trusted config
	if err != nil {
		return nil, fmt.Errorf("reading fuel-economy data: %w", err)
	}
	ds, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing fuel-economy data: %w", err)
	}
	return ds, nil
}

func parse(data []byte) (*Dataset, error) {
	var raw map[string]map[string]map[string]Model
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	// Normalize make and model keys for case-insensitive lookup.
	years := make(map[string]map[string]map[string]Model, len(raw))
	for year, makes := range raw {
		normMakes := make(map[string]map[string]Model, len(makes))
		for mk, models := range makes {
			normModels := make(map[string]Model, len(models))
			for md, rec := range models {
				normModels[normalize(md)] = rec
			}
			normMakes[normalize(mk)] = normModels
		}
		years[year] = normMakes
	}

	return &Dataset{years: years}, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Lookup returns the record for (year, make, model), or nil when absent.
// Make and model comparisons are case-insensitive.
func (d *Dataset) Lookup(year int, make, model string) *Model {
	makes, ok := d.years[strconv.Itoa(year)]
	if !ok {
		return nil
	}
	models, ok := makes[normalize(make)]
	if !ok {
		return nil
	}
	rec, ok := models[normalize(model)]
	if !ok {
		return nil
	}
	return &rec
}

// Years returns every year with at least one make, ascending.
func (d *Dataset) Years() []int {
	var years []int
	for y, makes := range d.years {
		if len(makes) == 0 {
			continue
		}
		n, err := strconv.Atoi(y)
		if err != nil {
			continue
		}
		years = append(years, n)
	}
	sort.Ints(years)
	return years
}

// Makes returns the normalized make names available for a year, sorted.
func (d *Dataset) Makes(year int) []string {
	makes := d.years[strconv.Itoa(year)]
	names := make([]string, 0, len(makes))
	for mk := range makes {
		names = append(names, mk)
	}
	sort.Strings(names)
	return names
}

// Models returns the normalized model names for (year, make), sorted.
func (d *Dataset) Models(year int, makeName string) []string {
	makes, ok := d.years[strconv.Itoa(year)]
	if !ok {
		return nil
	}
	models := makes[normalize(makeName)]
	names := make([]string, 0, len(models))
	for md := range models {
		names = append(names, md)
	}
	sort.Strings(names)
	return names
}
