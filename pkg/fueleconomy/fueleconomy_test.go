package fueleconomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Lookup(t *testing.T) {
	t.Parallel()

	ds := Default()

	rec := ds.Lookup(2018, "Toyota", "Camry")
	require.NotNil(t, rec)
	assert.Equal(t, "Midsize Cars", rec.Type)
	assert.Equal(t, 32, rec.CombinedMPG())
	assert.Equal(t, 250000, rec.EstimatedLifetimeMiles)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	t.Parallel()

	ds := Default()

	assert.NotNil(t, ds.Lookup(2018, "TOYOTA", "camry"))
	assert.NotNil(t, ds.Lookup(2018, " toyota ", "Camry"))
	assert.NotNil(t, ds.Lookup(2019, "mazda", "CX-5"))
}

func TestLookup_Absent(t *testing.T) {
	t.Parallel()

	ds := Default()

	assert.Nil(t, ds.Lookup(1995, "Toyota", "Camry"), "unknown year")
	assert.Nil(t, ds.Lookup(2018, "DeLorean", "DMC-12"), "unknown make")
	assert.Nil(t, ds.Lookup(2018, "Toyota", "Celica"), "unknown model")
}

func TestYears(t *testing.T) {
	t.Parallel()

	years := Default().Years()
	require.NotEmpty(t, years)
	assert.IsIncreasing(t, years)
	assert.Contains(t, years, 2018)
	assert.Contains(t, years, 2021)
}

func TestMakesAndModels(t *testing.T) {
	t.Parallel()

	ds := Default()

	makes := ds.Makes(2018)
	assert.Contains(t, makes, "toyota")
	assert.Contains(t, makes, "honda")
	assert.IsNonDecreasing(t, makes)

	models := ds.Models(2018, "Toyota")
	assert.Contains(t, models, "camry")
	assert.Contains(t, models, "rav4")

	assert.Empty(t, ds.Makes(1990))
	assert.Empty(t, ds.Models(2018, "DeLorean"))
}

func TestModel_CombinedMPG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		combined string
		want     int
	}{
		{"plain number", "32", 32},
		{"padded", " 28 ", 28},
		{"empty", "", 0},
		{"garbage", "n/a", 0},
		{"negative", "-5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := Model{MPG: MPG{Combined: tt.combined}}
			assert.Equal(t, tt.want, m.CombinedMPG())
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	payload := `{"2022": {"Rivian": {"R1T": {"type": "Standard Pickup Trucks", "mpg": {"city": "74", "highway": "66", "combined": "70"}, "estimatedLifetimeMiles": 300000}}}}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	ds, err := LoadFile(path)
	require.NoError(t, err)

	rec := ds.Lookup(2022, "rivian", "r1t")
	require.NotNil(t, rec)
	assert.Equal(t, 300000, rec.EstimatedLifetimeMiles)
	assert.Equal(t, 70, rec.CombinedMPG())
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}
