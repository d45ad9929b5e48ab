package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

func TestEncodeOmitsBookkeepingFields(t *testing.T) {
	t.Parallel()

	lists := []domain.SavedList{
		{
			Name: "weekend shortlist",
			Listings: []domain.Listing{
				{
					ID:        "2b1c0a9f-0000-0000-0000-000000000001",
					Make:      "Toyota",
					Model:     "Camry",
					Year:      2018,
					Price:     21000,
					Mileage:   43000,
					Condition: domain.ConditionGood,
					Pinned:    true,
				},
			},
		},
	}

	data, err := Encode(lists)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)

	listings, ok := raw[0]["listings"].([]any)
	require.True(t, ok)
	require.Len(t, listings, 1)

	entry := listings[0].(map[string]any)
	assert.NotContains(t, entry, "id")
	assert.NotContains(t, entry, "created_at")
	assert.NotContains(t, entry, "updated_at")
	assert.Equal(t, "Toyota", entry["make"])
	assert.Equal(t, true, entry["pinned"])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	lists := []domain.SavedList{
		{
			Name: "sedans",
			Listings: []domain.Listing{
				{Make: "Honda", Model: "Accord", Year: 2019, Price: 18500, Mileage: 52000, Condition: domain.ConditionExcellent},
				{Make: "Mazda", Model: "6", Year: 2017, Price: 14000, Mileage: 78000, Condition: domain.ConditionGood, URL: "https://example.com/1"},
			},
		},
		{Name: "empty list", Listings: []domain.Listing{}},
	}

	data, err := Encode(lists)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "sedans", got[0].Name)
	require.Len(t, got[0].Listings, 2)
	assert.Equal(t, "Accord", got[0].Listings[0].Model)
	assert.Equal(t, "https://example.com/1", got[0].Listings[1].URL)
	assert.Empty(t, got[1].Listings)
}

func TestDecodeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{
			name:    "not json",
			payload: `{{`,
			wantErr: "parsing import payload",
		},
		{
			name:    "top level object",
			payload: `{"name":"x"}`,
			wantErr: "parsing import payload",
		},
		{
			name:    "empty name",
			payload: `[{"name":"","listings":[]}]`,
			wantErr: "list 0: name must not be empty",
		},
		{
			name:    "missing listings array",
			payload: `[{"name":"deals"}]`,
			wantErr: `list "deals": missing listings array`,
		},
		{
			name:    "missing make",
			payload: `[{"name":"deals","listings":[{"model":"Camry","year":2018,"price":1,"mileage":1}]}]`,
			wantErr: `list "deals", listing 0: make must not be empty`,
		},
		{
			name:    "missing model",
			payload: `[{"name":"deals","listings":[{"make":"Toyota","year":2018,"price":1,"mileage":1}]}]`,
			wantErr: "model must not be empty",
		},
		{
			name:    "missing year",
			payload: `[{"name":"deals","listings":[{"make":"Toyota","model":"Camry","price":1,"mileage":1}]}]`,
			wantErr: `list "deals", listing 0: missing year`,
		},
		{
			name:    "missing price",
			payload: `[{"name":"deals","listings":[{"make":"Toyota","model":"Camry","year":2018,"mileage":1}]}]`,
			wantErr: "missing price",
		},
		{
			name:    "missing mileage",
			payload: `[{"name":"deals","listings":[{"make":"Toyota","model":"Camry","year":2018,"price":1}]}]`,
			wantErr: "missing mileage",
		},
		{
			name:    "only make and model",
			payload: `[{"name":"deals","listings":[{"make":"Toyota","model":"Camry"}]}]`,
			wantErr: "missing year",
		},
		{
			name:    "negative price",
			payload: `[{"name":"deals","listings":[{"make":"Toyota","model":"Camry","year":2018,"price":-5,"mileage":1}]}]`,
			wantErr: "price must not be negative",
		},
		{
			name:    "negative mileage",
			payload: `[{"name":"deals","listings":[{"make":"Toyota","model":"Camry","year":2018,"price":5,"mileage":-1}]}]`,
			wantErr: "mileage must not be negative",
		},
		{
			name:    "string price",
			payload: `[{"name":"deals","listings":[{"make":"Toyota","model":"Camry","year":2018,"price":"cheap","mileage":1}]}]`,
			wantErr: "parsing import payload",
		},
		{
			name:    "unknown condition",
			payload: `[{"name":"deals","listings":[{"make":"Toyota","model":"Camry","year":2018,"price":5,"mileage":1,"condition":"mint"}]}]`,
			wantErr: `unknown condition "mint"`,
		},
		{
			name:    "bad entry in second list aborts whole import",
			payload: `[{"name":"ok","listings":[{"make":"Toyota","model":"Camry","year":2018,"price":5,"mileage":1}]},{"name":"bad","listings":[{"make":"","model":"x","year":1,"price":1,"mileage":1}]}]`,
			wantErr: `list "bad", listing 0`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode([]byte(tt.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestDecodeNormalizesCondition(t *testing.T) {
	t.Parallel()

	got, err := Decode([]byte(`[{"name":"deals","listings":[{"make":"Toyota","model":"Camry","year":2018,"price":5,"mileage":1}]}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Listings, 1)
	assert.Equal(t, domain.ConditionGood, got[0].Listings[0].Condition)
}

func TestUniqueName(t *testing.T) {
	t.Parallel()

	taken := map[string]bool{
		"deals":     true,
		"deals (1)": true,
		"deals (2)": true,
	}
	exists := func(name string) bool { return taken[name] }

	assert.Equal(t, "fresh", UniqueName("fresh", exists))
	assert.Equal(t, "deals (3)", UniqueName("deals", exists))
	assert.Equal(t, "deals (1) (1)", UniqueName("deals (1)", exists))
}
