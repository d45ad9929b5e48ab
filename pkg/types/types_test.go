package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func TestListing_Label(t *testing.T) {
	t.Parallel()

	l := Listing{Make: "Toyota", Model: "Camry", Year: 2018}
	assert.Equal(t, "2018 Toyota Camry", l.Label())
}

func TestListing_Normalize(t *testing.T) {
	t.Parallel()

	l := Listing{Make: "Honda", Model: "Civic"}
	l.Normalize()
	assert.Equal(t, ConditionGood, l.Condition)

	l2 := Listing{Condition: ConditionExcellent}
	l2.Normalize()
	assert.Equal(t, ConditionExcellent, l2.Condition)
}

func TestListingFilters_Match(t *testing.T) {
	t.Parallel()

	base := Listing{
		Make: "Toyota", Model: "Camry", Year: 2018,
		Price: 20000, Mileage: 50000, Condition: ConditionGood,
	}

	tests := []struct {
		name    string
		filters ListingFilters
		listing Listing
		cpm     float64
		mpg     int
		want    bool
	}{
		{
			name:    "no filters matches everything",
			filters: ListingFilters{},
			listing: base,
			want:    true,
		},
		{
			name:    "make substring case-insensitive",
			filters: ListingFilters{MakeContains: "toy"},
			listing: base,
			want:    true,
		},
		{
			name:    "make substring miss",
			filters: ListingFilters{MakeContains: "honda"},
			listing: base,
			want:    false,
		},
		{
			name:    "price range inclusive bounds",
			filters: ListingFilters{PriceMin: f64(20000), PriceMax: f64(20000)},
			listing: base,
			want:    true,
		},
		{
			name:    "price above max",
			filters: ListingFilters{PriceMax: f64(19999)},
			listing: base,
			want:    false,
		},
		{
			name:    "mileage below min",
			filters: ListingFilters{MileageMin: i(60000)},
			listing: base,
			want:    false,
		},
		{
			name:    "year range",
			filters: ListingFilters{YearMin: i(2015), YearMax: i(2020)},
			listing: base,
			want:    true,
		},
		{
			name:    "cost per mile under cap",
			filters: ListingFilters{CostPerMileMax: f64(0.15)},
			listing: base,
			cpm:     0.10,
			want:    true,
		},
		{
			name:    "exhausted listing never passes cost cap",
			filters: ListingFilters{CostPerMileMax: f64(1000)},
			listing: base,
			cpm:     math.Inf(1),
			want:    false,
		},
		{
			name:    "mpg min without data fails",
			filters: ListingFilters{MPGMin: i(25)},
			listing: base,
			mpg:     0,
			want:    false,
		},
		{
			name:    "condition membership",
			filters: ListingFilters{Conditions: []Condition{ConditionGood, ConditionExcellent}},
			listing: base,
			want:    true,
		},
		{
			name:    "condition membership miss",
			filters: ListingFilters{Conditions: []Condition{ConditionExcellent}},
			listing: base,
			want:    false,
		},
		{
			name:    "empty condition treated as good",
			filters: ListingFilters{Conditions: []Condition{ConditionGood}},
			listing: Listing{Make: "Kia", Model: "Soul", Year: 2020, Price: 15000},
			want:    true,
		},
		{
			name: "all predicates AND together",
			filters: ListingFilters{
				MakeContains: "toy",
				PriceMax:     f64(25000),
				YearMin:      i(2019), // fails
			},
			listing: base,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.filters.Match(&tt.listing, tt.cpm, tt.mpg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListingFilters_Active(t *testing.T) {
	t.Parallel()

	assert.False(t, (&ListingFilters{}).Active())
	assert.True(t, (&ListingFilters{MakeContains: "a"}).Active())
	assert.True(t, (&ListingFilters{PriceMax: f64(1)}).Active())
	assert.True(t, (&ListingFilters{Conditions: []Condition{ConditionFair}}).Active())
}

func TestCondition_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, ConditionFair.IsValid())
	assert.True(t, ConditionGood.IsValid())
	assert.True(t, ConditionExcellent.IsValid())
	assert.False(t, Condition("mint").IsValid())
	assert.False(t, Condition("").IsValid())
}
