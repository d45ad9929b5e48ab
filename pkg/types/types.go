// Package domain defines the core business types for car-value-tracker.
package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Condition represents the reported condition of a vehicle listing.
type Condition string

// Condition constants.
const (
	ConditionFair      Condition = "fair"
	ConditionGood      Condition = "good"
	ConditionExcellent Condition = "excellent"
)

// ValidConditions lists every accepted condition value.
var ValidConditions = []Condition{ConditionFair, ConditionGood, ConditionExcellent}

// IsValid reports whether c is a known condition value.
func (c Condition) IsValid() bool {
	return slices.Contains(ValidConditions, c)
}

// Rating is the discrete value-rating label derived from a listing's score.
type Rating string

// Rating constants, ordered best to worst.
const (
	RatingExcellent    Rating = "Excellent"
	RatingVeryGood     Rating = "Very Good"
	RatingGood         Rating = "Good"
	RatingFair         Rating = "Fair"
	RatingBelowAverage Rating = "Below Average"
	RatingPoor         Rating = "Poor"
)

// Listing represents one user-entered vehicle record.
type Listing struct {
	ID        string    `json:"id,omitempty"         db:"id"`
	Make      string    `json:"make"                 db:"make"`
	Model     string    `json:"model"                db:"model"`
	Year      int       `json:"year"                 db:"year"`
	Price     float64   `json:"price"                db:"price"`
	Mileage   int       `json:"mileage"              db:"mileage"`
	Condition Condition `json:"condition,omitempty"  db:"condition"`
	URL       string    `json:"url,omitempty"        db:"url"`
	Pinned    bool      `json:"pinned"               db:"pinned"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Label returns the display label "{year} {make} {model}".
func (l *Listing) Label() string {
	return fmt.Sprintf("%d %s %s", l.Year, l.Make, l.Model)
}

// Normalize fills defaults for optional fields. Records written before the
// condition field existed carry an empty value, which means "good".
func (l *Listing) Normalize() {
	if l.Condition == "" {
		l.Condition = ConditionGood
	}
}

// SavedList is a named snapshot of a set of listings.
type SavedList struct {
	Name     string    `json:"name"`
	Listings []Listing `json:"listings"`
}

// ListingFilters defines the predicates applied to unpinned listings.
// Nil pointer fields mean "not active". All active predicates AND together.
// Pinned listings bypass filtering entirely; that exemption belongs to the
// view pipeline, not to Match.
type ListingFilters struct {
	MakeContains  string `json:"make_contains,omitempty"`
	ModelContains string `json:"model_contains,omitempty"`

	PriceMin   *float64 `json:"price_min,omitempty"`
	PriceMax   *float64 `json:"price_max,omitempty"`
	MileageMin *int     `json:"mileage_min,omitempty"`
	MileageMax *int     `json:"mileage_max,omitempty"`
	YearMin    *int     `json:"year_min,omitempty"`
	YearMax    *int     `json:"year_max,omitempty"`

	// CostPerMileMax filters on price per remaining lifetime mile.
	// Listings with no remaining life never satisfy it.
	CostPerMileMax *float64 `json:"cost_per_mile_max,omitempty"`

	// MPGMin filters on combined MPG; listings without fuel-economy data
	// never satisfy it.
	MPGMin *int `json:"mpg_min,omitempty"`

	Conditions []Condition `json:"conditions,omitempty"`
}

// Active reports whether any predicate is set.
func (f *ListingFilters) Active() bool {
	return f.MakeContains != "" || f.ModelContains != "" ||
		f.PriceMin != nil || f.PriceMax != nil ||
		f.MileageMin != nil || f.MileageMax != nil ||
		f.YearMin != nil || f.YearMax != nil ||
		f.CostPerMileMax != nil || f.MPGMin != nil ||
		len(f.Conditions) > 0
}

// Match checks whether a listing satisfies every active predicate.
// costPerMile carries the scored price-per-remaining-mile (exhausted
// listings pass +Inf); mpg carries the combined MPG, 0 when unknown.
func (f *ListingFilters) Match(l *Listing, costPerMile float64, mpg int) bool {
	if !f.matchText(l) {
		return false
	}
	if !f.matchRanges(l) {
		return false
	}
	if f.CostPerMileMax != nil && costPerMile > *f.CostPerMileMax {
		return false
	}
	if f.MPGMin != nil && mpg < *f.MPGMin {
		return false
	}
	return f.matchCondition(l)
}

func (f *ListingFilters) matchText(l *Listing) bool {
	if f.MakeContains != "" &&
		!strings.Contains(strings.ToLower(l.Make), strings.ToLower(f.MakeContains)) {
		return false
	}
	if f.ModelContains != "" &&
		!strings.Contains(strings.ToLower(l.Model), strings.ToLower(f.ModelContains)) {
		return false
	}
	return true
}

func (f *ListingFilters) matchRanges(l *Listing) bool {
	if f.PriceMin != nil && l.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && l.Price > *f.PriceMax {
		return false
	}
	if f.MileageMin != nil && l.Mileage < *f.MileageMin {
		return false
	}
	if f.MileageMax != nil && l.Mileage > *f.MileageMax {
		return false
	}
	if f.YearMin != nil && l.Year < *f.YearMin {
		return false
	}
	if f.YearMax != nil && l.Year > *f.YearMax {
		return false
	}
	return true
}

func (f *ListingFilters) matchCondition(l *Listing) bool {
	if len(f.Conditions) == 0 {
		return true
	}
	cond := l.Condition
	if cond == "" {
		cond = ConditionGood
	}
	return slices.Contains(f.Conditions, cond)
}

// SortField selects the key used to order a derived view.
type SortField string

// Sort field constants.
const (
	SortByVehicle     SortField = "vehicle"
	SortByPrice       SortField = "price"
	SortByMileage     SortField = "mileage"
	SortByCostPerMile SortField = "cost_per_mile"
	SortByScore       SortField = "score"
)

// ValidSortFields lists every accepted sort field.
var ValidSortFields = []SortField{
	SortByVehicle, SortByPrice, SortByMileage, SortByCostPerMile, SortByScore,
}

// SortSpec pairs a sort field with a direction.
type SortSpec struct {
	Field      SortField `json:"field"`
	Descending bool      `json:"descending"`
}
