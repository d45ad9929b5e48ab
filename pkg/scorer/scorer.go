// Package score computes the value score and rating for a vehicle listing.
// The score is price per estimated remaining lifetime mile, optionally
// adjusted for fuel cost; lower is better.
package score

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/mshelton/car-value-tracker/pkg/fueleconomy"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// DefaultLifetimeMiles is the assumed total lifetime for unknown makes.
const DefaultLifetimeMiles = 200000

// Sentinel is the score assigned to listings with no remaining lifetime
// miles. It sorts after every finite score.
var Sentinel = math.Inf(1)

// lifetimeMilesByMake maps normalized make names to expected total lifetime
// mileage.
var lifetimeMilesByMake = map[string]int{
	"toyota":     250000,
	"honda":      240000,
	"ford":       200000,
	"chevrolet":  200000,
	"bmw":        180000,
	"mercedes":   180000,
	"audi":       180000,
	"volkswagen": 200000,
	"lexus":      250000,
	"subaru":     220000,
	"hyundai":    200000,
	"kia":        200000,
	"nissan":     210000,
	"mazda":      210000,
	"jeep":       200000,
	"dodge":      180000,
	"chrysler":   180000,
}

// LifetimeMiles returns the expected lifetime mileage for a make.
// Lookup is case-insensitive and trimmed; unknown makes get the default.
func LifetimeMiles(make string) int {
	if miles, ok := lifetimeMilesByMake[strings.ToLower(strings.TrimSpace(make))]; ok {
		return miles
	}
	return DefaultLifetimeMiles
}

// Thresholds are the ascending score boundaries between rating bands.
// A score below Excellent rates Excellent, below VeryGood rates Very Good,
// and so on; anything at or above BelowAverage rates Poor. The six bands
// partition [0, +Inf) with no gaps.
type Thresholds struct {
	Excellent    float64 `yaml:"excellent"     json:"excellent"`
	VeryGood     float64 `yaml:"very_good"     json:"very_good"`
	Good         float64 `yaml:"good"          json:"good"`
	Fair         float64 `yaml:"fair"          json:"fair"`
	BelowAverage float64 `yaml:"below_average" json:"below_average"`
}

// DefaultThresholds returns the standard rating boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Excellent:    0.10,
		VeryGood:     0.20,
		Good:         0.30,
		Fair:         0.50,
		BelowAverage: 0.80,
	}
}

// Valid reports whether the thresholds are strictly ascending and positive.
func (t Thresholds) Valid() bool {
	return t.Excellent > 0 &&
		t.VeryGood > t.Excellent &&
		t.Good > t.VeryGood &&
		t.Fair > t.Good &&
		t.BelowAverage > t.Fair
}

// Rating maps a score to its band.
func (t Thresholds) Rating(score float64) domain.Rating {
	switch {
	case score < t.Excellent:
		return domain.RatingExcellent
	case score < t.VeryGood:
		return domain.RatingVeryGood
	case score < t.Good:
		return domain.RatingGood
	case score < t.Fair:
		return domain.RatingFair
	case score < t.BelowAverage:
		return domain.RatingBelowAverage
	default:
		return domain.RatingPoor
	}
}

// Input holds the listing fields needed for scoring, decoupled from the
// storage model. Model, Year, and FuelPricePerGallon are optional; zero
// values disable the per-model override and the fuel adjustment.
type Input struct {
	Price              float64
	Mileage            int
	Make               string
	Model              string
	Year               int
	FuelPricePerGallon float64
}

// Result carries the score plus the intermediate figures the UI displays.
type Result struct {
	Score           float64       `json:"score"`
	Rating          domain.Rating `json:"rating"`
	CostPerMile     float64       `json:"cost_per_mile"`
	FuelCostPerMile float64       `json:"fuel_cost_per_mile,omitempty"`
	LifetimeMiles   int           `json:"lifetime_miles"`
	RemainingMiles  int           `json:"remaining_miles"`
	LifeUsedPct     int           `json:"life_used_pct"`
	CombinedMPG     int           `json:"combined_mpg,omitempty"`

	// Exhausted marks listings at or past their lifetime mileage.
	// Score is the sentinel and CostPerMile must render as "N/A".
	Exhausted bool `json:"exhausted"`
}

// resultJSON is the wire form of Result. Score and CostPerMile go over
// the wire as nullable numbers because JSON cannot carry the +Inf
// sentinel exhausted listings use.
type resultJSON struct {
	Score           *float64      `json:"score"`
	Rating          domain.Rating `json:"rating"`
	CostPerMile     *float64      `json:"cost_per_mile"`
	FuelCostPerMile float64       `json:"fuel_cost_per_mile,omitempty"`
	LifetimeMiles   int           `json:"lifetime_miles"`
	RemainingMiles  int           `json:"remaining_miles"`
	LifeUsedPct     int           `json:"life_used_pct"`
	CombinedMPG     int           `json:"combined_mpg,omitempty"`
	Exhausted       bool          `json:"exhausted"`
}

// MarshalJSON renders exhausted scores as null instead of +Inf.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Rating:          r.Rating,
		FuelCostPerMile: r.FuelCostPerMile,
		LifetimeMiles:   r.LifetimeMiles,
		RemainingMiles:  r.RemainingMiles,
		LifeUsedPct:     r.LifeUsedPct,
		CombinedMPG:     r.CombinedMPG,
		Exhausted:       r.Exhausted,
	}
	if !r.Exhausted {
		out.Score = &r.Score
		out.CostPerMile = &r.CostPerMile
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the sentinel for exhausted results.
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*r = Result{
		Rating:          in.Rating,
		FuelCostPerMile: in.FuelCostPerMile,
		LifetimeMiles:   in.LifetimeMiles,
		RemainingMiles:  in.RemainingMiles,
		LifeUsedPct:     in.LifeUsedPct,
		CombinedMPG:     in.CombinedMPG,
		Exhausted:       in.Exhausted,
	}
	r.Score = Sentinel
	r.CostPerMile = Sentinel
	if in.Score != nil {
		r.Score = *in.Score
	}
	if in.CostPerMile != nil {
		r.CostPerMile = *in.CostPerMile
	}
	return nil
}

// Score computes the value score for a listing. It is a total function:
// unknown makes fall back to the default lifetime, a nil dataset disables
// per-model data, negative price clamps to zero, and exhausted listings
// get the sentinel instead of a division by zero.
func Score(in Input, ds *fueleconomy.Dataset, t Thresholds) Result {
	price := math.Max(0, in.Price)

	var model *fueleconomy.Model
	if ds != nil && in.Model != "" && in.Year != 0 {
		model = ds.Lookup(in.Year, in.Make, in.Model)
	}

	lifetime := LifetimeMiles(in.Make)
	if model != nil && model.EstimatedLifetimeMiles > 0 {
		lifetime = model.EstimatedLifetimeMiles
	}

	res := Result{LifetimeMiles: lifetime}
	if model != nil {
		res.CombinedMPG = model.CombinedMPG()
	}

	mileage := max(0, in.Mileage)
	res.RemainingMiles = max(0, lifetime-mileage)
	res.LifeUsedPct = min(100, int(math.Round(float64(mileage)/float64(lifetime)*100)))

	if res.RemainingMiles == 0 {
		res.Score = Sentinel
		res.CostPerMile = Sentinel
		res.Rating = domain.RatingPoor
		res.Exhausted = true
		return res
	}

	res.CostPerMile = price / float64(res.RemainingMiles)
	res.Score = res.CostPerMile

	if in.FuelPricePerGallon > 0 && res.CombinedMPG > 0 {
		res.FuelCostPerMile = in.FuelPricePerGallon / float64(res.CombinedMPG)
		res.Score += res.FuelCostPerMile
	}

	res.Rating = t.Rating(res.Score)
	return res
}
