// Package view derives the filtered, sorted, pin-prioritized view of a set
// of listings. The pipeline is read-only: it never mutates its input, and
// recomputation with the same inputs yields the same output.
package view

import (
	"math"
	"sort"
	"strings"

	"github.com/mshelton/car-value-tracker/pkg/fueleconomy"
	score "github.com/mshelton/car-value-tracker/pkg/scorer"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// Ranked is one row of a derived view. Index is the listing's position in
// the underlying unfiltered store; mutations must always resolve through it
// (or the listing ID), never through the row's position in the view.
type Ranked struct {
	domain.Listing
	Index  int          `json:"index"`
	Result score.Result `json:"result"`
}

// Options bundles the pipeline inputs beyond the listings themselves.
type Options struct {
	Filters    domain.ListingFilters
	Sort       domain.SortSpec
	Thresholds score.Thresholds
	FuelPrice  float64
	Data       *fueleconomy.Dataset
}

// Apply scores every listing, filters the unpinned ones, and returns the
// pin-partitioned sorted view.
//
// Pinned listings are always included and always precede unpinned listings;
// each partition is sorted independently by the same key and direction.
func Apply(listings []domain.Listing, opts Options) []Ranked {
	th := opts.Thresholds
	if !th.Valid() {
		th = score.DefaultThresholds()
	}

	var pinned, unpinned []Ranked
	for i := range listings {
		l := listings[i]
		res := score.Score(score.Input{
			Price:              l.Price,
			Mileage:            l.Mileage,
			Make:               l.Make,
			Model:              l.Model,
			Year:               l.Year,
			FuelPricePerGallon: opts.FuelPrice,
		}, opts.Data, th)

		row := Ranked{Listing: l, Index: i, Result: res}

		if l.Pinned {
			pinned = append(pinned, row)
			continue
		}
		if opts.Filters.Match(&l, res.CostPerMile, res.CombinedMPG) {
			unpinned = append(unpinned, row)
		}
	}

	sortRows(pinned, opts.Sort)
	sortRows(unpinned, opts.Sort)

	out := make([]Ranked, 0, len(pinned)+len(unpinned))
	out = append(out, pinned...)
	out = append(out, unpinned...)
	return out
}

// sortRows orders one partition in place. The sentinel (exhausted) score is
// the worst possible value in either direction: it always sinks to the end
// of the partition.
func sortRows(rows []Ranked, spec domain.SortSpec) {
	if spec.Field == "" {
		return // insertion order
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]

		switch spec.Field {
		case domain.SortByCostPerMile, domain.SortByScore:
			av, bv := a.Result.CostPerMile, b.Result.CostPerMile
			if spec.Field == domain.SortByScore {
				av, bv = a.Result.Score, b.Result.Score
			}
			// Exhausted listings sort last regardless of direction.
			if math.IsInf(av, 1) != math.IsInf(bv, 1) {
				return math.IsInf(bv, 1)
			}
			return less(av, bv, spec.Descending)
		case domain.SortByPrice:
			return less(a.Price, b.Price, spec.Descending)
		case domain.SortByMileage:
			return less(float64(a.Mileage), float64(b.Mileage), spec.Descending)
		case domain.SortByVehicle:
			al, bl := strings.ToLower(a.Label()), strings.ToLower(b.Label())
			if spec.Descending {
				return al > bl
			}
			return al < bl
		default:
			return false
		}
	})
}

func less(a, b float64, descending bool) bool {
	if descending {
		return a > b
	}
	return a < b
}
