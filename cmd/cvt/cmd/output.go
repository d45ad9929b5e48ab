package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mshelton/car-value-tracker/internal/view"
	score "github.com/mshelton/car-value-tracker/pkg/scorer"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printCarsTable(cars []domain.Listing) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tVEHICLE\tPRICE\tMILEAGE\tCONDITION\tPINNED\n")
	for i := range cars {
		c := &cars[i]
		tw.writef("%s\t%s\t$%.2f\t%d\t%s\t%v\n",
			c.ID,
			truncate(c.Label(), 40),
			c.Price,
			c.Mileage,
			c.Condition,
			c.Pinned,
		)
	}
	return tw.finish()
}

func printCarDetail(c *domain.Listing) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", c.ID)
	tw.writef("Vehicle:\t%s\n", c.Label())
	tw.writef("Price:\t$%.2f\n", c.Price)
	tw.writef("Mileage:\t%d\n", c.Mileage)
	tw.writef("Condition:\t%s\n", c.Condition)
	if c.URL != "" {
		tw.writef("URL:\t%s\n", c.URL)
	}
	tw.writef("Pinned:\t%v\n", c.Pinned)
	if !c.CreatedAt.IsZero() {
		tw.writef("Created:\t%s\n", c.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.finish()
}

func printScoreResult(r *score.Result) error {
	tw := newTabWriter(os.Stdout)
	if r.Exhausted {
		tw.writef("Score:\tN/A (lifetime mileage exhausted)\n")
	} else {
		tw.writef("Score:\t%.1f\n", r.Score)
		tw.writef("Cost/Mile:\t$%.4f\n", r.CostPerMile)
	}
	tw.writef("Rating:\t%s\n", r.Rating)
	tw.writef("Lifetime Miles:\t%d\n", r.LifetimeMiles)
	tw.writef("Remaining Miles:\t%d\n", r.RemainingMiles)
	tw.writef("Life Used:\t%d%%\n", r.LifeUsedPct)
	if r.CombinedMPG > 0 {
		tw.writef("Combined MPG:\t%d\n", r.CombinedMPG)
		tw.writef("Fuel Cost/Mile:\t$%.4f\n", r.FuelCostPerMile)
	}
	return tw.finish()
}

func printRankedTable(rows []view.Ranked) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("#\tVEHICLE\tPRICE\tMILEAGE\tCOST/MILE\tRATING\tPIN\n")
	for i := range rows {
		r := &rows[i]
		costPerMile := "N/A"
		if !r.Result.Exhausted {
			costPerMile = fmt.Sprintf("$%.4f", r.Result.CostPerMile)
		}
		pin := ""
		if r.Pinned {
			pin = "*"
		}
		tw.writef("%d\t%s\t$%.2f\t%d\t%s\t%s\t%s\n",
			r.Index,
			truncate(r.Label(), 40),
			r.Price,
			r.Mileage,
			costPerMile,
			r.Result.Rating,
			pin,
		)
	}
	return tw.finish()
}

func printListsTable(lists []domain.SavedList) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("NAME\tCARS\n")
	for i := range lists {
		tw.writef("%s\t%d\n", lists[i].Name, len(lists[i].Listings))
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
