package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/mshelton/car-value-tracker/internal/api/client"
	"github.com/mshelton/car-value-tracker/pkg/fueleconomy"
	score "github.com/mshelton/car-value-tracker/pkg/scorer"
)

func scoreCmd() *cobra.Command {
	var (
		carMake   string
		carModel  string
		carYear   int
		carPrice  float64
		carMiles  int
		fuelPrice float64
		remote    bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a car by cost per remaining mile",
		Long: "Score a car by price per estimated remaining lifetime mile. Scoring\n" +
			"runs locally against the embedded fuel economy dataset; pass --remote\n" +
			"to use the API server instead.",
		Example: `  cvt score --make Toyota --model Camry --year 2018 --price 20000 --mileage 50000
  cvt score --make Honda --price 15000 --mileage 80000 --fuel-price 3.50`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if carMake == "" {
				return fmt.Errorf("--make is required")
			}
			if carPrice <= 0 {
				return fmt.Errorf("--price must be positive")
			}
			if carMiles < 0 {
				return fmt.Errorf("--mileage must not be negative")
			}

			var result score.Result
			if remote {
				c := newClient()
				res, err := c.Score(context.Background(), &apiclient.ScoreRequest{
					Make:               carMake,
					Model:              carModel,
					Year:               carYear,
					Price:              carPrice,
					Mileage:            carMiles,
					FuelPricePerGallon: fuelPrice,
				})
				if err != nil {
					return err
				}
				result = *res
			} else {
				result = score.Score(score.Input{
					Price:              carPrice,
					Mileage:            carMiles,
					Make:               carMake,
					Model:              carModel,
					Year:               carYear,
					FuelPricePerGallon: fuelPrice,
				}, fueleconomy.Default(), score.DefaultThresholds())
			}

			if jsonOutput() {
				return outputJSON(result)
			}
			return printScoreResult(&result)
		},
	}

	cmd.Flags().StringVar(&carMake, "make", "", "vehicle make (required)")
	cmd.Flags().StringVar(&carModel, "model", "", "vehicle model")
	cmd.Flags().IntVar(&carYear, "year", 0, "model year")
	cmd.Flags().Float64Var(&carPrice, "price", 0, "asking price in dollars (required)")
	cmd.Flags().IntVar(&carMiles, "mileage", 0, "odometer mileage")
	cmd.Flags().Float64Var(&fuelPrice, "fuel-price", 0, "fuel price per gallon for the fuel adjustment")
	cmd.Flags().BoolVar(&remote, "remote", false, "score via the API server instead of locally")

	return cmd
}
