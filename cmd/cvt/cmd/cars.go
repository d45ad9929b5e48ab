package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/mshelton/car-value-tracker/internal/api/client"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

func carsCmd() *cobra.Command {
	carsRoot := &cobra.Command{
		Use:   "cars",
		Short: "Manage cars on the API server",
		Long: "Manage the shared car collection on the API server: list with filters,\n" +
			"add, update, delete, and pin records.",
	}

	carsRoot.AddCommand(
		carsListCmd(),
		carsGetCmd(),
		carsAddCmd(),
		carsUpdateCmd(),
		carsDeleteCmd(),
		carsPinCmd(),
	)

	return carsRoot
}

func carsListCmd() *cobra.Command {
	var params apiclient.ListCarsParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cars",
		Example: `  cvt cars list
  cvt cars list --make toyota --price-max 25000
  cvt cars list --pinned true --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			resp, err := c.ListCars(context.Background(), &params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if len(resp.Cars) == 0 {
				fmt.Println("No cars found.")
				return nil
			}
			if err := printCarsTable(resp.Cars); err != nil {
				return err
			}
			fmt.Printf("\nShowing %d of %d\n", len(resp.Cars), resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Make, "make", "", "filter by make substring")
	cmd.Flags().StringVar(&params.Model, "model", "", "filter by model substring")
	cmd.Flags().Float64Var(&params.PriceMin, "price-min", 0, "minimum price")
	cmd.Flags().Float64Var(&params.PriceMax, "price-max", 0, "maximum price")
	cmd.Flags().IntVar(&params.MileageMin, "mileage-min", 0, "minimum mileage")
	cmd.Flags().IntVar(&params.MileageMax, "mileage-max", 0, "maximum mileage")
	cmd.Flags().IntVar(&params.YearMin, "year-min", 0, "minimum model year")
	cmd.Flags().IntVar(&params.YearMax, "year-max", 0, "maximum model year")
	cmd.Flags().StringVar(&params.Condition, "condition", "", "filter by condition (fair, good, excellent)")
	cmd.Flags().StringVar(&params.Pinned, "pinned", "", "filter by pinned state (true or false)")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "maximum rows to return")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "rows to skip")
	cmd.Flags().StringVar(&params.OrderBy, "order-by", "", "sort order (price, mileage, year, created_at)")

	return cmd
}

func carsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show car details",
		Example: `  cvt cars get 3f8a...
  cvt cars get 3f8a... --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			car, err := c.GetCar(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(car)
			}
			return printCarDetail(car)
		},
	}
}

func carsAddCmd() *cobra.Command {
	var listing domain.Listing
	var condition string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a car",
		Example: `  cvt cars add --make Toyota --model Camry --year 2018 --price 20000 --mileage 50000
  cvt cars add --make Honda --model Civic --year 2020 --price 18500 --mileage 32000 \
    --condition excellent --url https://example.com/listing/42`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listing.Make == "" || listing.Model == "" {
				return fmt.Errorf("--make and --model are required")
			}
			listing.Condition = domain.Condition(condition)
			c := newClient()
			created, err := c.CreateCar(context.Background(), &listing)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Println("Added", created.Label(), "id:", created.ID)
			return nil
		},
	}

	addListingFlags(cmd, &listing, &condition)

	return cmd
}

func carsUpdateCmd() *cobra.Command {
	var listing domain.Listing
	var condition string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a car",
		Long: "Update a car record. The full record is replaced, so pass every field\n" +
			"the car should keep.",
		Example: `  cvt cars update 3f8a... --make Toyota --model Camry --year 2018 --price 19500 --mileage 51000`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if listing.Make == "" || listing.Model == "" {
				return fmt.Errorf("--make and --model are required")
			}
			listing.Condition = domain.Condition(condition)
			c := newClient()
			updated, err := c.UpdateCar(context.Background(), args[0], &listing)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(updated)
			}
			return printCarDetail(updated)
		},
	}

	addListingFlags(cmd, &listing, &condition)

	return cmd
}

func carsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id> [id...]",
		Short: "Delete one or more cars",
		Example: `  cvt cars delete 3f8a...
  cvt cars delete 3f8a... 9c01...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if len(args) == 1 {
				if err := c.DeleteCar(context.Background(), args[0]); err != nil {
					return err
				}
				fmt.Println("Deleted", args[0])
				return nil
			}
			deleted, err := c.DeleteCars(context.Background(), args)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d of %d\n", deleted, len(args))
			return nil
		},
	}
}

func carsPinCmd() *cobra.Command {
	var unpin bool

	cmd := &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin a car",
		Long: "Pin a car so it stays at the top of every view and bypasses filters.\n" +
			"Pass --unpin to clear the pin.",
		Example: `  cvt cars pin 3f8a...
  cvt cars pin 3f8a... --unpin`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			car, err := c.PinCar(context.Background(), args[0], !unpin)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(car)
			}
			state := "Pinned"
			if unpin {
				state = "Unpinned"
			}
			fmt.Println(state, car.Label())
			return nil
		},
	}

	cmd.Flags().BoolVar(&unpin, "unpin", false, "clear the pin instead of setting it")

	return cmd
}

func addListingFlags(cmd *cobra.Command, l *domain.Listing, condition *string) {
	cmd.Flags().StringVar(&l.Make, "make", "", "vehicle make (required)")
	cmd.Flags().StringVar(&l.Model, "model", "", "vehicle model (required)")
	cmd.Flags().IntVar(&l.Year, "year", 0, "model year")
	cmd.Flags().Float64Var(&l.Price, "price", 0, "asking price in dollars")
	cmd.Flags().IntVar(&l.Mileage, "mileage", 0, "odometer mileage")
	cmd.Flags().StringVar(condition, "condition", "good", "condition (fair, good, excellent)")
	cmd.Flags().StringVar(&l.URL, "url", "", "listing URL")
}
