package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mshelton/car-value-tracker/internal/view"
	"github.com/mshelton/car-value-tracker/pkg/fueleconomy"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

func localCmd() *cobra.Command {
	localRoot := &cobra.Command{
		Use:   "local",
		Short: "Work with the local workspace",
		Long: "Work with the local SQLite-backed workspace: a personal set of candidate\n" +
			"cars plus named saved lists, no server required. Mutating commands\n" +
			"address cars by their index in the unfiltered workspace, shown in the\n" +
			"first column of `cvt local list`.",
	}

	localRoot.AddCommand(
		localAddCmd(),
		localListCmd(),
		localUpdateCmd(),
		localDeleteCmd(),
		localPinCmd(),
		localClearCmd(),
		localSaveCmd(),
		localLoadCmd(),
		localListsCmd(),
		localDeleteListCmd(),
		localExportCmd(),
		localImportCmd(),
	)

	return localRoot
}

func localAddCmd() *cobra.Command {
	var listing domain.Listing
	var condition string

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a car to the workspace",
		Example: `  cvt local add --make Toyota --model Camry --year 2018 --price 20000 --mileage 50000`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listing.Make == "" || listing.Model == "" {
				return fmt.Errorf("--make and --model are required")
			}
			listing.Condition = domain.Condition(condition)

			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			added, err := ws.Add(ctx, listing)
			if err != nil {
				return err
			}
			fmt.Println("Added", added.Label(), "at index", len(ws.Listings())-1)
			return nil
		},
	}

	addListingFlags(cmd, &listing, &condition)

	return cmd
}

func localListCmd() *cobra.Command {
	var (
		filters    domain.ListingFilters
		conditions []string
		sortField  string
		descending bool
		fuelPrice  float64

		priceMin, priceMax, cpmMax               float64
		mileageMin, mileageMax, yearMin, yearMax int
		mpgMin                                   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the scored workspace view",
		Long: "Score every car in the workspace and show the filtered, sorted view.\n" +
			"Pinned cars bypass filters and always appear first. The index column\n" +
			"is the car's position in the unfiltered workspace; use it with the\n" +
			"update, delete, and pin commands.",
		Example: `  cvt local list
  cvt local list --make toyota --price-max 25000 --sort cost_per_mile
  cvt local list --mpg-min 30 --sort price --desc`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sortField != "" {
				sf := domain.SortField(sortField)
				var ok bool
				for _, v := range domain.ValidSortFields {
					if sf == v {
						ok = true
					}
				}
				if !ok {
					return fmt.Errorf("unknown sort field %q", sortField)
				}
			}

			set := cmd.Flags().Changed
			if set("price-min") {
				filters.PriceMin = &priceMin
			}
			if set("price-max") {
				filters.PriceMax = &priceMax
			}
			if set("mileage-min") {
				filters.MileageMin = &mileageMin
			}
			if set("mileage-max") {
				filters.MileageMax = &mileageMax
			}
			if set("year-min") {
				filters.YearMin = &yearMin
			}
			if set("year-max") {
				filters.YearMax = &yearMax
			}
			if set("cost-per-mile-max") {
				filters.CostPerMileMax = &cpmMax
			}
			if set("mpg-min") {
				filters.MPGMin = &mpgMin
			}
			for _, c := range conditions {
				cond := domain.Condition(c)
				if !cond.IsValid() {
					return fmt.Errorf("unknown condition %q", c)
				}
				filters.Conditions = append(filters.Conditions, cond)
			}

			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			rows := view.Apply(ws.Listings(), view.Options{
				Filters:   filters,
				Sort:      domain.SortSpec{Field: domain.SortField(sortField), Descending: descending},
				FuelPrice: fuelPrice,
				Data:      fueleconomy.Default(),
			})

			if jsonOutput() {
				return outputJSON(rows)
			}
			if len(rows) == 0 {
				fmt.Println("No cars match.")
				return nil
			}
			if err := printRankedTable(rows); err != nil {
				return err
			}
			if active := ws.ActiveList(); active != "" {
				fmt.Println("\nActive list:", active)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filters.MakeContains, "make", "", "filter by make substring")
	cmd.Flags().StringVar(&filters.ModelContains, "model", "", "filter by model substring")
	cmd.Flags().Float64Var(&priceMin, "price-min", 0, "minimum price")
	cmd.Flags().Float64Var(&priceMax, "price-max", 0, "maximum price")
	cmd.Flags().IntVar(&mileageMin, "mileage-min", 0, "minimum mileage")
	cmd.Flags().IntVar(&mileageMax, "mileage-max", 0, "maximum mileage")
	cmd.Flags().IntVar(&yearMin, "year-min", 0, "minimum model year")
	cmd.Flags().IntVar(&yearMax, "year-max", 0, "maximum model year")
	cmd.Flags().Float64Var(&cpmMax, "cost-per-mile-max", 0, "maximum price per remaining mile")
	cmd.Flags().IntVar(&mpgMin, "mpg-min", 0, "minimum combined MPG")
	cmd.Flags().StringSliceVar(&conditions, "condition", nil, "conditions to include (repeatable)")
	cmd.Flags().StringVar(&sortField, "sort", "", "sort field (vehicle, price, mileage, cost_per_mile, score)")
	cmd.Flags().BoolVar(&descending, "desc", false, "sort descending")
	cmd.Flags().Float64Var(&fuelPrice, "fuel-price", 0, "fuel price per gallon for the fuel adjustment")

	return cmd
}

func localUpdateCmd() *cobra.Command {
	var listing domain.Listing
	var condition string

	cmd := &cobra.Command{
		Use:   "update <index>",
		Short: "Update a car by index",
		Long: "Replace the car at the given workspace index. Identity, pin state, and\n" +
			"creation time are preserved.",
		Example: `  cvt local update 2 --make Toyota --model Camry --year 2018 --price 19500 --mileage 51000`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index must be a number: %q", args[0])
			}
			if listing.Make == "" || listing.Model == "" {
				return fmt.Errorf("--make and --model are required")
			}
			listing.Condition = domain.Condition(condition)

			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			updated, err := ws.UpdateAt(ctx, index, listing)
			if err != nil {
				return err
			}
			fmt.Println("Updated", updated.Label())
			return nil
		},
	}

	addListingFlags(cmd, &listing, &condition)

	return cmd
}

func localDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index> [index...]",
		Short: "Delete cars by index",
		Long: "Delete the cars at the given workspace indices. All indices resolve\n" +
			"against the same view of the workspace, so deleting 0 and 2 together\n" +
			"removes exactly the cars shown at 0 and 2.",
		Example: `  cvt local delete 3
  cvt local delete 0 2 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			indices := make([]int, 0, len(args))
			for _, a := range args {
				i, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("index must be a number: %q", a)
				}
				indices = append(indices, i)
			}

			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			if err := ws.DeleteMany(ctx, indices); err != nil {
				return err
			}
			fmt.Printf("Deleted %d cars\n", len(indices))
			return nil
		},
	}
}

func localPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <index>",
		Short: "Toggle a car's pin by index",
		Example: `  cvt local pin 0
  cvt local pin 0  # again to unpin`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index must be a number: %q", args[0])
			}

			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			pinned, err := ws.TogglePin(ctx, index)
			if err != nil {
				return err
			}
			if pinned {
				fmt.Println("Pinned car at index", index)
			} else {
				fmt.Println("Unpinned car at index", index)
			}
			return nil
		},
	}
}

func localClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   "Remove every car from the workspace",
		Example: `  cvt local clear`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			if err := ws.Clear(ctx); err != nil {
				return err
			}
			fmt.Println("Workspace cleared.")
			return nil
		},
	}
}

func localSaveCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the workspace as a named list",
		Long: "Snapshot the current workspace cars under the given name. Saving onto\n" +
			"an existing name fails unless --replace is passed.",
		Example: `  cvt local save "winter candidates"
  cvt local save deals --replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			if err := ws.SaveAs(ctx, args[0], replace); err != nil {
				return err
			}
			fmt.Printf("Saved %q with %d cars\n", args[0], len(ws.Listings()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "overwrite an existing list with the same name")

	return cmd
}

func localLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <name>",
		Short: "Load a saved list into the workspace",
		Long: "Replace the workspace cars with the contents of a saved list. The\n" +
			"current cars are discarded, so save them first if they matter.",
		Example: `  cvt local load "winter candidates"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			if err := ws.Load(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Loaded %q with %d cars\n", args[0], len(ws.Listings()))
			return nil
		},
	}
}

func localListsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "lists",
		Short:   "List the saved lists",
		Example: `  cvt local lists`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			lists := ws.SavedLists()
			if jsonOutput() {
				return outputJSON(lists)
			}
			if len(lists) == 0 {
				fmt.Println("No saved lists.")
				return nil
			}
			return printListsTable(lists)
		},
	}
}

func localDeleteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-list <name>",
		Short: "Delete a saved list",
		Long: "Delete a saved list by name. The workspace cars are untouched, even\n" +
			"when the deleted list is the one they were loaded from.",
		Example: `  cvt local delete-list "winter candidates"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			if err := ws.DeleteList(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted", args[0])
			return nil
		},
	}
}

func localExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved lists as JSON",
		Example: `  cvt local export
  cvt local export --file lists.json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			data, err := ws.Export()
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Println("Exported to", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "file", "", "write to a file instead of stdout")

	return cmd
}

func localImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import saved lists from a JSON document",
		Long: "Import saved lists from an exported JSON document. The whole document\n" +
			"is validated before anything is stored; name collisions are resolved\n" +
			"by renaming the incoming list.",
		Example: `  cvt local import lists.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			ctx := context.Background()
			ws, gw, err := openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer gw.Close()

			names, err := ws.Import(ctx, payload)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d lists:\n", len(names))
			for _, name := range names {
				fmt.Println(" ", name)
			}
			return nil
		},
	}
}
