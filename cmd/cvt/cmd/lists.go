package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/mshelton/car-value-tracker/internal/api/client"
)

func listsCmd() *cobra.Command {
	listsRoot := &cobra.Command{
		Use:   "lists",
		Short: "Manage saved lists on the API server",
		Long: "Manage named saved lists on the API server: snapshot the current car\n" +
			"collection under a name, reload it later, and move lists between\n" +
			"machines as JSON documents.",
	}

	listsRoot.AddCommand(
		listsListCmd(),
		listsGetCmd(),
		listsSaveCmd(),
		listsDeleteCmd(),
		listsExportCmd(),
		listsImportCmd(),
	)

	return listsRoot
}

func listsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved lists",
		Example: `  cvt lists list
  cvt lists list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			lists, err := c.ListLists(context.Background())
			if err != nil {
				return err
			}
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

func listsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show a saved list",
		Example: `  cvt lists get "winter candidates"
  cvt lists get deals --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			sl, err := c.GetList(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(sl)
			}
			fmt.Println("List:", sl.Name)
			return printCarsTable(sl.Listings)
		},
	}
}

func listsSaveCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current cars as a named list",
		Long: "Snapshot every car currently on the server under the given name.\n" +
			"Saving onto an existing name fails unless --replace is passed.",
		Example: `  cvt lists save "winter candidates"
  cvt lists save deals --replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			ctx := context.Background()

			cars, err := c.ListCars(ctx, &apiclient.ListCarsParams{})
			if err != nil {
				return err
			}

			sl, err := c.SaveList(ctx, args[0], cars.Cars, replace)
			if err != nil {
				return err
			}
			fmt.Printf("Saved %q with %d cars\n", sl.Name, len(sl.Listings))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "overwrite an existing list with the same name")

	return cmd
}

func listsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Short:   "Delete a saved list",
		Example: `  cvt lists delete "winter candidates"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.DeleteList(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted", args[0])
			return nil
		},
	}
}

func listsExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all saved lists as JSON",
		Example: `  cvt lists export
  cvt lists export --file lists.json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			data, err := c.ExportLists(context.Background())
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

func listsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import saved lists from a JSON document",
		Long: "Import saved lists from an exported JSON document. The whole document\n" +
			"is validated before anything is stored; name collisions are resolved\n" +
			"by renaming the incoming list.",
		Example: `  cvt lists import lists.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			c := newClient()
			names, err := c.ImportLists(context.Background(), payload)
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
