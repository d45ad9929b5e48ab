package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var (
		email    string
		password string
		register bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the API server",
		Long: "Log in to the API server and print a bearer token. Pass the token to\n" +
			"later commands with --token or the CVT_TOKEN environment variable.\n" +
			"Use --register to create the account first.",
		Example: `  cvt login --email me@example.com --password hunter2-long
  cvt login --register --email me@example.com --password hunter2-long`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			c := newClient()
			ctx := context.Background()

			if register {
				if err := c.Register(ctx, email, password); err != nil {
					return err
				}
			}

			resp, err := c.Login(ctx, email, password)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}
			fmt.Println(resp.Token)
			fmt.Fprintln(os.Stderr, "Token expires:", resp.ExpiresAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password (required)")
	cmd.Flags().BoolVar(&register, "register", false, "register the account before logging in")

	return cmd
}
