// Package cmd implements the cvt CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/mshelton/car-value-tracker/internal/api/client"
	"github.com/mshelton/car-value-tracker/internal/gateway"
	"github.com/mshelton/car-value-tracker/internal/workspace"
	"github.com/mshelton/car-value-tracker/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "cvt",
		Short: "Score used cars by cost per remaining mile",
		Long: "cvt is a car value tracker. It scores used car listings by price\n" +
			"per estimated remaining lifetime mile, keeps a local workspace of\n" +
			"candidate cars and saved lists, and can talk to a car-value-tracker\n" +
			"API server for shared storage.",
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.cvt.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("token", "", "bearer token for the API server")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token")))

	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(carsCmd())
	rootCmd.AddCommand(listsCmd())
	rootCmd.AddCommand(localCmd())
	rootCmd.AddCommand(loginCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cvt")
	}

	viper.SetEnvPrefix("CVT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	var opts []apiclient.Option
	if token := viper.GetString("token"); token != "" {
		opts = append(opts, apiclient.WithToken(token))
	}
	return apiclient.New(viper.GetString("server"), opts...)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

// localStorePath returns the SQLite path backing the local workspace.
func localStorePath() (string, error) {
	if p := viper.GetString("local_path"); p != "" {
		return p, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".cvt.db"), nil
}

// openWorkspace opens the SQLite-backed local workspace. The caller must
// close the returned gateway.
func openWorkspace(ctx context.Context) (*workspace.Workspace, *gateway.SQLite, error) {
	path, err := localStorePath()
	if err != nil {
		return nil, nil, err
	}

	gw, err := gateway.OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening local store: %w", err)
	}

	log := logger.NewWithWriter(os.Stderr, "warn", "text")
	ws, err := workspace.Open(ctx, gw, log)
	if err != nil {
		gw.Close()
		return nil, nil, fmt.Errorf("opening workspace: %w", err)
	}
	return ws, gw, nil
}
