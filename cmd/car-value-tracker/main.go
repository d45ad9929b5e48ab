// Package main is the entry point for the car-value-tracker API server.
package main

import (
	"os"

	"github.com/mshelton/car-value-tracker/cmd/car-value-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
