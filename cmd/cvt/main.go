// Package main is the entry point for the cvt CLI client.
package main

import (
	"github.com/mshelton/car-value-tracker/cmd/cvt/cmd"
)

func main() {
	cmd.Execute()
}
