// Package main is the entry point for the estimator CLI.
package main

import (
	"os"

	"pricing-estimator/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
