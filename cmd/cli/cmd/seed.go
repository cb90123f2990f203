// Package cmd - seed commands
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pricing-estimator/adapters/hclconfig"
	"pricing-estimator/internal/config"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Work with pricing seed files",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var seedExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the active pricing configuration as HCL",
	Long: `Write the active pricing configuration as an HCL seed file, or to stdout
when no file is given. The built-in catalog is a good starting point:

  estimator seed export pricing.hcl
  estimator --seed pricing.hcl estimate`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(config.Get())
		if err != nil {
			return err
		}
		data := hclconfig.Encode(e.snapshot)
		if len(args) == 0 {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write seed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
		return nil
	},
}

var seedCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse and validate a seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := hclconfig.NewLoader().LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d industries, %d variables\n",
			args[0], len(snapshot.Industries), len(snapshot.Variables))
		return nil
	},
}

func init() {
	seedCmd.AddCommand(seedExportCmd)
	seedCmd.AddCommand(seedCheckCmd)
}
