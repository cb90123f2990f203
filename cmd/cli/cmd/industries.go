// Package cmd - industries command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pricing-estimator/core/determinism"
	"pricing-estimator/core/types"
	"pricing-estimator/core/ui"
	"pricing-estimator/internal/config"
)

var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "List industries and their questions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(config.Get())
		if err != nil {
			return err
		}
		printIndustries(ui.NewWriter(cmd.OutOrStdout(), e.noColor), e.snapshot.Industries)
		return nil
	},
}

func printIndustries(w *ui.Writer, industries types.IndustryTable) {
	for _, key := range determinism.SortedKeys(industries) {
		industry := industries[key]
		w.SubHeader(fmt.Sprintf("%s (%s)", industry.Label, key))
		w.Println("  multiplier %.2f, at most %.2f", industry.BaseMultiplier, industry.MaxMultiplier)
		for _, q := range industry.Questions {
			impact := fmt.Sprintf("×%.2f", q.Impact.Value)
			if q.Impact.Type == types.ImpactFixed {
				impact = fmt.Sprintf("+%.0f (not priced)", q.Impact.Value)
			}
			w.Println("  - %s: %s %s", q.ID, q.Question, impact)
		}
		w.Println("")
	}
}
