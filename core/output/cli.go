// Package output - Terminal estimate renderer
package output

import (
	"fmt"
	"io"

	"pricing-estimator/core/ui"
)

// CLIFormatter renders an estimate as a table with a total box
type CLIFormatter struct {
	money   *CurrencyFormatter
	noColor bool
}

// NewCLIFormatter creates a terminal formatter
func NewCLIFormatter(money *CurrencyFormatter, noColor bool) *CLIFormatter {
	return &CLIFormatter{money: money, noColor: noColor}
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the breakdown. An invalid form shows only the message.
func (f *CLIFormatter) Render(w io.Writer, result *EstimateResult) error {
	out := ui.NewWriter(w, f.noColor)
	box := out.NewTotalBox()

	if !result.Valid() {
		box.Error = *result.State.Error
		box.Render()
		return nil
	}

	b := result.State.Breakdown
	out.SubHeader("Services")
	if len(b.Lines) == 0 {
		out.Info("No services selected")
	} else {
		table := out.NewTable("Service", "Base", "Adjustments", "Cost").AlignRight(1, 2, 3)
		for _, line := range b.Lines {
			table.AddRow(line.Label,
				f.money.FormatDecimal(line.Base),
				f.money.FormatDecimal(line.Impact),
				f.money.FormatDecimal(line.Cost))
		}
		table.Render()
	}
	out.Println("")

	mult, _ := b.Multiplier.Float64()
	summary := out.NewTable("", "").AlignRight(1)
	summary.AddRow("Subtotal", f.money.FormatDecimal(b.Subtotal))
	summary.AddRow("Industry multiplier", "×"+f.money.Number(mult))
	if !b.Premium.IsZero() {
		summary.AddRow("Premium", f.money.FormatDecimal(b.Premium))
	}
	summary.Render()
	out.Println("")

	box.Total = f.money.Format(result.State.Total)
	box.Note = industryNote(result)
	box.Render()
	return nil
}

func industryNote(result *EstimateResult) string {
	key := result.State.FormData.Industry
	industry, ok := result.Snapshot.Industries[key]
	if !ok {
		return ""
	}
	answered := 0
	for _, q := range industry.Questions {
		if result.State.FormData.IndustryOptions[q.ID] {
			answered++
		}
	}
	label := industry.Label
	if label == "" {
		label = key
	}
	return fmt.Sprintf("%s, %d of %d questions answered yes", label, answered, len(industry.Questions))
}
