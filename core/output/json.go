// Package output - JSON estimate renderer
package output

import (
	"encoding/json"
	"io"

	"pricing-estimator/core/determinism"
	"pricing-estimator/core/pricing"
	"pricing-estimator/core/types"
)

// Report is the JSON document for one estimate
type Report struct {
	Valid          bool                     `json:"valid"`
	Error          *string                  `json:"error"`
	Total          int64                    `json:"total"`
	FormattedTotal string                   `json:"formattedTotal"`
	Currency       string                   `json:"currency"`
	Breakdown      pricing.Breakdown        `json:"breakdown"`
	Form           types.CalculatorFormData `json:"formData"`
	Metadata       ReportMetadata           `json:"metadata"`
}

// ReportMetadata identifies the configuration that priced the report
type ReportMetadata struct {
	SnapshotVersion int    `json:"snapshotVersion"`
	SnapshotHash    string `json:"snapshotHash"`
}

// JSONFormatter renders estimates as indented JSON
type JSONFormatter struct {
	money *CurrencyFormatter
}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter(money *CurrencyFormatter) *JSONFormatter {
	return &JSONFormatter{money: money}
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render writes the report followed by a newline
func (f *JSONFormatter) Render(w io.Writer, result *EstimateResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f.Report(result))
}

// Report builds the document Render encodes
func (f *JSONFormatter) Report(result *EstimateResult) Report {
	r := Report{
		Valid:     result.Valid(),
		Error:     result.State.Error,
		Total:     result.State.Total,
		Currency:  f.money.Currency(),
		Breakdown: result.State.Breakdown,
		Form:      result.State.FormData,
		Metadata:  ReportMetadata{SnapshotVersion: result.Snapshot.Version},
	}
	if r.Valid {
		r.FormattedTotal = f.money.Format(r.Total)
	}
	if hash, err := determinism.HashJSON(result.Snapshot); err == nil {
		r.Metadata.SnapshotHash = hash.Hex()
	}
	return r
}
