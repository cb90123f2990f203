// Package output renders calculator estimates for people and machines.
package output

import (
	"io"
	"sort"
	"sync"

	"pricing-estimator/core/session"
	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *EstimateResult) error
}

// EstimateResult is one priced form plus the configuration that priced it
type EstimateResult struct {
	State    session.State  `json:"state"`
	Snapshot types.Snapshot `json:"-"`
}

// NewEstimateResult captures a session's current state
func NewEstimateResult(s *session.Session) *EstimateResult {
	return &EstimateResult{State: s.State(), Snapshot: s.Snapshot()}
}

// Currency returns the configured currency, NOK when unset
func (r *EstimateResult) Currency() types.Currency {
	if r.Snapshot.Pricing == nil || r.Snapshot.Pricing.Currency == "" {
		return types.CurrencyNOK
	}
	return r.Snapshot.Pricing.Currency
}

// Valid reports whether the form passed validation
func (r *EstimateResult) Valid() bool {
	return r.State.Error == nil
}

// Registry holds formatters by format
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[Format]Formatter)}
}

// DefaultRegistry registers the CLI and JSON formatters
func DefaultRegistry(money *CurrencyFormatter, noColor bool) *Registry {
	r := NewRegistry()
	_ = r.Register(NewCLIFormatter(money, noColor))
	_ = r.Register(NewJSONFormatter(money))
	return r
}

// Register adds a formatter. A format can be registered once.
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Format()]; exists {
		return errors.Newf(errors.TypeConfig, "formatter %q already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.NotFound("output format", string(format))
	}
	return f, nil
}

// Formats lists registered formats in name order
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
