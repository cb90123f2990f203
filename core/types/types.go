// Package types defines core domain types shared across all layers.
// This package contains NO pricing logic - only type definitions, copying,
// and structural checks.
package types

// Service identifies a billable offering
type Service string

const (
	ServiceSalary        Service = "salary"
	ServiceBookkeeping   Service = "bookkeeping"
	ServiceAnnualReports Service = "annual-reports"
)

// Services lists the built-in services in display order
var Services = []Service{ServiceSalary, ServiceBookkeeping, ServiceAnnualReports}

// String returns the string representation of the service
func (s Service) String() string {
	return string(s)
}

// IsValid checks if the service is a known service
func (s Service) IsValid() bool {
	switch s {
	case ServiceSalary, ServiceBookkeeping, ServiceAnnualReports:
		return true
	default:
		return false
	}
}

// Currency represents an ISO 4217 currency code
type Currency string

const (
	CurrencyNOK Currency = "NOK"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Bound is an inclusive upper limit. nil means unbounded.
type Bound *float64

// Limit returns a bound at v
func Limit(v float64) Bound {
	return &v
}

// Unbounded returns the open-ended bound
func Unbounded() Bound {
	return nil
}

// BoundCovers reports whether v falls at or under b
func BoundCovers(b Bound, v float64) bool {
	return b == nil || v <= *b
}

func cloneBound(b Bound) Bound {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
