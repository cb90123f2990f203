// Package validation checks a calculator form for range and type problems.
// Checks fail fast and report a single message meant for the user.
package validation

import (
	"errors"
	"math"

	"pricing-estimator/core/types"
)

// Limits on the numeric drivers
const (
	MinEmployees    = 1
	MaxEmployees    = 10000
	MinRevenue      = 0
	MaxRevenue      = 1000 // million currency units
	MinTransactions = 0
	MaxTransactions = 100000
)

// User-facing messages
const (
	MsgRequiredFields       = "Please fill in all required fields"
	MsgEmployeesWhole       = "Number of employees must be a whole number"
	MsgEmployeesTooFew      = "Number of employees must be at least 1"
	MsgEmployeesTooMany     = "Please contact us directly for large organizations"
	MsgRevenueNegative      = "Revenue cannot be negative"
	MsgRevenueTooHigh       = "Please contact us directly for high-revenue organizations"
	MsgTransactionsNegative = "Number of transactions cannot be negative"
	MsgTransactionsTooMany  = "Please contact us directly for high-volume businesses"
)

// Result is the outcome of validating a form
type Result struct {
	IsValid bool `json:"isValid"`

	// Errors is nil when valid
	Errors *string `json:"errors"`
}

// Message returns the error message, or "" when valid
func (r Result) Message() string {
	if r.Errors == nil {
		return ""
	}
	return *r.Errors
}

func invalid(msg string) Result {
	return Result{IsValid: false, Errors: &msg}
}

// Validate checks the required numeric drivers in order
func Validate(form types.CalculatorFormData) Result {
	employees, okE := form.Employees.Float64()
	revenue, okR := form.Revenue.Float64()
	transactions, okT := form.Transactions.Float64()
	if !okE || !okR || !okT {
		return invalid(MsgRequiredFields)
	}

	for _, check := range []func() error{
		func() error { return Employees(employees) },
		func() error { return Revenue(revenue) },
		func() error { return Transactions(transactions) },
	} {
		if err := check(); err != nil {
			return invalid(err.Error())
		}
	}
	return Result{IsValid: true}
}

// Employees checks the employee count
func Employees(v float64) error {
	if math.IsNaN(v) || v != math.Trunc(v) {
		return errors.New(MsgEmployeesWhole)
	}
	if v < MinEmployees {
		return errors.New(MsgEmployeesTooFew)
	}
	if v > MaxEmployees {
		return errors.New(MsgEmployeesTooMany)
	}
	return nil
}

// Revenue checks annual revenue in million currency units
func Revenue(v float64) error {
	if math.IsNaN(v) || v < MinRevenue {
		return errors.New(MsgRevenueNegative)
	}
	if v > MaxRevenue {
		return errors.New(MsgRevenueTooHigh)
	}
	return nil
}

// Transactions checks monthly transaction volume
func Transactions(v float64) error {
	if math.IsNaN(v) || v < MinTransactions {
		return errors.New(MsgTransactionsNegative)
	}
	if v > MaxTransactions {
		return errors.New(MsgTransactionsTooMany)
	}
	return nil
}
