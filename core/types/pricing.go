// Package types - Pricing configuration types
package types

import (
	"pricing-estimator/internal/errors"
)

// DriverType names the form input that scales a service
type DriverType string

const (
	DriverEmployees    DriverType = "employees"
	DriverTransactions DriverType = "transactions"
	DriverRevenue      DriverType = "revenue"
)

// Driver describes the primary numeric input of a service. Display only.
type Driver struct {
	Type        DriverType `json:"type"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
}

// PricingConfig is the root pricing configuration.
// A nil plan means the service is not offered.
type PricingConfig struct {
	// Currency is the currency all prices are expressed in
	Currency Currency `json:"currency"`

	// Salary prices payroll processing per employee
	Salary *SalaryPlan `json:"salary,omitempty"`

	// Bookkeeping prices transaction processing
	Bookkeeping *BookkeepingPlan `json:"bookkeeping,omitempty"`

	// AnnualReports prices year-end reporting by revenue tier
	AnnualReports *AnnualReportsPlan `json:"annualReports,omitempty"`

	// Premium is the optional flat monthly add-on
	Premium *PremiumPlan `json:"premium,omitempty"`
}

// SalaryPlan is baseRate + employees × perEmployeeRate
type SalaryPlan struct {
	Label           string  `json:"label"`
	Description     string  `json:"description"`
	BaseRate        float64 `json:"baseRate"`
	PerEmployeeRate float64 `json:"perEmployeeRate"`
	Driver          Driver  `json:"driver"`
}

// BookkeepingPlan is baseRate + transactions × perTransactionRate
type BookkeepingPlan struct {
	Label              string  `json:"label"`
	Description        string  `json:"description"`
	BaseRate           float64 `json:"baseRate"`
	PerTransactionRate float64 `json:"perTransactionRate"`
	Driver             Driver  `json:"driver"`
}

// AnnualReportsPlan maps revenue brackets to an annual price
type AnnualReportsPlan struct {
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Tiers       []RevenueTier `json:"tiers"`
	Driver      Driver        `json:"driver"`
}

// RevenueTier is one revenue bracket, in million currency units
type RevenueTier struct {
	MaxRevenue Bound   `json:"maxRevenue"`
	Price      float64 `json:"price"`
}

// PremiumPlan is a flat monthly add-on
type PremiumPlan struct {
	Label        string   `json:"label"`
	Description  string   `json:"description"`
	MonthlyPrice float64  `json:"monthlyPrice"`
	Features     []string `json:"features"`
}

// Clone returns a deep copy
func (c *PricingConfig) Clone() *PricingConfig {
	if c == nil {
		return nil
	}
	out := &PricingConfig{Currency: c.Currency}
	if c.Salary != nil {
		s := *c.Salary
		out.Salary = &s
	}
	if c.Bookkeeping != nil {
		b := *c.Bookkeeping
		out.Bookkeeping = &b
	}
	if c.AnnualReports != nil {
		a := *c.AnnualReports
		a.Tiers = make([]RevenueTier, len(c.AnnualReports.Tiers))
		for i, tier := range c.AnnualReports.Tiers {
			a.Tiers[i] = RevenueTier{MaxRevenue: cloneBound(tier.MaxRevenue), Price: tier.Price}
		}
		out.AnnualReports = &a
	}
	if c.Premium != nil {
		p := *c.Premium
		p.Features = append([]string(nil), c.Premium.Features...)
		out.Premium = &p
	}
	return out
}

// Validate checks the structural invariants of the configuration.
// The pricing engine tolerates violations; this is for operators.
func (c *PricingConfig) Validate() error {
	if c == nil {
		return errors.Validation("pricing configuration is missing")
	}
	if c.Salary != nil && (c.Salary.BaseRate < 0 || c.Salary.PerEmployeeRate < 0) {
		return errors.Validation("salary rates cannot be negative")
	}
	if c.Bookkeeping != nil && (c.Bookkeeping.BaseRate < 0 || c.Bookkeeping.PerTransactionRate < 0) {
		return errors.Validation("bookkeeping rates cannot be negative")
	}
	if c.AnnualReports != nil {
		if err := validateTiers(c.AnnualReports.Tiers); err != nil {
			return err
		}
	}
	if c.Premium != nil && c.Premium.MonthlyPrice < 0 {
		return errors.Validation("premium monthly price cannot be negative")
	}
	return nil
}

func validateTiers(tiers []RevenueTier) error {
	if len(tiers) == 0 {
		return errors.Validation("annual reports needs at least one revenue tier")
	}
	previous := -1.0
	for i, tier := range tiers {
		if tier.Price < 0 {
			return errors.Validation("revenue tier %d has a negative price", i)
		}
		if tier.MaxRevenue == nil {
			if i != len(tiers)-1 {
				return errors.Validation("revenue tier %d is unbounded but not last", i)
			}
			continue
		}
		if *tier.MaxRevenue <= previous {
			return errors.Validation("revenue tiers must ascend: tier %d max %.2f after %.2f", i, *tier.MaxRevenue, previous)
		}
		previous = *tier.MaxRevenue
	}
	if tiers[len(tiers)-1].MaxRevenue != nil {
		return errors.Validation("the last revenue tier must be unbounded")
	}
	return nil
}
