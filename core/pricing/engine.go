// Package pricing turns a calculator form and a configuration snapshot into
// a monthly price. Everything here is pure: no state, no mutation of inputs.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"pricing-estimator/core/types"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// fromFloat converts a configured or entered value. NaN and infinities
// price as zero.
func fromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// Line is the cost of one selected service
type Line struct {
	Service types.Service   `json:"service"`
	Label   string          `json:"label"`
	Base    decimal.Decimal `json:"base"`
	Impact  decimal.Decimal `json:"impact"`
	Cost    decimal.Decimal `json:"cost"`
}

// Breakdown is a computed estimate with its intermediate values
type Breakdown struct {
	Lines      []Line          `json:"lines"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Premium    decimal.Decimal `json:"premium"`

	// Total is rounded to whole currency units
	Total int64 `json:"total"`
}

// ServiceCost is the built-in monthly cost of one service.
// A service without configuration costs nothing.
func ServiceCost(service types.Service, form types.CalculatorFormData, config *types.PricingConfig) decimal.Decimal {
	if config == nil {
		return decimal.Zero
	}

	switch service {
	case types.ServiceSalary:
		plan := config.Salary
		if plan == nil {
			return decimal.Zero
		}
		employees := fromFloat(form.Employees.Or(0))
		return fromFloat(plan.BaseRate).Add(employees.Mul(fromFloat(plan.PerEmployeeRate)))

	case types.ServiceBookkeeping:
		plan := config.Bookkeeping
		if plan == nil {
			return decimal.Zero
		}
		transactions := fromFloat(form.Transactions.Or(0))
		return fromFloat(plan.BaseRate).Add(transactions.Mul(fromFloat(plan.PerTransactionRate)))

	case types.ServiceAnnualReports:
		plan := config.AnnualReports
		if plan == nil {
			return decimal.Zero
		}
		tier, ok := SelectTier(plan.Tiers, form.Revenue.Or(0))
		if !ok {
			return decimal.Zero
		}
		return fromFloat(tier.Price).Div(twelve)
	}

	return decimal.Zero
}

// Offered reports whether service has a configured plan
func Offered(service types.Service, config *types.PricingConfig) bool {
	if config == nil {
		return false
	}
	switch service {
	case types.ServiceSalary:
		return config.Salary != nil
	case types.ServiceBookkeeping:
		return config.Bookkeeping != nil
	case types.ServiceAnnualReports:
		return config.AnnualReports != nil
	}
	return false
}

// SelectTier returns the first tier covering revenue, falling back to the
// last tier when none does.
func SelectTier(tiers []types.RevenueTier, revenue float64) (types.RevenueTier, bool) {
	if len(tiers) == 0 {
		return types.RevenueTier{}, false
	}
	for _, tier := range tiers {
		if types.BoundCovers(tier.MaxRevenue, revenue) {
			return tier, true
		}
	}
	return tiers[len(tiers)-1], true
}

// IndustryMultiplier scales the service subtotal for the selected industry.
// Only multiplier impacts apply; fixed impacts are not priced.
func IndustryMultiplier(form types.CalculatorFormData, industries types.IndustryTable) decimal.Decimal {
	cfg, ok := industries[form.Industry]
	if !ok {
		return one
	}

	multiplier := fromFloat(cfg.BaseMultiplier)
	// Walk questions in configuration order so the product is reproducible.
	for _, q := range cfg.Questions {
		if !form.IndustryOptions[q.ID] {
			continue
		}
		if q.Impact.Type == types.ImpactMultiplier {
			multiplier = multiplier.Mul(fromFloat(q.Impact.Value))
		}
	}

	return decimal.Min(multiplier, fromFloat(cfg.MaxMultiplier))
}

// Compute prices the form and reports each step
func Compute(form types.CalculatorFormData, config *types.PricingConfig, variables []types.PricingVariable, industries types.IndustryTable) Breakdown {
	b := Breakdown{
		Subtotal:   decimal.Zero,
		Multiplier: one,
		Premium:    decimal.Zero,
	}

	for _, service := range types.Services {
		if !form.HasService(service) {
			continue
		}
		base := ServiceCost(service, form, config)
		impact := VariableImpact(service, form, config, variables)
		line := Line{
			Service: service,
			Label:   serviceLabel(service, config),
			Base:    base,
			Impact:  impact,
			Cost:    base.Add(impact),
		}
		b.Lines = append(b.Lines, line)
		b.Subtotal = b.Subtotal.Add(line.Cost)
	}

	total := b.Subtotal
	if len(form.SelectedServices) > 0 {
		b.Multiplier = IndustryMultiplier(form, industries)
		total = total.Mul(b.Multiplier)
	}

	if form.IsPremium && config != nil && config.Premium != nil && config.Premium.MonthlyPrice != 0 {
		b.Premium = fromFloat(config.Premium.MonthlyPrice)
		total = total.Add(b.Premium)
	}

	b.Total = total.Round(0).IntPart()
	return b
}

// ComputeTotal is the rounded monthly price
func ComputeTotal(form types.CalculatorFormData, config *types.PricingConfig, variables []types.PricingVariable, industries types.IndustryTable) int64 {
	return Compute(form, config, variables, industries).Total
}

// Estimate prices the form against a published snapshot
func Estimate(form types.CalculatorFormData, snapshot types.Snapshot) Breakdown {
	return Compute(form, snapshot.Pricing, snapshot.Variables, snapshot.Industries)
}

func serviceLabel(service types.Service, config *types.PricingConfig) string {
	if config != nil {
		switch {
		case service == types.ServiceSalary && config.Salary != nil:
			return config.Salary.Label
		case service == types.ServiceBookkeeping && config.Bookkeeping != nil:
			return config.Bookkeeping.Label
		case service == types.ServiceAnnualReports && config.AnnualReports != nil:
			return config.AnnualReports.Label
		}
	}
	return service.String()
}
