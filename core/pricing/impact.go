// Package pricing - User-defined variable impact
package pricing

import (
	"github.com/shopspring/decimal"

	"pricing-estimator/core/types"
)

var hundred = decimal.NewFromInt(100)

// RuleImpact evaluates one rule against a variable value. baseCost is the
// built-in cost of the rule's service, used by percentage rules.
func RuleImpact(rule types.PricingImpactRule, value float64, baseCost decimal.Decimal) decimal.Decimal {
	amount := fromFloat(rule.Amount)

	switch rule.Formula {
	case types.FormulaLinear:
		impact := amount.Mul(fromFloat(value))
		if rule.MaxValue != nil {
			impact = decimal.Min(impact, fromFloat(*rule.MaxValue))
		}
		if rule.MinValue != nil {
			impact = decimal.Max(impact, fromFloat(*rule.MinValue))
		}
		return impact

	case types.FormulaThreshold:
		if len(rule.Thresholds) == 0 {
			return amount
		}
		for _, th := range rule.Thresholds {
			if types.BoundCovers(th.Value, value) {
				return fromFloat(th.Amount)
			}
		}
		return fromFloat(rule.Thresholds[len(rule.Thresholds)-1].Amount)

	case types.FormulaPercentage:
		return amount.Div(hundred).Mul(baseCost)
	}

	return decimal.Zero
}

// VariableImpact sums every rule that targets service. Each rule is
// evaluated against the value stored under its variable's tag; missing,
// blank, or non-numeric values contribute nothing, and so do rules on a
// service that is not offered.
func VariableImpact(service types.Service, form types.CalculatorFormData, config *types.PricingConfig, variables []types.PricingVariable) decimal.Decimal {
	total := decimal.Zero
	if !Offered(service, config) {
		return total
	}
	var base *decimal.Decimal

	for _, v := range variables {
		for _, rule := range v.ImpactRules {
			if rule.ServiceID != service {
				continue
			}
			value, ok := form.Value(v.Tag)
			if !ok {
				continue
			}
			if base == nil {
				cost := ServiceCost(service, form, config)
				base = &cost
			}
			total = total.Add(RuleImpact(rule, value, *base))
		}
	}

	return total
}
