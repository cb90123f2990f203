// Package types - User-defined pricing variables
package types

import (
	"pricing-estimator/internal/errors"
)

// VariableType is the input kind of a pricing variable
type VariableType string

const (
	VariableNumber   VariableType = "number"
	VariableCurrency VariableType = "currency"
	VariableText     VariableType = "text"
)

// Formula is how an impact rule turns a value into cost
type Formula string

const (
	FormulaLinear     Formula = "linear"
	FormulaThreshold  Formula = "threshold"
	FormulaPercentage Formula = "percentage"
)

// PricingVariable is a user-defined form input with impact rules
type PricingVariable struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Type        VariableType        `json:"type"`
	Tag         string              `json:"tag"`
	Description string              `json:"description"`
	ImpactRules []PricingImpactRule `json:"impactRules"`
}

// PricingImpactRule binds a variable's value to one service's cost
type PricingImpactRule struct {
	ID        string  `json:"id"`
	ServiceID Service `json:"serviceId"`
	Formula   Formula `json:"formula"`

	// Amount is per unit (linear), the fallback (threshold) or a percent (percentage)
	Amount float64 `json:"amount"`

	// MinValue floors a linear impact
	MinValue *float64 `json:"minValue,omitempty"`

	// MaxValue caps a linear impact
	MaxValue *float64 `json:"maxValue,omitempty"`

	// Thresholds are matched in order by value ≤ threshold
	Thresholds []Threshold `json:"thresholds,omitempty"`
}

// Threshold is one piecewise step of a threshold rule
type Threshold struct {
	Value  Bound   `json:"value"`
	Amount float64 `json:"amount"`
}

// Clone returns a deep copy
func (r PricingImpactRule) Clone() PricingImpactRule {
	r.MinValue = cloneFloat(r.MinValue)
	r.MaxValue = cloneFloat(r.MaxValue)
	if r.Thresholds != nil {
		thresholds := make([]Threshold, len(r.Thresholds))
		for i, th := range r.Thresholds {
			thresholds[i] = Threshold{Value: cloneBound(th.Value), Amount: th.Amount}
		}
		r.Thresholds = thresholds
	}
	return r
}

// Clone returns a deep copy
func (v PricingVariable) Clone() PricingVariable {
	if v.ImpactRules != nil {
		rules := make([]PricingImpactRule, len(v.ImpactRules))
		for i, r := range v.ImpactRules {
			rules[i] = r.Clone()
		}
		v.ImpactRules = rules
	}
	return v
}

// Validate checks tag, type and rule formulas
func (v PricingVariable) Validate() error {
	if v.Tag == "" {
		return errors.Validation("variable %q has no tag", v.ID)
	}
	switch v.Type {
	case VariableNumber, VariableCurrency, VariableText:
	default:
		return errors.Validation("variable %q has unknown type %q", v.ID, v.Type)
	}
	for _, r := range v.ImpactRules {
		switch r.Formula {
		case FormulaLinear, FormulaThreshold, FormulaPercentage:
		default:
			return errors.Validation("rule %q has unknown formula %q", r.ID, r.Formula)
		}
		if r.ServiceID == "" {
			return errors.Validation("rule %q references no service", r.ID)
		}
	}
	return nil
}

// CloneVariables deep-copies a variable list
func CloneVariables(vars []PricingVariable) []PricingVariable {
	if vars == nil {
		return nil
	}
	out := make([]PricingVariable, len(vars))
	for i, v := range vars {
		out[i] = v.Clone()
	}
	return out
}
