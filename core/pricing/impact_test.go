package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pricing-estimator/core/catalog"
	"pricing-estimator/core/types"
)

func float(v float64) *float64 { return &v }

func TestRuleImpact(t *testing.T) {
	base := decimal.NewFromInt(2000)
	steps := []types.Threshold{
		{Value: types.Limit(5), Amount: 100},
		{Value: types.Limit(10), Amount: 250},
		{Value: types.Limit(20), Amount: 400},
	}

	tests := []struct {
		name  string
		rule  types.PricingImpactRule
		value float64
		want  string
	}{
		{name: "linear", rule: types.PricingImpactRule{Formula: types.FormulaLinear, Amount: 150}, value: 4, want: "600"},
		{name: "linear under cap", rule: types.PricingImpactRule{Formula: types.FormulaLinear, Amount: 150, MaxValue: float(1000)}, value: 4, want: "600"},
		{name: "linear capped", rule: types.PricingImpactRule{Formula: types.FormulaLinear, Amount: 150, MaxValue: float(1000)}, value: 10, want: "1000"},
		{name: "linear floored", rule: types.PricingImpactRule{Formula: types.FormulaLinear, Amount: 150, MinValue: float(300)}, value: 1, want: "300"},
		{name: "threshold first step", rule: types.PricingImpactRule{Formula: types.FormulaThreshold, Thresholds: steps}, value: 5, want: "100"},
		{name: "threshold middle step", rule: types.PricingImpactRule{Formula: types.FormulaThreshold, Thresholds: steps}, value: 5.5, want: "250"},
		{name: "threshold above all", rule: types.PricingImpactRule{Formula: types.FormulaThreshold, Thresholds: steps}, value: 99, want: "400"},
		{name: "threshold without steps", rule: types.PricingImpactRule{Formula: types.FormulaThreshold, Amount: 75}, value: 3, want: "75"},
		{name: "percentage", rule: types.PricingImpactRule{Formula: types.FormulaPercentage, Amount: 12.5}, value: 1, want: "250"},
		{name: "unknown formula", rule: types.PricingImpactRule{Formula: "exponential", Amount: 5}, value: 3, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuleImpact(tt.rule, tt.value, base)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestVariableImpactAppliesBeforeIndustryMultiplier(t *testing.T) {
	variables := []types.PricingVariable{{
		ID: "offices", Tag: "offices", Type: types.VariableNumber,
		ImpactRules: []types.PricingImpactRule{
			{ID: "per-office", ServiceID: types.ServiceBookkeeping, Formula: types.FormulaLinear, Amount: 200},
		},
	}}
	form := baseForm()
	form.Industry = "tech"
	form.Variables["offices"] = types.NumberValue(4)

	// (3200 + 4×200) × 1.2
	assert.Equal(t, int64(4800), ComputeTotal(form, catalog.DefaultPricing(), variables, catalog.DefaultIndustries()))
}

func TestVariableImpactScope(t *testing.T) {
	config := catalog.DefaultPricing()
	industries := catalog.DefaultIndustries()
	variables := []types.PricingVariable{
		{
			ID: "offices", Tag: "offices", Type: types.VariableNumber,
			ImpactRules: []types.PricingImpactRule{
				{ID: "salary-rule", ServiceID: types.ServiceSalary, Formula: types.FormulaLinear, Amount: 1000},
				{ID: "bookkeeping-rule", ServiceID: types.ServiceBookkeeping, Formula: types.FormulaPercentage, Amount: 10},
			},
		},
		{
			ID: "region", Tag: "region", Type: types.VariableText,
			ImpactRules: []types.PricingImpactRule{
				{ID: "text-rule", ServiceID: types.ServiceBookkeeping, Formula: types.FormulaLinear, Amount: 1000},
			},
		},
		{
			ID: "unset", Tag: "unset", Type: types.VariableNumber,
			ImpactRules: []types.PricingImpactRule{
				{ID: "unset-rule", ServiceID: types.ServiceBookkeeping, Formula: types.FormulaLinear, Amount: 1000},
			},
		},
	}
	form := baseForm()
	form.Variables["offices"] = types.NumberValue(2)
	form.Variables["region"] = types.TextValue("north")

	// salary is not selected; bookkeeping gets 10% of its 3200 base
	assert.Equal(t, int64(3520), ComputeTotal(form, config, variables, industries))

	impact := VariableImpact(types.ServiceSalary, form, config, variables)
	assert.True(t, decimal.NewFromInt(2000).Equal(impact))

	config.Salary = nil
	assert.True(t, VariableImpact(types.ServiceSalary, form, config, variables).IsZero())
}

func TestVariableBoundToBuiltinDriver(t *testing.T) {
	variables := []types.PricingVariable{{
		ID: "employees", Tag: "employees", Type: types.VariableNumber,
		ImpactRules: []types.PricingImpactRule{
			{ID: "pension", ServiceID: types.ServiceSalary, Formula: types.FormulaLinear, Amount: 40},
		},
	}}
	form := baseForm()
	form.Employees = types.NumberOf(5)
	form.SelectedServices = []types.Service{types.ServiceSalary}

	// 1900 + 5×40
	assert.Equal(t, int64(2100), ComputeTotal(form, catalog.DefaultPricing(), variables, catalog.DefaultIndustries()))
}
