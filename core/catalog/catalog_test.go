package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricing-estimator/core/types"
)

func TestDefaultSnapshotIsValid(t *testing.T) {
	errs := Validate(DefaultSnapshot(), DefaultValidationRules())
	assert.Empty(t, errs)
}

func TestDefaultIndustriesCoverEveryKey(t *testing.T) {
	industries := DefaultIndustries()

	for _, key := range []string{
		"consulting", "tech", "ecommerce", "retail", "restaurant", "construction",
		"realestate", "transportation", "healthcare", "financial", "creative", "farming",
	} {
		cfg, ok := industries[key]
		require.True(t, ok, "missing industry %s", key)
		assert.LessOrEqual(t, cfg.BaseMultiplier, cfg.MaxMultiplier, key)
		assert.Len(t, cfg.Questions, 2, key)
	}

	_, ok := industries[DefaultIndustry]
	assert.True(t, ok)
}

func TestDefaultsAreFreshCopies(t *testing.T) {
	a := DefaultPricing()
	a.Salary.BaseRate = 0

	assert.Equal(t, 650.0, DefaultPricing().Salary.BaseRate)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	snapshot := DefaultSnapshot()
	snapshot.Pricing.AnnualReports.Tiers = []types.RevenueTier{{MaxRevenue: types.Limit(5)}}
	snapshot.Industries["tech"] = types.IndustryConfig{BaseMultiplier: 2, MaxMultiplier: 1}
	snapshot.Variables = []types.PricingVariable{
		{ID: "a", Tag: "offices", Type: types.VariableNumber},
		{ID: "b", Tag: "offices", Type: types.VariableNumber, ImpactRules: []types.PricingImpactRule{
			{ID: "r", ServiceID: "payroll", Formula: types.FormulaLinear},
		}},
	}

	errs := Validate(snapshot, DefaultValidationRules())

	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "pricing")
	assert.Contains(t, errs[1].Error(), "industry tech")
	assert.Contains(t, errs[2].Error(), "already used by a")
	assert.Contains(t, errs[3].Error(), "unknown service")
}
