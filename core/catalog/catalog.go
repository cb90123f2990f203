// Package catalog - Built-in seed configuration
// Defines the default service plans, industry table, and variable list
// a session starts from when no seed file is given.
package catalog

import (
	"pricing-estimator/core/types"
)

// DefaultIndustry is the industry a new session starts with
const DefaultIndustry = "consulting"

// DefaultPricing returns the built-in service plans
func DefaultPricing() *types.PricingConfig {
	return &types.PricingConfig{
		Currency: types.CurrencyNOK,
		Salary: &types.SalaryPlan{
			Label:           "Salary & Payroll",
			Description:     "Monthly payroll processing and reporting",
			BaseRate:        650,
			PerEmployeeRate: 250,
			Driver: types.Driver{
				Type:        types.DriverEmployees,
				Label:       "Employees",
				Description: "Number of employees on payroll",
			},
		},
		Bookkeeping: &types.BookkeepingPlan{
			Label:              "Bookkeeping",
			Description:        "Daily transaction processing and reconciliation",
			BaseRate:           2000,
			PerTransactionRate: 12,
			Driver: types.Driver{
				Type:        types.DriverTransactions,
				Label:       "Transactions",
				Description: "Average monthly transactions",
			},
		},
		AnnualReports: &types.AnnualReportsPlan{
			Label:       "Annual Reports",
			Description: "Year-end reporting and tax returns",
			Tiers: []types.RevenueTier{
				{MaxRevenue: types.Limit(2), Price: 5000},
				{MaxRevenue: types.Limit(5), Price: 6000},
				{MaxRevenue: types.Limit(10), Price: 8000},
				{MaxRevenue: types.Limit(20), Price: 10000},
				{MaxRevenue: types.Limit(50), Price: 12000},
				{MaxRevenue: types.Unbounded(), Price: 15000},
			},
			Driver: types.Driver{
				Type:        types.DriverRevenue,
				Label:       "Annual Revenue",
				Description: "Annual revenue in million NOK",
			},
		},
		Premium: &types.PremiumPlan{
			Label:        "Silfer Premium",
			Description:  "Priority support and dedicated account manager",
			MonthlyPrice: 5000,
			Features: []string{
				"Priority Support 24/7",
				"Dedicated Account Manager",
				"Quarterly Business Review",
				"Custom Report Templates",
				"Advanced Analytics Dashboard",
			},
		},
	}
}

// DefaultVariables returns the built-in variable list.
// It is empty: the built-in drivers already price every service, and a
// variable bound to one of their tags would be counted twice.
func DefaultVariables() []types.PricingVariable {
	return []types.PricingVariable{}
}

// DefaultSnapshot bundles the seed data as version 1
func DefaultSnapshot() types.Snapshot {
	return types.Snapshot{
		Version:    1,
		Pricing:    DefaultPricing(),
		Industries: DefaultIndustries(),
		Variables:  DefaultVariables(),
	}
}
