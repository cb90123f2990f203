// Package catalog - Built-in industry table
package catalog

import (
	"pricing-estimator/core/types"
)

// DefaultIndustries returns the built-in industry table
func DefaultIndustries() types.IndustryTable {
	return types.IndustryTable{
		"farming": {
			Label:          "Farming / Agriculture",
			Description:    "Unique VAT schemes, seasonal fluctuations, grants/subsidies",
			BaseMultiplier: 1.5,
			MaxMultiplier:  2.0,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("receives-subsidies", "Do you receive government grants?", "Affects subsidy accounting complexity", 1.15),
				multiplierQuestion("direct-sales", "Do you sell products directly to consumers?", "Affects VAT handling complexity", 1.2),
			},
		},
		"consulting": {
			Label:          "Consulting / Freelancers",
			Description:    "Low transaction volume, simple VAT, few employees",
			BaseMultiplier: 1.0,
			MaxMultiplier:  1.2,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("fixed-price-contracts", "Do you work with fixed-price contracts?", "Affects revenue recognition and project accounting", 1.1),
				multiplierQuestion("international-clients", "Do you have international clients?", "Affects VAT handling and currency considerations", 1.15),
			},
		},
		"tech": {
			Label:          "Tech / SaaS",
			Description:    "Subscription revenue, investor reporting, reverse VAT",
			BaseMultiplier: 1.2,
			MaxMultiplier:  1.5,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("has-stock-options", "Do you offer stock options to employees?", "Affects equity compensation accounting", 1.2),
				multiplierQuestion("has-investors", "Do you have external investors?", "Affects reporting requirements and complexity", 1.15),
			},
		},
		"ecommerce": {
			Label:          "E-commerce",
			Description:    "Online sales, inventory management, multiple payment methods",
			BaseMultiplier: 1.3,
			MaxMultiplier:  1.8,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("sells-internationally", "Do you sell to customers outside Norway?", "Affects international VAT and customs handling", 1.25),
				multiplierQuestion("multiple-payment-providers", "Do you use multiple payment providers?", "Affects payment reconciliation complexity", 1.15),
			},
		},
		"retail": {
			Label:          "Retail",
			Description:    "Physical stores, inventory, POS systems",
			BaseMultiplier: 1.2,
			MaxMultiplier:  1.6,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("sells-lottery-tobacco", "Do you sell lottery tickets or tobacco products?", "Affects special reporting requirements", 1.2),
				multiplierQuestion("has-loyalty-program", "Do you have a customer loyalty program?", "Affects revenue recognition and customer tracking", 1.15),
			},
		},
		"restaurant": {
			Label:          "Restaurant / Food Service",
			Description:    "Food service, employee tips, alcohol licensing",
			BaseMultiplier: 1.4,
			MaxMultiplier:  1.9,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("serves-alcohol", "Do you serve alcoholic beverages?", "Affects licensing and inventory requirements", 1.2),
				multiplierQuestion("distributes-tips", "Do you handle tip distribution to employees?", "Affects payroll and tax reporting", 1.15),
			},
		},
		"construction": {
			Label:          "Construction",
			Description:    "Project accounting, subcontractors, progress billing",
			BaseMultiplier: 1.3,
			MaxMultiplier:  1.7,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("has-subcontractors", "Do you work with subcontractors?", "Affects contractor management and reporting", 1.2),
				multiplierQuestion("multiple-projects", "Do you handle multiple projects simultaneously?", "Affects project accounting complexity", 1.15),
			},
		},
		"realestate": {
			Label:          "Real Estate",
			Description:    "Property management, tenant contracts, maintenance costs",
			BaseMultiplier: 1.2,
			MaxMultiplier:  1.5,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("mixed-property-types", "Do you manage different types of properties?", "Affects property management complexity", 1.15),
				multiplierQuestion("has-long-term-tenants", "Do you have long-term rental agreements?", "Affects contract management and billing", 1.1),
			},
		},
		"transportation": {
			Label:          "Transportation / Logistics",
			Description:    "Fleet management, route optimization, fuel costs",
			BaseMultiplier: 1.3,
			MaxMultiplier:  1.6,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("operates-fleet", "Do you operate your own vehicle fleet?", "Affects asset management and maintenance tracking", 1.2),
				multiplierQuestion("handles-international-freight", "Do you handle international freight?", "Affects customs and international regulations", 1.25),
			},
		},
		"healthcare": {
			Label:          "Healthcare",
			Description:    "Patient billing, insurance claims, compliance",
			BaseMultiplier: 1.4,
			MaxMultiplier:  1.8,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("has-insurance-settlements", "Do you handle insurance settlements?", "Affects billing and claims processing", 1.2),
				multiplierQuestion("multiple-specialties", "Do you offer multiple medical specialties?", "Affects service coding and billing complexity", 1.15),
			},
		},
		"financial": {
			Label:          "Financial Services",
			Description:    "Complex regulations, client funds, reporting requirements",
			BaseMultiplier: 1.5,
			MaxMultiplier:  2.0,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("has-finanstilsynet-reporting", "Are you subject to Finanstilsynet reporting?", "Affects regulatory compliance requirements", 1.3),
				multiplierQuestion("manages-client-funds", "Do you manage client funds?", "Affects trust accounting and compliance", 1.25),
			},
		},
		"creative": {
			Label:          "Creative / Agency",
			Description:    "Project billing, time tracking, client management",
			BaseMultiplier: 1.1,
			MaxMultiplier:  1.4,
			Questions: []types.IndustryQuestion{
				multiplierQuestion("has-retainer-clients", "Do you work with retainer clients?", "Affects recurring billing and contract management", 1.1),
				multiplierQuestion("works-internationally", "Do you work with international clients?", "Affects currency handling and VAT considerations", 1.15),
			},
		},
	}
}

func multiplierQuestion(id, question, description string, value float64) types.IndustryQuestion {
	return types.IndustryQuestion{
		ID:          id,
		Question:    question,
		Description: description,
		Impact:      types.Impact{Type: types.ImpactMultiplier, Value: value},
	}
}
