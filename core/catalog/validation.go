// Package catalog - Catalog validation
// Checks seed and edited configuration against structural invariants.
package catalog

import (
	"fmt"

	"pricing-estimator/core/determinism"
	"pricing-estimator/core/types"
)

// ValidationRule is a catalog validation rule
type ValidationRule func(types.Snapshot) []error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validatePricing,
		validateIndustries,
		validateVariables,
		validateRuleServices,
	}
}

// Validate checks a snapshot against validation rules and collects every
// problem instead of stopping at the first.
func Validate(snapshot types.Snapshot, rules []ValidationRule) []error {
	var errors []error
	for _, rule := range rules {
		errors = append(errors, rule(snapshot)...)
	}
	return errors
}

// validatePricing checks rates and tier ordering
func validatePricing(s types.Snapshot) []error {
	if err := s.Pricing.Validate(); err != nil {
		return []error{fmt.Errorf("pricing: %w", err)}
	}
	return nil
}

// validateIndustries checks every industry, in key order
func validateIndustries(s types.Snapshot) []error {
	var errors []error
	for _, key := range determinism.SortedKeys(s.Industries) {
		if err := s.Industries[key].Validate(); err != nil {
			errors = append(errors, fmt.Errorf("industry %s: %w", key, err))
		}
	}
	return errors
}

// validateVariables checks each variable and that tags are unique
func validateVariables(s types.Snapshot) []error {
	var errors []error
	tags := make(map[string]string, len(s.Variables))
	for _, v := range s.Variables {
		if err := v.Validate(); err != nil {
			errors = append(errors, fmt.Errorf("variable %s: %w", v.ID, err))
		}
		if owner, dup := tags[v.Tag]; dup && v.Tag != "" {
			errors = append(errors, fmt.Errorf("variable %s: tag %q already used by %s", v.ID, v.Tag, owner))
		}
		tags[v.Tag] = v.ID
	}
	return errors
}

// validateRuleServices ensures impact rules point at a known service
func validateRuleServices(s types.Snapshot) []error {
	var errors []error
	for _, v := range s.Variables {
		for _, r := range v.ImpactRules {
			if r.ServiceID != "" && !r.ServiceID.IsValid() {
				errors = append(errors, fmt.Errorf("variable %s: rule %s references unknown service %q", v.ID, r.ID, r.ServiceID))
			}
		}
	}
	return errors
}
