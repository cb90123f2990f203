// Package settings - Editing operations
package settings

import (
	"fmt"
	"strconv"

	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
)

// Defaults for newly added entries
const (
	NewVariableName    = "New Variable"
	NewVariableTag     = "new_variable"
	NewQuestionImpact  = 1.1
	DefaultRuleFormula = types.FormulaLinear
)

// UpdatePricing edits the pricing configuration in place on a copy
func (s *Store) UpdatePricing(fn func(*types.PricingConfig)) error {
	return s.edit(SectionPricing, func(next *types.Snapshot) error {
		if next.Pricing == nil {
			next.Pricing = &types.PricingConfig{}
		}
		fn(next.Pricing)
		return nil
	})
}

// AddRevenueTier appends a tier to the annual reports plan
func (s *Store) AddRevenueTier(tier types.RevenueTier) error {
	return s.editAnnualReports(func(plan *types.AnnualReportsPlan) error {
		plan.Tiers = append(plan.Tiers, tier)
		return nil
	})
}

// UpdateRevenueTier edits the tier at index
func (s *Store) UpdateRevenueTier(index int, fn func(*types.RevenueTier)) error {
	return s.editAnnualReports(func(plan *types.AnnualReportsPlan) error {
		if index < 0 || index >= len(plan.Tiers) {
			return errors.NotFound("revenue tier", strconv.Itoa(index))
		}
		fn(&plan.Tiers[index])
		return nil
	})
}

// RemoveRevenueTier drops the tier at index; the rest keep their order
func (s *Store) RemoveRevenueTier(index int) error {
	return s.editAnnualReports(func(plan *types.AnnualReportsPlan) error {
		if index < 0 || index >= len(plan.Tiers) {
			return errors.NotFound("revenue tier", strconv.Itoa(index))
		}
		plan.Tiers = removeAt(plan.Tiers, index)
		return nil
	})
}

func (s *Store) editAnnualReports(fn func(*types.AnnualReportsPlan) error) error {
	return s.edit(SectionPricing, func(next *types.Snapshot) error {
		if next.Pricing == nil || next.Pricing.AnnualReports == nil {
			return errors.NotFound("plan", string(types.ServiceAnnualReports))
		}
		return fn(next.Pricing.AnnualReports)
	})
}

// AddPremiumFeature appends a feature line to the premium plan
func (s *Store) AddPremiumFeature(feature string) error {
	return s.editPremium(func(plan *types.PremiumPlan) error {
		plan.Features = append(plan.Features, feature)
		return nil
	})
}

// UpdatePremiumFeature replaces the feature at index
func (s *Store) UpdatePremiumFeature(index int, feature string) error {
	return s.editPremium(func(plan *types.PremiumPlan) error {
		if index < 0 || index >= len(plan.Features) {
			return errors.NotFound("premium feature", strconv.Itoa(index))
		}
		plan.Features[index] = feature
		return nil
	})
}

// RemovePremiumFeature drops the feature at index
func (s *Store) RemovePremiumFeature(index int) error {
	return s.editPremium(func(plan *types.PremiumPlan) error {
		if index < 0 || index >= len(plan.Features) {
			return errors.NotFound("premium feature", strconv.Itoa(index))
		}
		plan.Features = removeAt(plan.Features, index)
		return nil
	})
}

func (s *Store) editPremium(fn func(*types.PremiumPlan) error) error {
	return s.edit(SectionPricing, func(next *types.Snapshot) error {
		if next.Pricing == nil || next.Pricing.Premium == nil {
			return errors.NotFound("plan", "premium")
		}
		return fn(next.Pricing.Premium)
	})
}

// UpdateIndustry edits one industry's settings
func (s *Store) UpdateIndustry(key string, fn func(*types.IndustryConfig)) error {
	return s.editIndustry(key, func(cfg *types.IndustryConfig) error {
		fn(cfg)
		return nil
	})
}

// AddQuestion appends a blank question to an industry and returns its id
func (s *Store) AddQuestion(key string) (string, error) {
	id := "question-" + s.newID()
	err := s.editIndustry(key, func(cfg *types.IndustryConfig) error {
		cfg.Questions = append(cfg.Questions, types.IndustryQuestion{
			ID:     id,
			Impact: types.Impact{Type: types.ImpactMultiplier, Value: NewQuestionImpact},
		})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateQuestion edits one question of an industry
func (s *Store) UpdateQuestion(key, id string, fn func(*types.IndustryQuestion)) error {
	return s.editIndustry(key, func(cfg *types.IndustryConfig) error {
		for i := range cfg.Questions {
			if cfg.Questions[i].ID == id {
				fn(&cfg.Questions[i])
				return nil
			}
		}
		return errors.NotFound("question", id).WithContext("industry", key)
	})
}

// RemoveQuestion drops a question by id
func (s *Store) RemoveQuestion(key, id string) error {
	return s.editIndustry(key, func(cfg *types.IndustryConfig) error {
		for i := range cfg.Questions {
			if cfg.Questions[i].ID == id {
				cfg.Questions = removeAt(cfg.Questions, i)
				return nil
			}
		}
		return errors.NotFound("question", id).WithContext("industry", key)
	})
}

func (s *Store) editIndustry(key string, fn func(*types.IndustryConfig) error) error {
	return s.edit(SectionIndustries, func(next *types.Snapshot) error {
		cfg, ok := next.Industries[key]
		if !ok {
			return errors.NotFound("industry", key)
		}
		if err := fn(&cfg); err != nil {
			return err
		}
		next.Industries[key] = cfg
		return nil
	})
}

// AddVariable appends a number variable with a free tag and returns its id
func (s *Store) AddVariable() (string, error) {
	id := "var-" + s.newID()
	err := s.edit(SectionVariables, func(next *types.Snapshot) error {
		next.Variables = append(next.Variables, types.PricingVariable{
			ID:   id,
			Name: NewVariableName,
			Type: types.VariableNumber,
			Tag:  freeTag(next.Variables),
		})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateVariable edits a variable by id
func (s *Store) UpdateVariable(id string, fn func(*types.PricingVariable)) error {
	return s.editVariable(id, func(v *types.PricingVariable) error {
		fn(v)
		return nil
	})
}

// RemoveVariable drops a variable by id
func (s *Store) RemoveVariable(id string) error {
	return s.edit(SectionVariables, func(next *types.Snapshot) error {
		for i := range next.Variables {
			if next.Variables[i].ID == id {
				next.Variables = removeAt(next.Variables, i)
				return nil
			}
		}
		return errors.NotFound("variable", id)
	})
}

// AddImpactRule appends a zero linear rule on the first service and returns
// its id
func (s *Store) AddImpactRule(variableID string) (string, error) {
	id := "rule-" + s.newID()
	err := s.editVariable(variableID, func(v *types.PricingVariable) error {
		v.ImpactRules = append(v.ImpactRules, types.PricingImpactRule{
			ID:        id,
			ServiceID: types.Services[0],
			Formula:   DefaultRuleFormula,
		})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateImpactRule edits one rule of a variable
func (s *Store) UpdateImpactRule(variableID, ruleID string, fn func(*types.PricingImpactRule)) error {
	return s.editVariable(variableID, func(v *types.PricingVariable) error {
		for i := range v.ImpactRules {
			if v.ImpactRules[i].ID == ruleID {
				fn(&v.ImpactRules[i])
				return nil
			}
		}
		return errors.NotFound("impact rule", ruleID).WithContext("variable", variableID)
	})
}

// RemoveImpactRule drops one rule of a variable
func (s *Store) RemoveImpactRule(variableID, ruleID string) error {
	return s.editVariable(variableID, func(v *types.PricingVariable) error {
		for i := range v.ImpactRules {
			if v.ImpactRules[i].ID == ruleID {
				v.ImpactRules = removeAt(v.ImpactRules, i)
				return nil
			}
		}
		return errors.NotFound("impact rule", ruleID).WithContext("variable", variableID)
	})
}

func (s *Store) editVariable(id string, fn func(*types.PricingVariable) error) error {
	return s.edit(SectionVariables, func(next *types.Snapshot) error {
		for i := range next.Variables {
			if next.Variables[i].ID == id {
				return fn(&next.Variables[i])
			}
		}
		return errors.NotFound("variable", id)
	})
}

// freeTag picks the first unused tag of the form new_variable, new_variable_2, ...
func freeTag(variables []types.PricingVariable) string {
	used := make(map[string]bool, len(variables))
	for _, v := range variables {
		used[v.Tag] = true
	}
	tag := NewVariableTag
	for n := 2; used[tag]; n++ {
		tag = fmt.Sprintf("%s_%d", NewVariableTag, n)
	}
	return tag
}

// removeAt returns a new slice without element i. An emptied slice is nil
// so that it hashes like a list that was never filled.
func removeAt[T any](items []T, i int) []T {
	if len(items) == 1 {
		return nil
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
