// Package types - Industry configuration types
package types

import (
	"pricing-estimator/internal/errors"
)

// ImpactType is how an answered industry question affects price
type ImpactType string

const (
	ImpactMultiplier ImpactType = "multiplier"
	ImpactFixed      ImpactType = "fixed"
)

// Impact is the effect of a yes answer
type Impact struct {
	Type  ImpactType `json:"type"`
	Value float64    `json:"value"`
}

// IndustryQuestion is a yes/no question asked for an industry
type IndustryQuestion struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	Description string `json:"description,omitempty"`
	Impact      Impact `json:"impact"`
}

// IndustryConfig scales service costs for one industry
type IndustryConfig struct {
	Label          string             `json:"label"`
	Description    string             `json:"description"`
	BaseMultiplier float64            `json:"baseMultiplier"`
	MaxMultiplier  float64            `json:"maxMultiplier"`
	Questions      []IndustryQuestion `json:"questions"`
}

// IndustryTable maps an industry key to its configuration
type IndustryTable map[string]IndustryConfig

// Clone returns a deep copy
func (c IndustryConfig) Clone() IndustryConfig {
	c.Questions = append([]IndustryQuestion(nil), c.Questions...)
	return c
}

// Question finds a question by id
func (c IndustryConfig) Question(id string) (IndustryQuestion, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return IndustryQuestion{}, false
}

// BlankOptions returns an all-false answer map for the industry's questions
func (c IndustryConfig) BlankOptions() map[string]bool {
	options := make(map[string]bool, len(c.Questions))
	for _, q := range c.Questions {
		options[q.ID] = false
	}
	return options
}

// Validate checks the multiplier range and question ids
func (c IndustryConfig) Validate() error {
	if c.BaseMultiplier > c.MaxMultiplier {
		return errors.Validation("base multiplier %.2f exceeds max multiplier %.2f", c.BaseMultiplier, c.MaxMultiplier)
	}
	seen := make(map[string]bool, len(c.Questions))
	for _, q := range c.Questions {
		if q.ID == "" {
			return errors.Validation("industry question without id")
		}
		if seen[q.ID] {
			return errors.Validation("duplicate industry question id %q", q.ID)
		}
		seen[q.ID] = true
		if q.Impact.Type != ImpactMultiplier && q.Impact.Type != ImpactFixed {
			return errors.Validation("question %q has unknown impact type %q", q.ID, q.Impact.Type)
		}
	}
	return nil
}

// Clone returns a deep copy
func (t IndustryTable) Clone() IndustryTable {
	if t == nil {
		return nil
	}
	out := make(IndustryTable, len(t))
	for key, cfg := range t {
		out[key] = cfg.Clone()
	}
	return out
}

// Validate checks every industry
func (t IndustryTable) Validate() error {
	for key, cfg := range t {
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(errors.TypeValidation, "industry "+key, err)
		}
	}
	return nil
}
