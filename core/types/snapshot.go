// Package types - Published configuration snapshot
package types

// Snapshot is an immutable published view of the whole configuration.
// Holders must not mutate it; editors clone first.
type Snapshot struct {
	// Version increases by one on every publish
	Version int `json:"version"`

	Pricing    *PricingConfig    `json:"pricing"`
	Industries IndustryTable     `json:"industries"`
	Variables  []PricingVariable `json:"variables"`
}

// Clone returns a deep copy
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Version:    s.Version,
		Pricing:    s.Pricing.Clone(),
		Industries: s.Industries.Clone(),
		Variables:  CloneVariables(s.Variables),
	}
}

// Validate runs every structural check
func (s Snapshot) Validate() error {
	if err := s.Pricing.Validate(); err != nil {
		return err
	}
	if err := s.Industries.Validate(); err != nil {
		return err
	}
	for _, v := range s.Variables {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
