// Package session - Debounced field bindings
package session

import (
	"pricing-estimator/core/debounce"
	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
)

// Set returns a pointer to v, for building a FormUpdate
func Set[T any](v T) *T {
	return &v
}

// NumberField binds a debounced input to one of the built-in numeric
// drivers. Range checks are left to the session so the user sees why a
// value is not priced.
func (s *Session) NumberField(driver types.DriverType, opts ...debounce.Option) (*debounce.Field[types.Number], error) {
	var current types.Number
	state := s.State()
	switch driver {
	case types.DriverEmployees:
		current = state.FormData.Employees
	case types.DriverRevenue:
		current = state.FormData.Revenue
	case types.DriverTransactions:
		current = state.FormData.Transactions
	default:
		return nil, errors.NotFound("driver", string(driver))
	}

	commit := func(n types.Number) {
		update := FormUpdate{}
		switch driver {
		case types.DriverEmployees:
			update.Employees = &n
		case types.DriverRevenue:
			update.Revenue = &n
		case types.DriverTransactions:
			update.Transactions = &n
		}
		s.SetFormData(update)
	}

	field := debounce.NewField(string(driver), debounce.ParseNumber, commit, s.options(opts)...)
	field.Format(debounce.FormatNumber).Sync(current)
	return field, nil
}

// VariableField binds a debounced input to the pricing variable with the
// given tag. Text variables take input as-is; the others parse numbers.
func (s *Session) VariableField(tag string, opts ...debounce.Option) (*debounce.Field[types.VariableValue], error) {
	snapshot := s.Snapshot()
	var variable *types.PricingVariable
	for i := range snapshot.Variables {
		if snapshot.Variables[i].Tag == tag {
			variable = &snapshot.Variables[i]
			break
		}
	}
	if variable == nil {
		return nil, errors.NotFound("variable", tag)
	}

	parse := func(text string) (types.VariableValue, error) {
		if variable.Type == types.VariableText {
			return types.TextValue(text), nil
		}
		n, err := debounce.ParseNumber(text)
		if err != nil {
			return types.VariableValue{}, err
		}
		return types.VariableValue{Number: n}, nil
	}
	commit := func(v types.VariableValue) {
		s.SetFormData(FormUpdate{Variables: map[string]types.VariableValue{tag: v}})
	}

	field := debounce.NewField("var."+tag, parse, commit, s.options(opts)...)
	field.Format(types.VariableValue.String)
	if current, ok := s.State().FormData.Variables[tag]; ok {
		field.Sync(current)
	}
	return field, nil
}

func (s *Session) options(extra []debounce.Option) []debounce.Option {
	opts := make([]debounce.Option, 0, len(s.fieldOpts)+len(extra)+1)
	opts = append(opts, debounce.WithMetrics(s.metrics))
	opts = append(opts, s.fieldOpts...)
	return append(opts, extra...)
}
