// Package types - Calculator form snapshot
package types

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Number is a numeric form input that may be left blank
type Number struct {
	value float64
	set   bool
}

// NumberOf returns a filled-in number
func NumberOf(v float64) Number {
	return Number{value: v, set: true}
}

// Blank returns an empty number
func Blank() Number {
	return Number{}
}

// IsBlank reports whether the input is empty
func (n Number) IsBlank() bool {
	return !n.set
}

// Float64 returns the value and whether it is set
func (n Number) Float64() (float64, bool) {
	return n.value, n.set
}

// Or returns the value, or fallback when blank
func (n Number) Or(fallback float64) float64 {
	if !n.set {
		return fallback
	}
	return n.value
}

// String formats the number the way an input box shows it
func (n Number) String() string {
	if !n.set {
		return ""
	}
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}

// MarshalJSON encodes a blank number as null
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// UnmarshalJSON accepts a number or null
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NumberOf(v)
	return nil
}

// VariableValue is the value entered for a pricing variable
type VariableValue struct {
	Number Number `json:"number"`
	Text   string `json:"text,omitempty"`
	IsText bool   `json:"isText,omitempty"`
}

// NumberValue wraps a numeric variable value
func NumberValue(v float64) VariableValue {
	return VariableValue{Number: NumberOf(v)}
}

// TextValue wraps a text variable value
func TextValue(s string) VariableValue {
	return VariableValue{Text: s, IsText: true}
}

// DefaultValueFor is the value a new field of the given type starts at
func DefaultValueFor(t VariableType) VariableValue {
	if t == VariableText {
		return TextValue("")
	}
	return NumberValue(0)
}

// Numeric returns the value as a finite number. Text counts only if it
// parses.
func (v VariableValue) Numeric() (float64, bool) {
	f, ok := v.Number.Float64()
	if v.IsText {
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		ok = err == nil
	}
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String formats the value for display
func (v VariableValue) String() string {
	if v.IsText {
		return v.Text
	}
	return v.Number.String()
}

// CalculatorFormData is the live calculator snapshot
type CalculatorFormData struct {
	Employees    Number `json:"employees"`
	Revenue      Number `json:"revenue"`
	Transactions Number `json:"transactions"`

	// Industry is the selected industry key
	Industry string `json:"industry"`

	// IndustryOptions answers the selected industry's questions by id
	IndustryOptions map[string]bool `json:"industryOptions"`

	// SelectedServices is a set; order is irrelevant
	SelectedServices []Service `json:"selectedServices"`

	IsPremium bool `json:"isPremium"`

	// Variables holds one field per pricing variable, keyed by tag
	Variables map[string]VariableValue `json:"variables"`
}

// Clone returns a deep copy
func (f CalculatorFormData) Clone() CalculatorFormData {
	out := f
	out.IndustryOptions = make(map[string]bool, len(f.IndustryOptions))
	for k, v := range f.IndustryOptions {
		out.IndustryOptions[k] = v
	}
	out.SelectedServices = append([]Service(nil), f.SelectedServices...)
	out.Variables = make(map[string]VariableValue, len(f.Variables))
	for k, v := range f.Variables {
		out.Variables[k] = v
	}
	return out
}

// HasService reports whether s is selected
func (f CalculatorFormData) HasService(s Service) bool {
	for _, selected := range f.SelectedServices {
		if selected == s {
			return true
		}
	}
	return false
}

// HasField reports whether tag names a built-in driver or a variable field
func (f CalculatorFormData) HasField(tag string) bool {
	if isBuiltinTag(tag) {
		return true
	}
	_, ok := f.Variables[tag]
	return ok
}

// Value resolves a tag to a number: built-in drivers first, then variable
// fields. Blank or non-numeric values report false.
func (f CalculatorFormData) Value(tag string) (float64, bool) {
	switch DriverType(tag) {
	case DriverEmployees:
		return f.Employees.Float64()
	case DriverRevenue:
		return f.Revenue.Float64()
	case DriverTransactions:
		return f.Transactions.Float64()
	}
	v, ok := f.Variables[tag]
	if !ok {
		return 0, false
	}
	return v.Numeric()
}

// VariableTags returns the variable field tags in sorted order
func (f CalculatorFormData) VariableTags() []string {
	tags := make([]string, 0, len(f.Variables))
	for tag := range f.Variables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func isBuiltinTag(tag string) bool {
	switch DriverType(tag) {
	case DriverEmployees, DriverRevenue, DriverTransactions:
		return true
	}
	return false
}
