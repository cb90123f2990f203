package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pricing-estimator/core/catalog"
	"pricing-estimator/core/debounce"
	"pricing-estimator/core/output"
	"pricing-estimator/core/session"
	"pricing-estimator/core/settings"
	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
	"pricing-estimator/internal/metrics"
)

func snapshotWithOffices() types.Snapshot {
	snapshot := catalog.DefaultSnapshot()
	snapshot.Variables = []types.PricingVariable{{
		ID:   "offices",
		Name: "Offices",
		Type: types.VariableNumber,
		Tag:  "office_count",
		ImpactRules: []types.PricingImpactRule{
			{ID: "r1", ServiceID: types.ServiceBookkeeping, Formula: types.FormulaLinear, Amount: 100},
		},
	}}
	return snapshot
}

func TestEstimateOptions(t *testing.T) {
	employees := 5.0
	industry := "tech"
	s := session.New(catalog.DefaultSnapshot(), session.WithLogger(zap.NewNop()))

	err := estimateOptions{
		employees: &employees,
		industry:  &industry,
		services:  []string{"salary", "bookkeeping"},
		answers:   []string{"has-investors"},
	}.apply(s)
	require.NoError(t, err)

	state := s.State()
	assert.Equal(t, types.NumberOf(5), state.FormData.Employees)
	assert.True(t, state.FormData.IndustryOptions["has-investors"], "answers survive the industry change")
	// (1900 + 3200) × 1.2 × 1.15
	assert.Equal(t, int64(7038), state.Total)
}

func TestEstimateOptionsVariables(t *testing.T) {
	s := session.New(snapshotWithOffices(), session.WithLogger(zap.NewNop()))
	require.NoError(t, estimateOptions{variables: []string{"office_count=3"}}.apply(s))
	assert.Equal(t, int64(3500), s.State().Total)
}

func TestEstimateOptionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		opts    estimateOptions
		errType errors.Type
	}{
		{name: "unknown service", opts: estimateOptions{services: []string{"audit"}}, errType: errors.TypeInput},
		{name: "malformed variable", opts: estimateOptions{variables: []string{"office_count"}}, errType: errors.TypeInput},
		{name: "unknown variable", opts: estimateOptions{variables: []string{"desks=2"}}, errType: errors.TypeNotFound},
		{name: "bad number", opts: estimateOptions{variables: []string{"office_count=many"}}, errType: errors.TypeParsing},
		{name: "unknown question", opts: estimateOptions{answers: []string{"has-investors"}}, errType: errors.TypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New(snapshotWithOffices(), session.WithLogger(zap.NewNop()))
			err := tt.opts.apply(s)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
		})
	}
}

type consoleFixture struct {
	console *console
	clock   *debounce.ManualClock
	out     *bytes.Buffer
}

func newConsoleFixture(t *testing.T) *consoleFixture {
	t.Helper()
	clock := debounce.NewManualClock()
	snapshot := snapshotWithOffices()
	m := metrics.New(nil)

	s := session.New(snapshot,
		session.WithLogger(zap.NewNop()),
		session.WithMetrics(m),
		session.WithFieldOptions(debounce.WithClock(clock), debounce.WithLogger(zap.NewNop())))
	store := settings.NewStore(snapshot,
		settings.WithClock(clock),
		settings.WithLogger(zap.NewNop()),
		settings.WithMetrics(m))
	money, err := output.NewCurrencyFormatter("en-US", types.CurrencyUSD, output.WithSymbol("$"))
	require.NoError(t, err)

	var buf bytes.Buffer
	return &consoleFixture{
		console: newConsole(&buf, s, store, money, m, true),
		clock:   clock,
		out:     &buf,
	}
}

func (f *consoleFixture) exec(t *testing.T, line string) {
	t.Helper()
	_, err := f.console.exec(line)
	require.NoError(t, err)
}

func TestConsoleDebouncesNumberFields(t *testing.T) {
	f := newConsoleFixture(t)

	f.exec(t, "employees=5")
	f.exec(t, "employees=50")
	assert.Empty(t, f.out.String())

	f.clock.Advance(299 * time.Millisecond)
	assert.Empty(t, f.out.String())
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, "total: $3,200\n", f.out.String())
	assert.Equal(t, types.NumberOf(50), f.console.session.State().FormData.Employees)

	f.out.Reset()
	f.exec(t, "service+=salary")
	// salary 650 + 50 × 250, plus bookkeeping 3200
	assert.Equal(t, "total: $16,350\n", f.out.String())
}

func TestConsoleImmediateFields(t *testing.T) {
	f := newConsoleFixture(t)

	f.exec(t, "premium=true")
	f.exec(t, "industry=tech")
	f.exec(t, "answer.has-investors=true")
	f.exec(t, "service-=bookkeeping")

	assert.Equal(t, []string{"total: $8,200", "total: $8,840", "total: $9,416", "total: $5,000"},
		strings.Split(strings.TrimSpace(f.out.String()), "\n"))
}

func TestConsoleValidationMessages(t *testing.T) {
	f := newConsoleFixture(t)
	f.exec(t, "transactions=")
	f.exec(t, "flush")
	assert.Contains(t, f.out.String(), "⚠ ")
	assert.NotContains(t, f.out.String(), "total:")
}

func TestConsolePriceEditsPublishAfterQuietPeriod(t *testing.T) {
	f := newConsoleFixture(t)

	f.exec(t, "premium=true")
	f.out.Reset()
	f.exec(t, "set.premium.monthly_price=6000")
	f.clock.Advance(499 * time.Millisecond)
	assert.Empty(t, f.out.String())

	f.clock.Advance(time.Millisecond)
	assert.Equal(t, "total: $9,200\nℹ prices updated (version 2)\n", f.out.String())
}

func TestConsoleVariableField(t *testing.T) {
	f := newConsoleFixture(t)
	f.exec(t, "var.office_count=2")
	f.exec(t, "flush")
	assert.Equal(t, "total: $3,400\n", f.out.String())
}

func TestConsoleErrors(t *testing.T) {
	tests := []struct {
		line    string
		errType errors.Type
	}{
		{line: "dance", errType: errors.TypeInput},
		{line: "colour=blue", errType: errors.TypeInput},
		{line: "industry=space", errType: errors.TypeNotFound},
		{line: "premium=perhaps", errType: errors.TypeParsing},
		{line: "service+=audit", errType: errors.TypeInput},
		{line: "set.vat_rate=25", errType: errors.TypeNotFound},
		{line: "set.premium.monthly_price=lots", errType: errors.TypeParsing},
		{line: "set.premium.monthly_price=nan", errType: errors.TypeParsing},
		{line: "set.premium.monthly_price=-inf", errType: errors.TypeParsing},
		{line: "set.premium.monthly_price=", errType: errors.TypeInput},
		{line: "var.desks=1", errType: errors.TypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := newConsoleFixture(t).console.exec(tt.line)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
		})
	}
}

func TestConsoleRunFlushesOnEOF(t *testing.T) {
	f := newConsoleFixture(t)

	input := strings.NewReader("# quote for a small firm\nemployees=5\nservice+=salary\nbogus\n")
	require.NoError(t, f.console.Run(input))

	out := f.out.String()
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "✗ ")
	assert.Contains(t, out, "Monthly total: $5,100")
	assert.Contains(t, out, "Session metrics")
	assert.Contains(t, out, "field=employees,outcome=committed")
	assert.Equal(t, types.NumberOf(5), f.console.session.State().FormData.Employees)
}

func TestConsoleQuitStopsReading(t *testing.T) {
	f := newConsoleFixture(t)
	require.NoError(t, f.console.Run(strings.NewReader("quit\npremium=true\n")))
	assert.False(t, f.console.session.State().FormData.IsPremium)
}
