package settings

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pricing-estimator/core/catalog"
	"pricing-estimator/core/debounce"
	"pricing-estimator/core/session"
	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
	"pricing-estimator/internal/metrics"
)

type recorder struct {
	snapshots []types.Snapshot
}

func (r *recorder) Apply(s types.Snapshot) { r.snapshots = append(r.snapshots, s) }

type fixture struct {
	store *Store
	clock *debounce.ManualClock
	saves *recorder
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{clock: debounce.NewManualClock(), saves: &recorder{}}
	n := 0
	base := []Option{
		WithClock(f.clock),
		WithLogger(zap.NewNop()),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id%d", n) }),
	}
	f.store = NewStore(catalog.DefaultSnapshot(), append(base, opts...)...)
	f.store.Subscribe(f.saves)
	return f
}

func TestEditsCoalesceIntoOnePublish(t *testing.T) {
	f := newFixture(t)

	for _, rate := range []float64{2100, 2200, 2300} {
		require.NoError(t, f.store.UpdatePricing(func(p *types.PricingConfig) {
			p.Bookkeeping.BaseRate = rate
		}))
		f.clock.Advance(200 * time.Millisecond)
	}
	assert.Empty(t, f.saves.snapshots)
	assert.True(t, f.store.Dirty())

	f.clock.Advance(DefaultDelay)
	require.Len(t, f.saves.snapshots, 1)

	published := f.saves.snapshots[0]
	assert.Equal(t, 2, published.Version)
	assert.Equal(t, 2300.0, published.Pricing.Bookkeeping.BaseRate)
	assert.False(t, f.store.Dirty())
	assert.Equal(t, published, f.store.Published())
}

func TestNoOpEditDoesNotMarkDirty(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.UpdatePricing(func(p *types.PricingConfig) {
		p.Bookkeeping.BaseRate = 2000
	}))
	assert.False(t, f.store.Dirty())
	assert.Equal(t, 0, f.clock.Pending())

	f.clock.Advance(time.Second)
	assert.Empty(t, f.saves.snapshots)
}

func TestRevertedEditCancelsPublish(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	f := newFixture(t, WithMetrics(m))

	require.NoError(t, f.store.AddPremiumFeature("Quarterly review"))
	assert.True(t, f.store.Dirty())

	features := f.store.Working().Pricing.Premium.Features
	require.NoError(t, f.store.RemovePremiumFeature(len(features)-1))
	assert.False(t, f.store.Dirty())

	f.clock.Advance(time.Second)
	assert.Empty(t, f.saves.snapshots)
}

func TestSectionsDebounceIndependently(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.UpdatePricing(func(p *types.PricingConfig) { p.Premium.MonthlyPrice = 6000 }))
	f.clock.Advance(300 * time.Millisecond)
	_, err := f.store.AddVariable()
	require.NoError(t, err)
	assert.Equal(t, []Section{SectionPricing, SectionVariables}, f.store.DirtySections())

	f.clock.Advance(200 * time.Millisecond)
	require.Len(t, f.saves.snapshots, 1)
	assert.Equal(t, 6000.0, f.saves.snapshots[0].Pricing.Premium.MonthlyPrice)
	assert.Empty(t, f.saves.snapshots[0].Variables)

	f.clock.Advance(300 * time.Millisecond)
	require.Len(t, f.saves.snapshots, 2)
	second := f.saves.snapshots[1]
	assert.Equal(t, 3, second.Version)
	assert.Equal(t, 6000.0, second.Pricing.Premium.MonthlyPrice)
	require.Len(t, second.Variables, 1)
}

func TestPublishedSnapshotsAreNotMutatedByLaterEdits(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.AddRevenueTier(types.RevenueTier{MaxRevenue: types.Unbounded(), Price: 20000}))
	f.store.Flush()
	require.Len(t, f.saves.snapshots, 1)
	first := f.saves.snapshots[0]
	tiers := len(first.Pricing.AnnualReports.Tiers)

	require.NoError(t, f.store.UpdateRevenueTier(0, func(tier *types.RevenueTier) { tier.Price = 1 }))
	require.NoError(t, f.store.RemoveRevenueTier(1))
	f.store.Flush()

	assert.Len(t, first.Pricing.AnnualReports.Tiers, tiers)
	assert.NotEqual(t, 1.0, first.Pricing.AnnualReports.Tiers[0].Price)

	second := f.saves.snapshots[1]
	assert.Equal(t, 1.0, second.Pricing.AnnualReports.Tiers[0].Price)
	assert.Len(t, second.Pricing.AnnualReports.Tiers, tiers-1)
}

func TestRemoveKeepsOrder(t *testing.T) {
	f := newFixture(t)
	original := f.store.Working().Pricing.Premium.Features
	require.GreaterOrEqual(t, len(original), 3)

	require.NoError(t, f.store.RemovePremiumFeature(1))

	want := append([]string{original[0]}, original[2:]...)
	assert.Equal(t, want, f.store.Working().Pricing.Premium.Features)
}

func TestIndustryQuestions(t *testing.T) {
	f := newFixture(t)

	id, err := f.store.AddQuestion("tech")
	require.NoError(t, err)
	assert.Equal(t, "question-id1", id)

	require.NoError(t, f.store.UpdateQuestion("tech", id, func(q *types.IndustryQuestion) {
		q.Question = "Do you sell hardware?"
	}))

	tech := f.store.Working().Industries["tech"]
	q, ok := tech.Question(id)
	require.True(t, ok)
	assert.Equal(t, "Do you sell hardware?", q.Question)
	assert.Equal(t, types.Impact{Type: types.ImpactMultiplier, Value: NewQuestionImpact}, q.Impact)

	require.NoError(t, f.store.RemoveQuestion("tech", "has-investors"))
	require.NoError(t, f.store.UpdateIndustry("tech", func(c *types.IndustryConfig) { c.MaxMultiplier = 2 }))
	f.store.Flush()

	require.Len(t, f.saves.snapshots, 1)
	published := f.saves.snapshots[0].Industries["tech"]
	assert.Equal(t, 2.0, published.MaxMultiplier)
	ids := []string{}
	for _, q := range published.Questions {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"has-stock-options", id}, ids)
}

func TestVariablesAndRules(t *testing.T) {
	f := newFixture(t)

	first, err := f.store.AddVariable()
	require.NoError(t, err)
	second, err := f.store.AddVariable()
	require.NoError(t, err)

	vars := f.store.Working().Variables
	require.Len(t, vars, 2)
	assert.Equal(t, NewVariableName, vars[0].Name)
	assert.Equal(t, "new_variable", vars[0].Tag)
	assert.Equal(t, "new_variable_2", vars[1].Tag)

	rule, err := f.store.AddImpactRule(first)
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateImpactRule(first, rule, func(r *types.PricingImpactRule) {
		r.Amount = 150
	}))
	require.NoError(t, f.store.UpdateVariable(first, func(v *types.PricingVariable) { v.Tag = "offices" }))
	require.NoError(t, f.store.RemoveVariable(second))

	vars = f.store.Working().Variables
	require.Len(t, vars, 1)
	require.Len(t, vars[0].ImpactRules, 1)
	assert.Equal(t, types.PricingImpactRule{
		ID: rule, ServiceID: types.ServiceSalary, Formula: types.FormulaLinear, Amount: 150,
	}, vars[0].ImpactRules[0])

	require.NoError(t, f.store.RemoveImpactRule(first, rule))
	assert.Empty(t, f.store.Working().Variables[0].ImpactRules)
}

func TestUnknownTargetsReturnNotFound(t *testing.T) {
	f := newFixture(t)

	errs := []error{
		f.store.UpdateRevenueTier(99, func(*types.RevenueTier) {}),
		f.store.RemoveRevenueTier(-1),
		f.store.UpdatePremiumFeature(99, "x"),
		f.store.UpdateIndustry("mining", func(*types.IndustryConfig) {}),
		f.store.RemoveQuestion("tech", "nope"),
		f.store.UpdateVariable("nope", func(*types.PricingVariable) {}),
		f.store.RemoveImpactRule("nope", "nope"),
	}
	_, err := f.store.AddQuestion("mining")
	errs = append(errs, err)
	_, err = f.store.AddImpactRule("nope")
	errs = append(errs, err)

	for i, err := range errs {
		assert.True(t, errors.IsType(err, errors.TypeNotFound), "case %d: %v", i, err)
	}
	assert.False(t, f.store.Dirty())
}

func TestMissingPlanReturnsNotFound(t *testing.T) {
	snapshot := catalog.DefaultSnapshot()
	snapshot.Pricing.Premium = nil
	store := NewStore(snapshot, WithClock(debounce.NewManualClock()), WithLogger(zap.NewNop()))

	err := store.AddPremiumFeature("x")
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestCloseAsksBeforeDiscarding(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.AddPremiumFeature("Dedicated advisor"))

	asked := 0
	assert.False(t, f.store.Close(func() bool { asked++; return false }))
	assert.Equal(t, 1, asked)
	assert.True(t, f.store.Dirty())
	assert.False(t, f.store.Close(nil))

	assert.True(t, f.store.Close(func() bool { asked++; return true }))
	assert.Equal(t, 2, asked)
	assert.False(t, f.store.Dirty())
	assert.Equal(t, 0, f.clock.Pending())

	f.clock.Advance(time.Second)
	assert.Empty(t, f.saves.snapshots)

	err := f.store.AddPremiumFeature("again")
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestCloseWithoutEditsDoesNotAsk(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.store.Close(func() bool {
		t.Fatal("confirm called without pending edits")
		return false
	}))
}

func TestStructuralProblemsAreLoggedNotBlocking(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := newFixture(t, WithLogger(zap.New(core)))

	require.NoError(t, f.store.UpdateIndustry("tech", func(c *types.IndustryConfig) { c.MaxMultiplier = 0.5 }))
	f.store.Flush()

	require.Len(t, f.saves.snapshots, 1)
	assert.Equal(t, 1, logs.FilterMessage("published configuration has structural problems").Len())
}

func TestSessionFollowsPublishes(t *testing.T) {
	f := newFixture(t)
	calc := session.New(f.store.Published(), session.WithLogger(zap.NewNop()))
	f.store.Subscribe(calc)

	id, err := f.store.AddVariable()
	require.NoError(t, err)
	_, err = f.store.AddVariable()
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateVariable(id, func(v *types.PricingVariable) { v.Tag = "offices" }))
	f.clock.Advance(DefaultDelay)

	calc.SetFormData(session.FormUpdate{Variables: map[string]types.VariableValue{"offices": types.NumberValue(3)}})

	// drop the other variable, then add a new one
	vars := f.store.Working().Variables
	require.NoError(t, f.store.RemoveVariable(vars[1].ID))
	f.clock.Advance(DefaultDelay)
	_, err = f.store.AddVariable()
	require.NoError(t, err)
	f.clock.Advance(DefaultDelay)

	state := calc.State()
	assert.Equal(t, types.NumberValue(3), state.FormData.Variables["offices"])
	assert.Equal(t, types.NumberValue(0), state.FormData.Variables["new_variable"])

	require.NoError(t, f.store.UpdatePricing(func(p *types.PricingConfig) { p.Bookkeeping.BaseRate = 1000 }))
	f.clock.Advance(DefaultDelay)
	assert.Equal(t, int64(2200), calc.State().Total)
}

func TestNonFinitePricePublishesWithoutBreakingSession(t *testing.T) {
	f := newFixture(t)
	calc := session.New(f.store.Published(), session.WithLogger(zap.NewNop()))
	f.store.Subscribe(calc)

	require.NoError(t, f.store.UpdatePricing(func(p *types.PricingConfig) { p.Bookkeeping.BaseRate = math.NaN() }))
	require.NotPanics(t, f.store.Flush)
	require.Len(t, f.saves.snapshots, 1)

	// the base rate prices as zero, leaving 100 × 12 per transaction
	assert.Equal(t, int64(1200), calc.State().Total)
	state := calc.SetFormData(session.FormUpdate{Transactions: session.Set(types.NumberOf(50))})
	assert.Equal(t, int64(600), state.Total)
}
