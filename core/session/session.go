// Package session owns the live calculator form. Every update is merged,
// validated and repriced synchronously, and subscribers see the result.
package session

import (
	"sync"

	"go.uber.org/zap"

	"pricing-estimator/core/catalog"
	"pricing-estimator/core/debounce"
	"pricing-estimator/core/pricing"
	"pricing-estimator/core/types"
	"pricing-estimator/core/validation"
	"pricing-estimator/internal/logging"
	"pricing-estimator/internal/metrics"
)

// Form defaults for a new session
const (
	DefaultEmployees    = 1
	DefaultRevenue      = 1
	DefaultTransactions = 100
)

// State is what the presentation layer displays
type State struct {
	FormData types.CalculatorFormData `json:"formData"`

	// Error is the validation message, nil when the form is valid
	Error *string `json:"error"`

	// Total is 0 whenever Error is set
	Total int64 `json:"total"`

	Breakdown pricing.Breakdown `json:"breakdown"`
}

// FormUpdate is a partial form. Nil fields are left unchanged.
type FormUpdate struct {
	Employees        *types.Number
	Revenue          *types.Number
	Transactions     *types.Number
	Industry         *string
	IndustryOptions  map[string]bool
	SelectedServices *[]types.Service
	IsPremium        *bool
	Variables        map[string]types.VariableValue
}

// Option configures a session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics sets the counters for recomputes and field outcomes
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithFieldOptions sets defaults for fields built by NumberField and
// VariableField
func WithFieldOptions(opts ...debounce.Option) Option {
	return func(s *Session) { s.fieldOpts = append(s.fieldOpts, opts...) }
}

// Session is the single writer of the calculator form
type Session struct {
	mu          sync.Mutex
	snapshot    types.Snapshot
	form        types.CalculatorFormData
	state       State
	subscribers map[int]func(State)
	nextSubID   int

	logger    *zap.Logger
	metrics   *metrics.Metrics
	fieldOpts []debounce.Option
}

// New starts a session on the default form, priced against snapshot
func New(snapshot types.Snapshot, opts ...Option) *Session {
	s := &Session{
		snapshot:    snapshot.Clone(),
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Named("session")
	}

	s.form = defaultForm(s.snapshot)
	s.recomputeLocked()
	return s
}

func defaultForm(snapshot types.Snapshot) types.CalculatorFormData {
	form := types.CalculatorFormData{
		Employees:        types.NumberOf(DefaultEmployees),
		Revenue:          types.NumberOf(DefaultRevenue),
		Transactions:     types.NumberOf(DefaultTransactions),
		Industry:         catalog.DefaultIndustry,
		IndustryOptions:  map[string]bool{},
		SelectedServices: []types.Service{types.ServiceBookkeeping},
		Variables:        map[string]types.VariableValue{},
	}
	if industry, ok := snapshot.Industries[form.Industry]; ok {
		form.IndustryOptions = industry.BlankOptions()
	}
	addMissingVariables(&form, snapshot.Variables)
	return form
}

// SetFormData merges update into the form and recomputes
func (s *Session) SetFormData(update FormUpdate) State {
	state, subs := s.update(func() {
		form := s.form.Clone()
		s.merge(&form, update)
		s.form = form
	})
	notify(subs, state)
	return state
}

// update runs fn and a recompute under the lock and returns what to
// publish. Subscribers are called by the caller, outside the lock.
func (s *Session) update(fn func()) (State, []func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn()
	s.recomputeLocked()
	return s.publishLocked()
}

func (s *Session) merge(form *types.CalculatorFormData, u FormUpdate) {
	if u.Employees != nil {
		form.Employees = *u.Employees
	}
	if u.Revenue != nil {
		form.Revenue = *u.Revenue
	}
	if u.Transactions != nil {
		form.Transactions = *u.Transactions
	}
	if u.SelectedServices != nil {
		form.SelectedServices = dedupeServices(*u.SelectedServices)
	}
	if u.IsPremium != nil {
		form.IsPremium = *u.IsPremium
	}
	for tag, value := range u.Variables {
		form.Variables[tag] = value
	}

	// An industry change replaces every answer, including any sent with it.
	if u.Industry != nil && *u.Industry != form.Industry {
		form.Industry = *u.Industry
		form.IndustryOptions = map[string]bool{}
		if industry, ok := s.snapshot.Industries[form.Industry]; ok {
			form.IndustryOptions = industry.BlankOptions()
		} else {
			s.logger.Debug("unknown industry selected", zap.String("industry", form.Industry))
		}
		return
	}

	industry := s.snapshot.Industries[form.Industry]
	for id, answer := range u.IndustryOptions {
		if _, ok := industry.Question(id); !ok {
			s.logger.Debug("ignoring answer to unknown question",
				zap.String("industry", form.Industry), zap.String("question", id))
			continue
		}
		form.IndustryOptions[id] = answer
	}
}

// Apply adopts a newly published configuration snapshot. Variable fields
// that are still defined keep their values; new ones start at their type's
// default.
func (s *Session) Apply(snapshot types.Snapshot) {
	state, subs := s.update(func() {
		s.snapshot = snapshot.Clone()

		form := s.form.Clone()
		addMissingVariables(&form, s.snapshot.Variables)

		options := map[string]bool{}
		if industry, ok := s.snapshot.Industries[form.Industry]; ok {
			for _, q := range industry.Questions {
				options[q.ID] = form.IndustryOptions[q.ID]
			}
		}
		form.IndustryOptions = options

		s.form = form
	})

	s.logger.Debug("applied configuration snapshot", zap.Int("version", snapshot.Version))
	notify(subs, state)
}

// State returns a copy of the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// Snapshot returns the configuration the session prices against
func (s *Session) Snapshot() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// Subscribe registers fn to receive every recomputed state. The returned
// function unsubscribes.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Session) recomputeLocked() {
	result := validation.Validate(s.form)
	s.metrics.Recomputed(result.IsValid)

	state := State{FormData: s.form}
	if !result.IsValid {
		state.Error = result.Errors
	} else {
		state.Breakdown = pricing.Estimate(s.form, s.snapshot)
		state.Total = state.Breakdown.Total
	}
	s.state = state
}

func (s *Session) publishLocked() (State, []func(State)) {
	subs := make([]func(State), 0, len(s.subscribers))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	return copyState(s.state), subs
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(copyState(state))
	}
}

func copyState(st State) State {
	out := st
	out.FormData = st.FormData.Clone()
	if st.Error != nil {
		msg := *st.Error
		out.Error = &msg
	}
	out.Breakdown.Lines = append([]pricing.Line(nil), st.Breakdown.Lines...)
	return out
}

func addMissingVariables(form *types.CalculatorFormData, variables []types.PricingVariable) {
	for _, v := range variables {
		if v.Tag == "" {
			continue
		}
		if _, ok := form.Variables[v.Tag]; !ok {
			form.Variables[v.Tag] = types.DefaultValueFor(v.Type)
		}
	}
}

func dedupeServices(services []types.Service) []types.Service {
	seen := make(map[types.Service]bool, len(services))
	out := make([]types.Service, 0, len(services))
	for _, svc := range services {
		if seen[svc] {
			continue
		}
		seen[svc] = true
		out = append(out, svc)
	}
	return out
}
