// Package debounce - Debounced input field
package debounce

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
	"pricing-estimator/internal/logging"
	"pricing-estimator/internal/metrics"
)

// DefaultFieldDelay is the quiet window for calculator inputs
const DefaultFieldDelay = 300 * time.Millisecond

// State of a field's commit pipeline
type State int

const (
	// Idle has no uncommitted edit
	Idle State = iota
	// Pending has an edit waiting for the quiet window to close
	Pending
	// Disposed ignores all further input
	Disposed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Disposed:
		return "disposed"
	}
	return "unknown"
}

// Parser turns raw input text into a value
type Parser[T any] func(text string) (T, error)

// Validator rejects parsed values that must not be committed
type Validator[T any] func(value T) error

// Formatter renders a committed value back into input text
type Formatter[T any] func(value T) string

// Option configures a field
type Option func(*fieldOptions)

type fieldOptions struct {
	clock   Clock
	delay   time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// WithClock sets the timer source
func WithClock(c Clock) Option {
	return func(o *fieldOptions) { o.clock = c }
}

// WithDelay sets the quiet window
func WithDelay(d time.Duration) Option {
	return func(o *fieldOptions) { o.delay = d }
}

// WithLogger sets the logger parse failures are reported to
func WithLogger(l *zap.Logger) Option {
	return func(o *fieldOptions) { o.logger = l }
}

// WithMetrics sets the outcome counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *fieldOptions) { o.metrics = m }
}

// Field echoes every keystroke immediately and commits the parsed value to
// its owner once typing pauses.
type Field[T any] struct {
	name      string
	parse     Parser[T]
	validate  Validator[T]
	format    Formatter[T]
	commit    func(T)
	debouncer *Debouncer
	logger    *zap.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	text     string
	disposed bool
}

// NewField creates an idle field. commit receives every accepted value.
func NewField[T any](name string, parse Parser[T], commit func(T), opts ...Option) *Field[T] {
	o := fieldOptions{delay: DefaultFieldDelay}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Named("field")
	}

	return &Field[T]{
		name:      name,
		parse:     parse,
		commit:    commit,
		debouncer: NewDebouncer(o.delay, o.clock),
		logger:    o.logger.With(zap.String("field", name)),
		metrics:   o.metrics,
	}
}

// Validate sets the validator run after parsing
func (f *Field[T]) Validate(v Validator[T]) *Field[T] {
	f.validate = v
	return f
}

// Format sets how Sync renders values
func (f *Field[T]) Format(fn Formatter[T]) *Field[T] {
	f.format = fn
	return f
}

// Name identifies the field in logs and metrics
func (f *Field[T]) Name() string {
	return f.name
}

// Input records a keystroke and restarts the quiet window
func (f *Field[T]) Input(text string) {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return
	}
	f.text = text
	// Arm the timer before releasing mu so Sync never sees the new text
	// without a pending edit.
	f.debouncer.Trigger(func() { f.settle(text) })
	f.mu.Unlock()
}

// Text is what the input box currently shows
func (f *Field[T]) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

// State reports where the field is in its commit pipeline
func (f *Field[T]) State() State {
	f.mu.Lock()
	disposed := f.disposed
	f.mu.Unlock()

	switch {
	case disposed:
		return Disposed
	case f.debouncer.Pending():
		return Pending
	}
	return Idle
}

// Sync shows value from the owning model. An edit in progress wins.
func (f *Field[T]) Sync(value T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.format == nil || f.disposed || f.debouncer.Pending() {
		return
	}
	f.text = f.format(value)
}

// Flush settles a pending edit now
func (f *Field[T]) Flush() bool {
	return f.debouncer.Flush()
}

// Dispose cancels any pending edit. Later input is ignored.
func (f *Field[T]) Dispose() {
	f.mu.Lock()
	f.disposed = true
	f.mu.Unlock()

	if f.debouncer.Cancel() {
		f.metrics.FieldOutcome(f.name, metrics.OutcomeCancelled)
	}
	f.debouncer.Stop()
}

func (f *Field[T]) settle(text string) {
	f.mu.Lock()
	disposed := f.disposed
	f.mu.Unlock()
	if disposed {
		return
	}

	value, err := f.parse(text)
	if err != nil {
		f.logger.Debug("discarding unparseable input", zap.String("text", text), zap.Error(err))
		f.metrics.FieldOutcome(f.name, metrics.OutcomeParseError)
		return
	}

	if f.validate != nil {
		if err := f.validate(value); err != nil {
			f.logger.Debug("discarding rejected input", zap.String("text", text), zap.Error(err))
			f.metrics.FieldOutcome(f.name, metrics.OutcomeRejected)
			return
		}
	}

	f.commit(value)
	f.metrics.FieldOutcome(f.name, metrics.OutcomeCommitted)
}

// ParseNumber reads a numeric input. Empty text is a blank number.
func ParseNumber(text string) (types.Number, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return types.Blank(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return types.Number{}, errors.Parsing("not a number", err).WithContext("text", text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return types.Number{}, errors.Newf(errors.TypeParsing, "not a finite number: %q", text)
	}
	return types.NumberOf(v), nil
}

// ParseText accepts any input as-is
func ParseText(text string) (string, error) {
	return text, nil
}

// FormatNumber renders a number the way ParseNumber reads it
func FormatNumber(n types.Number) string {
	return n.String()
}
