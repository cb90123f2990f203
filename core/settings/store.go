// Package settings buffers configuration edits and republishes immutable
// snapshots once an editing section goes quiet.
package settings

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pricing-estimator/core/catalog"
	"pricing-estimator/core/debounce"
	"pricing-estimator/core/determinism"
	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
	"pricing-estimator/internal/logging"
	"pricing-estimator/internal/metrics"
)

// DefaultDelay is the quiet window before a section publishes
const DefaultDelay = 500 * time.Millisecond

// Section is an independently debounced part of the configuration
type Section string

const (
	SectionPricing    Section = "pricing"
	SectionIndustries Section = "industries"
	SectionVariables  Section = "variables"
)

// Sections lists every section in publish order
var Sections = []Section{SectionPricing, SectionIndustries, SectionVariables}

// Subscriber receives every published snapshot
type Subscriber interface {
	Apply(snapshot types.Snapshot)
}

// SubscriberFunc adapts a function to Subscriber
type SubscriberFunc func(types.Snapshot)

// Apply calls f
func (f SubscriberFunc) Apply(snapshot types.Snapshot) { f(snapshot) }

// Option configures a store
type Option func(*Store)

// WithClock sets the timer source for section debouncers
func WithClock(c debounce.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithDelay sets the quiet window
func WithDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// WithLogger sets the store logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics sets the publish counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithIDGenerator replaces the uuid based id source
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Store holds a working copy of the configuration while it is edited
type Store struct {
	mu            sync.Mutex
	published     types.Snapshot
	publishedHash map[Section]determinism.ContentHash
	working       types.Snapshot
	dirty         map[Section]bool
	debouncers    map[Section]*debounce.Debouncer
	subscribers   []Subscriber
	closed        bool

	// publishMu orders deliveries when two sections fire together
	publishMu sync.Mutex

	clock   debounce.Clock
	delay   time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
	newID   func() string
}

// NewStore opens an editing session on snapshot
func NewStore(snapshot types.Snapshot, opts ...Option) *Store {
	s := &Store{
		published:     snapshot.Clone(),
		publishedHash: make(map[Section]determinism.ContentHash, len(Sections)),
		working:       snapshot.Clone(),
		dirty:         make(map[Section]bool, len(Sections)),
		debouncers:    make(map[Section]*debounce.Debouncer, len(Sections)),
		delay:         DefaultDelay,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Named("settings")
	}

	for _, section := range Sections {
		s.debouncers[section] = debounce.NewDebouncer(s.delay, s.clock)
		s.publishedHash[section] = sectionHash(s.published, section)
	}
	return s
}

// Subscribe adds a receiver for future publishes
func (s *Store) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// Published is the last published snapshot
func (s *Store) Published() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published.Clone()
}

// Working is the configuration including unpublished edits
func (s *Store) Working() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Clone()
}

// Dirty reports whether any section has unpublished edits
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.dirty {
		if d {
			return true
		}
	}
	return false
}

// DirtySections lists sections with unpublished edits
func (s *Store) DirtySections() []Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Section
	for _, section := range Sections {
		if s.dirty[section] {
			out = append(out, section)
		}
	}
	return out
}

// Flush publishes every pending section now
func (s *Store) Flush() {
	for _, section := range Sections {
		s.debouncers[section].Flush()
	}
}

// Close ends the editing session. With unpublished edits, confirm decides
// whether they are discarded; a nil confirm or a false answer keeps the
// store open. It reports whether the store closed.
func (s *Store) Close(confirm func() bool) bool {
	if s.Dirty() && (confirm == nil || !confirm()) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, section := range Sections {
		s.debouncers[section].Stop()
		s.dirty[section] = false
	}
	s.working = s.published.Clone()
	s.closed = true
	return true
}

// edit applies fn to a copy of the working snapshot. The copy replaces the
// working snapshot only when section actually changed.
func (s *Store) edit(section Section, fn func(*types.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New(errors.TypeInput, "settings store is closed")
	}

	next := s.working.Clone()
	if err := fn(&next); err != nil {
		return err
	}

	hash := sectionHash(next, section)
	if same(hash, sectionHash(s.working, section)) {
		return nil
	}
	s.working = next

	if same(hash, s.publishedHash[section]) {
		s.dirty[section] = false
		s.debouncers[section].Cancel()
		return nil
	}

	s.dirty[section] = true
	s.debouncers[section].Trigger(func() { s.publish(section) })
	return nil
}

func (s *Store) publish(section Section) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	hash := sectionHash(s.working, section)
	s.dirty[section] = false
	if same(hash, s.publishedHash[section]) {
		s.mu.Unlock()
		s.metrics.SkippedPublish(string(section))
		return
	}

	next := s.published.Clone()
	next.Version = s.published.Version + 1
	copySection(&next, s.working, section)

	s.published = next
	s.publishedHash[section] = hash
	subs := append([]Subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	for _, err := range catalog.Validate(next, catalog.DefaultValidationRules()) {
		s.logger.Warn("published configuration has structural problems",
			zap.String("section", string(section)), zap.Error(err))
	}
	s.metrics.Published(string(section))
	s.logger.Debug("published configuration",
		zap.String("section", string(section)), zap.Int("version", next.Version), zap.Stringer("hash", hash))

	for _, sub := range subs {
		sub.Apply(next.Clone())
	}
}

func copySection(dst *types.Snapshot, src types.Snapshot, section Section) {
	switch section {
	case SectionPricing:
		dst.Pricing = src.Pricing.Clone()
	case SectionIndustries:
		dst.Industries = src.Industries.Clone()
	case SectionVariables:
		dst.Variables = types.CloneVariables(src.Variables)
	}
}

func sectionHash(snapshot types.Snapshot, section Section) determinism.ContentHash {
	var v any
	switch section {
	case SectionPricing:
		v = snapshot.Pricing
	case SectionIndustries:
		v = snapshot.Industries
	case SectionVariables:
		if len(snapshot.Variables) > 0 {
			v = snapshot.Variables
		}
	}
	hash, err := determinism.HashJSON(v)
	if err != nil {
		// NaN and infinite values do not encode; such a section never
		// compares equal to anything.
		return determinism.ContentHash{}
	}
	return hash
}

func same(a, b determinism.ContentHash) bool {
	return !a.IsZero() && a == b
}
