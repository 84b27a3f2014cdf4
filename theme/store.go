package theme

import (
	"sync"

	"github.com/rs/zerolog"

	"menutheme/colormath"
)

// Store owns the theme state of one rendering surface. Only SetColor and
// ResetToDefault change the state, and only Apply writes to the sink.
type Store struct {
	// writeMu orders state transitions with their sink writes so the
	// surface always ends up showing the latest state.
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   State
	sink    Sink
	logger  zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore returns an uninitialized store holding the default theme.
// Nothing is written to sink until Apply or SetColor is called.
func NewStore(sink Sink, opts ...Option) *Store {
	s := &Store{
		state:  Derive(colormath.DefaultColor),
		sink:   sink,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetColor derives the theme for color, replaces the state in one step,
// marks the store initialized and applies it. Invalid colors become the
// default theme.
func (s *Store) SetColor(color string) {
	next := Derive(color)
	next.Initialized = true

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.logger.Debug().
		Str("color", next.BaseColor).
		Str("foreground", next.Foreground).
		Msg("brand color set")

	s.apply()
}

// ResetToDefault is SetColor(colormath.DefaultColor).
func (s *Store) ResetToDefault() {
	s.SetColor(colormath.DefaultColor)
}

// Apply writes the current state to the sink. Redundant calls are harmless.
// Sink failures are logged and never returned.
func (s *Store) Apply() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.apply()
}

func (s *Store) apply() {
	if s.sink == nil {
		return
	}
	s.mu.RLock()
	props := s.state.Properties()
	s.mu.RUnlock()

	if err := s.sink.SetProperties(props); err != nil {
		s.logger.Warn().Err(err).Msg("apply brand theme")
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// BaseColor returns the accent color the current state derives from.
func (s *Store) BaseColor() string {
	return s.Snapshot().BaseColor
}

// Scale returns the current 10-step brand scale.
func (s *Store) Scale() colormath.Scale {
	return s.Snapshot().Scale
}

// Foreground returns the current text color.
func (s *Store) Foreground() string {
	return s.Snapshot().Foreground
}

// Initialized reports whether SetColor or ResetToDefault has run.
func (s *Store) Initialized() bool {
	return s.Snapshot().Initialized
}
