package core

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"safepath/internal/domain/model"
)

const (
	// MinSuggestionQuery is the shortest input that triggers a fetch.
	MinSuggestionQuery = 3
	// DefaultSuggestionDelay is the quiet period before a fetch is issued.
	DefaultSuggestionDelay = 500 * time.Millisecond
)

// SuggestionSource debounces autocompletion for a single input field. Each
// field gets its own instance; instances share nothing but the fetcher.
type SuggestionSource struct {
	field    string
	fetcher  model.SuggestionFetcher
	clock    Clock
	delay    time.Duration
	log      *zap.Logger
	onChange func(field string, candidates []string)

	mu         sync.Mutex
	generation uint64
	timer      Timer
	candidates []string
}

type SuggestionOption func(*SuggestionSource)

func WithClock(c Clock) SuggestionOption {
	return func(s *SuggestionSource) { s.clock = c }
}

func WithDelay(d time.Duration) SuggestionOption {
	return func(s *SuggestionSource) { s.delay = d }
}

// WithChangeHandler registers a callback run after the candidate list is replaced.
func WithChangeHandler(f func(field string, candidates []string)) SuggestionOption {
	return func(s *SuggestionSource) { s.onChange = f }
}

func NewSuggestionSource(field string, fetcher model.SuggestionFetcher, log *zap.Logger, opts ...SuggestionOption) *SuggestionSource {
	s := &SuggestionSource{
		field:   field,
		fetcher: fetcher,
		clock:   RealClock,
		delay:   DefaultSuggestionDelay,
		log:     log.With(zap.String("field", field)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SuggestionSource) Field() string { return s.field }

// OnInput supersedes any pending timer or in-flight fetch for this field.
// Short input clears the list immediately; otherwise a fetch for text is
// scheduled after the debounce delay.
func (s *SuggestionSource) OnInput(text string) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if utf8.RuneCountInString(text) < MinSuggestionQuery {
		s.candidates = nil
		s.mu.Unlock()
		s.notify(nil)
		return
	}

	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(gen, text) })
	s.mu.Unlock()
}

// Candidates returns a copy of the current list.
func (s *SuggestionSource) Candidates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.candidates...)
}

func (s *SuggestionSource) fire(gen uint64, query string) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	candidates, err := s.fetcher.Suggest(context.Background(), query)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug("dropping superseded suggestions", zap.String("query", query))
		return
	}
	if err != nil {
		s.log.Warn("suggestion fetch failed", zap.String("query", query), zap.Error(err))
		candidates = nil
	}
	s.candidates = append([]string(nil), candidates...)
	out := append([]string(nil), s.candidates...)
	s.mu.Unlock()

	s.notify(out)
}

func (s *SuggestionSource) notify(candidates []string) {
	if s.onChange != nil {
		s.onChange(s.field, candidates)
	}
}
