package search

import (
	"sync"

	"go.uber.org/zap"
)

const defaultHistoryLimit = 100

// Store owns a State and serialises the transitions applied to it.
type Store struct {
	mu          sync.Mutex
	state       State
	history     []State
	limit       int
	logger      *zap.Logger
	subscribers []func(State)
}

// NewStore creates a store holding the empty state.
func NewStore(logger *zap.Logger) *Store {
	return NewStoreWith(NewState(), logger)
}

// NewStoreWith creates a store holding initial.
func NewStoreWith(initial State, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:  initial,
		limit:  defaultHistoryLimit,
		logger: logger,
	}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with every new state.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Dispatch reduces a into the current state and returns the result.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.history = append(s.history, prev)
	if len(s.history) > s.limit {
		s.history = s.history[len(s.history)-s.limit:]
	}
	s.state = next
	subscribers := append([]func(State){}, s.subscribers...)
	s.mu.Unlock()

	s.logger.Debug("dispatch",
		zap.String("action", string(a.Type())),
		zap.Int("criteria", len(next.Criteria)),
		zap.Int("errors", len(next.Errors)),
	)

	for _, fn := range subscribers {
		fn(next)
	}

	return next
}

// Undo restores the state preceding the last dispatch. It reports false when
// there is nothing to undo.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return false
	}
	s.state = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.mu.Unlock()

	s.logger.Debug("undo")
	return true
}

// Submit validates the current input. Valid input is added as a criterion and
// the error list is cleared; invalid input stays in place and its messages are
// stored in Errors. It reports whether a criterion was added.
func (s *Store) Submit() bool {
	text := s.State().Input
	if errs := Check(text); len(errs) > 0 {
		s.Dispatch(ReplaceErrors(errs))
		return false
	}

	s.Dispatch(ReplaceErrors(nil))
	s.Dispatch(Add(SplitCriterion(text)))
	return true
}

// SubmitDraft does what Submit does for the draft flow.
func (s *Store) SubmitDraft() bool {
	text := s.State().Draft
	if errs := Check(text); len(errs) > 0 {
		s.Dispatch(ReplaceErrors(errs))
		return false
	}

	s.Dispatch(ReplaceErrors(nil))
	s.Dispatch(Commit(SplitCriterion(text)))
	return true
}

// Enter sets the input to text and submits it.
func (s *Store) Enter(text string) bool {
	s.Dispatch(ChangeInput(text))
	return s.Submit()
}
