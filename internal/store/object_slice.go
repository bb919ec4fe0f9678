package store

import (
	"fmt"
	"sync"
)

type (
	Loaded[T any] struct{ Value T }
	Cleared       struct{}
)

type ObjectState[T any] struct {
	Data    *T         `json:"data"`
	Loading bool       `json:"loading"`
	Error   *ErrorInfo `json:"error"`
}

// ObjectSlice срез с одним объектом: статистика, настройки, профиль
type ObjectSlice[T any] struct {
	name string

	mu       sync.RWMutex
	data     *T
	inflight int
	err      *ErrorInfo
}

func NewObjectSlice[T any](name string) *ObjectSlice[T] {
	return &ObjectSlice[T]{name: name}
}

func (s *ObjectSlice[T]) Name() string { return s.name }

func (s *ObjectSlice[T]) Reduce(a Action) error {
	const op = "store.ObjectSlice.Reduce"

	s.mu.Lock()
	defer s.mu.Unlock()

	switch a.Phase {
	case PhasePending:
		s.inflight++
		s.err = nil
		return nil
	case PhaseRejected:
		if s.inflight > 0 {
			s.inflight--
		}
		s.err = a.Err
		return nil
	case PhaseFulfilled:
		if s.inflight > 0 {
			s.inflight--
		}
	default:
		return fmt.Errorf("%s: unknown phase %q", op, a.Phase)
	}

	switch p := a.Payload.(type) {
	case nil:
	case Loaded[T]:
		v := p.Value
		s.data = &v
	case Cleared:
		s.data = nil
	default:
		return fmt.Errorf("%s: %w: %s got %T", op, ErrUnknownPayload, s.name, a.Payload)
	}

	return nil
}

func (s *ObjectSlice[T]) State() ObjectState[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := ObjectState[T]{Loading: s.inflight > 0, Error: s.err}
	if s.data != nil {
		v := *s.data
		st.Data = &v
	}
	return st
}

func (s *ObjectSlice[T]) Snapshot() any { return s.State() }

func (s *ObjectSlice[T]) Value() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		var zero T
		return zero, false
	}
	return *s.data, true
}
