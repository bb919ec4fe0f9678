package store

import (
	"fmt"
	"sync"
)

// Полезные нагрузки fulfilled для EntitySlice
type (
	ReplaceAll[T Entity] struct{ Items []T }
	Added[T Entity]      struct{ Item T }
	Replaced[T Entity]   struct{ Item T }
	Removed              struct{ ID int64 }
	Patched[T Entity]    struct {
		ID    int64
		Apply func(*T)
	}
)

type ListState[T Entity] struct {
	Items   []T        `json:"items"`
	Loading bool       `json:"loading"`
	Error   *ErrorInfo `json:"error"`
}

// EntitySlice срез со списком сущностей одного типа
type EntitySlice[T Entity] struct {
	name string

	mu       sync.RWMutex
	items    *Collection[T]
	inflight int
	err      *ErrorInfo
}

func NewEntitySlice[T Entity](name string) *EntitySlice[T] {
	return &EntitySlice[T]{
		name:  name,
		items: NewCollection[T](nil),
	}
}

func (s *EntitySlice[T]) Name() string { return s.name }

func (s *EntitySlice[T]) Reduce(a Action) error {
	const op = "store.EntitySlice.Reduce"

	s.mu.Lock()
	defer s.mu.Unlock()

	switch a.Phase {
	case PhasePending:
		s.inflight++
		s.err = nil
		return nil
	case PhaseRejected:
		s.settle()
		s.err = a.Err
		return nil
	case PhaseFulfilled:
		s.settle()
	default:
		return fmt.Errorf("%s: unknown phase %q", op, a.Phase)
	}

	switch p := a.Payload.(type) {
	case nil:
	case ReplaceAll[T]:
		s.items.Reset(p.Items)
	case Added[T]:
		s.items.Add(p.Item)
	case Replaced[T]:
		s.items.Replace(p.Item)
	case Removed:
		s.items.Remove(p.ID)
	case Patched[T]:
		if p.Apply != nil {
			s.items.Patch(p.ID, p.Apply)
		}
	default:
		return fmt.Errorf("%s: %w: %s got %T", op, ErrUnknownPayload, s.name, a.Payload)
	}

	return nil
}

func (s *EntitySlice[T]) settle() {
	if s.inflight > 0 {
		s.inflight--
	}
}

func (s *EntitySlice[T]) State() ListState[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ListState[T]{
		Items:   s.items.Items(),
		Loading: s.inflight > 0,
		Error:   s.err,
	}
}

func (s *EntitySlice[T]) Snapshot() any { return s.State() }

func (s *EntitySlice[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.items.Items()
}

func (s *EntitySlice[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.items.Get(id)
}
