package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"artclub/internal/client"
	"artclub/internal/lib/validate"
	"artclub/internal/metrics"
)

var (
	ErrUnknownSlice   = errors.New("no slice registered for action")
	ErrUnknownPayload = errors.New("unexpected payload for slice")
	ErrDuplicateSlice = errors.New("slice already registered")
)

type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
)

// Action событие для редьюсера. Type имеет вид "<slice>/<op>".
type Action struct {
	Type    string
	Phase   Phase
	Payload any
	Err     *ErrorInfo
}

func (a Action) Slice() string {
	name, _, _ := strings.Cut(a.Type, "/")
	return name
}

func (a Action) Op() string {
	_, op, _ := strings.Cut(a.Type, "/")
	return op
}

// Reducer владеет состоянием одного среза и меняет его только через Reduce
type Reducer interface {
	Name() string
	Reduce(a Action) error
	Snapshot() any
}

// ErrorInfo нормализованная ошибка, которую срез хранит в состоянии
type ErrorInfo struct {
	Kind    client.Kind         `json:"kind"`
	Status  int                 `json:"status,omitempty"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func (e *ErrorInfo) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func NormalizeError(err error) *ErrorInfo {
	if err == nil {
		return nil
	}

	if apiErr, ok := client.AsAPIError(err); ok {
		return &ErrorInfo{
			Kind:    apiErr.Kind,
			Status:  apiErr.Status,
			Message: apiErr.Message,
			Fields:  apiErr.Fields,
		}
	}

	var verr *validate.Error
	if errors.As(err, &verr) {
		return &ErrorInfo{
			Kind:    client.KindValidation,
			Message: validate.ErrInvalid.Error(),
			Fields:  verr.Fields,
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ErrorInfo{Kind: client.KindNetwork, Message: err.Error()}
	}

	return &ErrorInfo{Kind: client.KindUnknown, Message: err.Error()}
}

// Store центральное хранилище: набор независимых срезов и одна точка Dispatch
type Store struct {
	log *slog.Logger

	mu       sync.RWMutex
	reducers map[string]Reducer
}

func New(log *slog.Logger, reducers ...Reducer) (*Store, error) {
	s := &Store{
		log:      log,
		reducers: make(map[string]Reducer, len(reducers)),
	}

	for _, r := range reducers {
		if err := s.Register(r); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) Register(r Reducer) error {
	const op = "store.Store.Register"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reducers[r.Name()]; ok {
		return fmt.Errorf("%s: %w: %s", op, ErrDuplicateSlice, r.Name())
	}
	s.reducers[r.Name()] = r

	return nil
}

// Dispatch отдаёт действие единственному срезу с подходящим префиксом.
// Действия без получателя логируются и отбрасываются.
func (s *Store) Dispatch(a Action) bool {
	const op = "store.Store.Dispatch"

	metrics.StoreActionsTotal.WithLabelValues(a.Type, string(a.Phase)).Inc()

	s.mu.RLock()
	r, ok := s.reducers[a.Slice()]
	s.mu.RUnlock()

	log := s.log.With(
		slog.String("op", op),
		slog.String("type", a.Type),
		slog.String("phase", string(a.Phase)),
	)

	if !ok {
		log.Warn("action dropped", slog.String("error", ErrUnknownSlice.Error()))
		return false
	}

	if err := r.Reduce(a); err != nil {
		log.Error("reducer rejected action", slog.String("error", err.Error()))
		return false
	}

	log.Debug("action applied")

	return true
}

func (s *Store) Slice(name string) (Reducer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reducers[name]
	return r, ok
}

// Snapshot состояние всех срезов по имени
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.reducers))
	for name, r := range s.reducers {
		out[name] = r.Snapshot()
	}
	return out
}

// Run выполняет асинхронное действие: pending, затем fulfilled с результатом fn
// или rejected с нормализованной ошибкой. Ошибка возвращается и вызывающему.
func Run[P any](ctx context.Context, s *Store, typ string, fn func(ctx context.Context) (P, error)) (P, error) {
	s.Dispatch(Action{Type: typ, Phase: PhasePending})

	payload, err := fn(ctx)
	if err != nil {
		s.Dispatch(Action{Type: typ, Phase: PhaseRejected, Err: NormalizeError(err)})

		var zero P
		return zero, err
	}

	s.Dispatch(Action{Type: typ, Phase: PhaseFulfilled, Payload: payload})

	return payload, nil
}
