package store

import (
	"fmt"
	"sync"

	"artclub/internal/domain/models"
)

const (
	OpLogin    = "login"
	OpRestore  = "restore"
	OpLogout   = "logout"
	OpRegister = "register"
	OpRefresh  = "refresh"
)

type AuthState struct {
	Token   string       `json:"-"`
	User    *models.User `json:"user"`
	Role    models.Role  `json:"role,omitempty"`
	Loading bool         `json:"loading"`
	Error   *ErrorInfo   `json:"error"`
}

func (s AuthState) Session() models.Session {
	return models.Session{Token: s.Token, User: s.User, Role: s.Role}
}

// AuthSlice токен, снимок пользователя и роль текущей сессии
type AuthSlice struct {
	mu       sync.RWMutex
	session  models.Session
	inflight int
	err      *ErrorInfo
}

func NewAuthSlice() *AuthSlice {
	return &AuthSlice{}
}

func (s *AuthSlice) Name() string { return SliceAuth }

func (s *AuthSlice) Reduce(a Action) error {
	const op = "store.AuthSlice.Reduce"

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

	switch a.Op() {
	case OpLogin, OpRestore:
		sess, ok := a.Payload.(models.Session)
		if !ok {
			return fmt.Errorf("%s: %w: auth got %T", op, ErrUnknownPayload, a.Payload)
		}
		if sess.User != nil {
			u := *sess.User
			sess.User = &u
			if sess.Role == "" {
				sess.Role = u.Role
			}
		}
		s.session = sess
	case OpLogout:
		s.session = models.Session{}
	case OpRegister:
		// регистрация не открывает сессию: аккаунт ждёт активации
	case OpRefresh:
		u, ok := a.Payload.(models.User)
		if !ok {
			return fmt.Errorf("%s: %w: auth got %T", op, ErrUnknownPayload, a.Payload)
		}
		if s.session.Active() {
			s.session.User = &u
			s.session.Role = u.Role
		}
	}

	return nil
}

func (s *AuthSlice) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := AuthState{
		Token:   s.session.Token,
		Role:    s.session.Role,
		Loading: s.inflight > 0,
		Error:   s.err,
	}
	if s.session.User != nil {
		u := *s.session.User
		st.User = &u
	}
	return st
}

func (s *AuthSlice) Snapshot() any { return s.State() }

func (s *AuthSlice) Session() models.Session {
	return s.State().Session()
}
