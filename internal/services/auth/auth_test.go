package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"artclub/internal/client"
	clientmocks "artclub/internal/client/mocks"
	"artclub/internal/domain/models"
	"artclub/internal/lib/validate"
	"artclub/internal/repository"
	"artclub/internal/services/auth/mocks"
	"artclub/internal/storage"
	"artclub/internal/store"
	"artclub/internal/transport/http/dto"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	sessionKey = "test-session"
	sessionTTL = time.Hour
)

func withToken(token string) any {
	return mock.MatchedBy(func(ctx context.Context) bool {
		got, ok := client.TokenFrom(ctx)
		return ok && got == token
	})
}

func withoutToken() any {
	return mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := client.TokenFrom(ctx)
		return !ok
	})
}

func setup(t *testing.T) (*Auth, *clientmocks.API, *mocks.SessionStore, *store.AppStore) {
	t.Helper()

	api := clientmocks.NewAPI(t)
	sessions := mocks.NewSessionStore(t)
	st := store.NewAppStore(slog.Default())

	return New(slog.Default(), api, st, validate.New(), sessions, sessionKey, sessionTTL), api, sessions, st
}

func TestAuth_Login(t *testing.T) {
	creds := models.Credentials{Email: gofakeit.Email(), Password: gofakeit.Password(true, true, true, false, false, 10)}
	user := models.User{PK: 4, Email: creds.Email, FirstName: gofakeit.FirstName(), Role: models.RoleMember, IsActive: true}

	t.Run("success", func(t *testing.T) {
		a, api, sessions, st := setup(t)

		api.On("Post", withoutToken(), "auth/login/", creds, mock.Anything).
			Run(clientmocks.Fill(3, models.LoginResponse{Token: "abc123", UserID: 4})).
			Return(nil).Once()
		api.On("Get", withToken("abc123"), "auth/user/", mock.Anything).
			Run(clientmocks.Fill(2, user)).
			Return(nil).Once()

		want := models.Session{Token: "abc123", User: &user, Role: models.RoleMember}
		sessions.On("Save", mock.Anything, sessionKey, want, sessionTTL).Return(nil).Once()

		sess, err := a.Login(context.Background(), creds)
		require.NoError(t, err)
		assert.Equal(t, want, sess)

		state := st.Auth.State()
		assert.Equal(t, "abc123", state.Token)
		assert.Equal(t, models.RoleMember, state.Role)
		assert.False(t, state.Loading)
		assert.Nil(t, state.Error)
	})

	t.Run("wrong password", func(t *testing.T) {
		a, api, _, st := setup(t)

		api.On("Post", mock.Anything, "auth/login/", creds, mock.Anything).
			Return(&client.APIError{
				Kind:    client.KindValidation,
				Status:  http.StatusBadRequest,
				Message: "Unable to log in with provided credentials.",
			}).Once()

		_, err := a.Login(context.Background(), creds)
		require.Error(t, err)
		assert.True(t, client.IsKind(err, client.KindValidation))

		state := st.Auth.State()
		assert.Empty(t, state.Token)
		require.NotNil(t, state.Error)
		assert.Equal(t, "Unable to log in with provided credentials.", state.Error.Message)
	})

	t.Run("response without token", func(t *testing.T) {
		a, api, _, st := setup(t)

		api.On("Post", mock.Anything, "auth/login/", creds, mock.Anything).
			Run(clientmocks.Fill(3, map[string]any{"user_id": 4})).
			Return(nil).Once()

		_, err := a.Login(context.Background(), creds)
		assert.ErrorIs(t, err, ErrNoToken)
		assert.False(t, st.Auth.Session().Active())
	})

	t.Run("persist failure keeps the session", func(t *testing.T) {
		a, api, sessions, st := setup(t)

		api.On("Post", mock.Anything, "auth/login/", creds, mock.Anything).
			Run(clientmocks.Fill(3, models.LoginResponse{Token: "abc123"})).
			Return(nil).Once()
		api.On("Get", mock.Anything, "auth/user/", mock.Anything).
			Run(clientmocks.Fill(2, user)).
			Return(nil).Once()
		sessions.On("Save", mock.Anything, sessionKey, mock.Anything, sessionTTL).
			Return(errors.New("connection refused")).Once()

		_, err := a.Login(context.Background(), creds)
		require.NoError(t, err)
		assert.True(t, st.Auth.Session().Active())
	})

	t.Run("invalid email never reaches the api", func(t *testing.T) {
		a, _, _, _ := setup(t)

		_, err := a.Login(context.Background(), models.Credentials{Email: "nope", Password: "x"})
		assert.ErrorIs(t, err, validate.ErrInvalid)
	})
}

func TestAuth_Register(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.RegisterRequest
		apiErr   error
		wantErr  error
		wantCall bool
	}{
		{
			name: "success",
			req: dto.RegisterRequest{
				Username: "ana", Email: "ana@example.com",
				Password1: "secret1", Password2: "secret1",
			},
			wantCall: true,
		},
		{
			name: "password mismatch",
			req: dto.RegisterRequest{
				Username: "ana", Email: "ana@example.com",
				Password1: "secret1", Password2: "secret2",
			},
			wantErr: validate.ErrInvalid,
		},
		{
			name: "short password",
			req: dto.RegisterRequest{
				Username: "ana", Email: "ana@example.com",
				Password1: "abc", Password2: "abc",
			},
			wantErr: validate.ErrInvalid,
		},
		{
			name: "email taken",
			req: dto.RegisterRequest{
				Username: "ana", Email: "ana@example.com",
				Password1: "secret1", Password2: "secret1",
			},
			apiErr: &client.APIError{
				Kind:   client.KindValidation,
				Status: http.StatusBadRequest,
				Fields: map[string][]string{"email": {"A user is already registered with this e-mail address."}},
			},
			wantCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, api, _, st := setup(t)

			if tt.wantCall {
				api.On("Post", withoutToken(), "auth/registration/", tt.req, nil).Return(tt.apiErr).Once()
			}

			before := st.Snapshot()

			err := a.Register(context.Background(), tt.req)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, st.Snapshot())
			case tt.apiErr != nil:
				assert.True(t, client.IsKind(err, client.KindValidation))
				require.NotNil(t, st.Auth.State().Error)
				assert.Contains(t, st.Auth.State().Error.Fields, "email")
			default:
				assert.NoError(t, err)
			}

			assert.False(t, st.Auth.Session().Active())
		})
	}
}

func TestAuth_RestoreAndLogout(t *testing.T) {
	a, _, sessions, st := setup(t)

	user := models.User{PK: 1, Email: "admin@example.com", Role: models.RoleAdmin}
	saved := models.Session{Token: "tok", User: &user, Role: models.RoleAdmin}

	sessions.On("Get", mock.Anything, sessionKey).Return(saved, nil).Once()

	sess, err := a.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved, sess)
	assert.Equal(t, models.RoleAdmin, st.Auth.State().Role)

	st.Dispatch(store.Action{
		Type:    store.SliceArtworks + "/fetchAll",
		Phase:   store.PhaseFulfilled,
		Payload: store.ReplaceAll[models.Artwork]{Items: []models.Artwork{{ID: 1}}},
	})

	sessions.On("Delete", mock.Anything, sessionKey).Return(nil).Once()

	a.Logout(context.Background())

	assert.False(t, st.Auth.Session().Active())
	assert.Nil(t, st.Auth.State().User)
	assert.Empty(t, st.Artworks.Items())
}

func TestAuth_RestoreMissing(t *testing.T) {
	a, _, sessions, st := setup(t)

	sessions.On("Get", mock.Anything, sessionKey).Return(models.Session{}, storage.ErrSessionNotFound).Once()

	_, err := a.Restore(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.False(t, st.Auth.Session().Active())
}

func TestAuth_ConfirmPasswordReset(t *testing.T) {
	a, api, _, _ := setup(t)

	err := a.ConfirmPasswordReset(context.Background(), dto.PasswordResetConfirmRequest{
		UID: "MQ", Token: "set-password", NewPassword1: "secret1", NewPassword2: "secret9",
	})
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "new_password2")

	req := dto.PasswordResetConfirmRequest{UID: "MQ", Token: "set-password", NewPassword1: "secret1", NewPassword2: "secret1"}
	api.On("Post", withoutToken(), "auth/password/reset/confirm/", req, nil).Return(nil).Once()

	require.NoError(t, a.ConfirmPasswordReset(context.Background(), req))
}

func TestAuth_ProfileRequiresSession(t *testing.T) {
	a, _, _, _ := setup(t)

	_, err := a.Profile(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

// Полный путь через настоящий клиент и фейковый API
func TestAuth_LoginEndToEnd(t *testing.T) {
	var userCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "letmein" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"non_field_errors":["Unable to log in with provided credentials."]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "t0k", "user_id": 7, "email": creds.Email})
	})
	mux.HandleFunc("/api/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		userCalls.Add(1)
		if r.Header.Get("Authorization") != "Token t0k" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"pk": 7, "email": "ana@example.com", "first_name": "Ana", "role": "admin", "is_active": true,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api, err := client.New(slog.Default(), client.Options{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	sessions := repository.NewMemorySessionRepo(time.Hour, time.Minute)
	st := store.NewAppStore(slog.Default())
	a := New(slog.Default(), api, st, validate.New(), sessions, sessionKey, sessionTTL)

	_, err = a.Login(context.Background(), models.Credentials{Email: "ana@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, int32(0), userCalls.Load())
	assert.Equal(t, "Unable to log in with provided credentials.", st.Auth.State().Error.Message)

	sess, err := a.Login(context.Background(), models.Credentials{Email: "ana@example.com", Password: "letmein"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, sess.Role)
	assert.Equal(t, int64(7), sess.User.PK)

	saved, err := sessions.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "t0k", saved.Token)

	// новая вкладка поднимает ту же сессию из хранилища
	other := New(slog.Default(), api, store.NewAppStore(slog.Default()), validate.New(), sessions, sessionKey, sessionTTL)
	restored, err := other.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sess.Token, restored.Token)

	other.Logout(context.Background())
	_, err = sessions.Get(context.Background(), sessionKey)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestAuth_Rekey(t *testing.T) {
	user := models.User{PK: 4, Email: gofakeit.Email(), Role: models.RoleMember, IsActive: true}
	sess := models.Session{Token: "abc123", User: &user, Role: models.RoleMember}

	t.Run("moves the saved session", func(t *testing.T) {
		a, _, sessions, st := setup(t)
		st.Dispatch(store.Action{Type: typeLogin, Phase: store.PhaseFulfilled, Payload: sess})

		sessions.On("Save", mock.Anything, "rotated", sess, sessionTTL).Return(nil).Once()
		sessions.On("Delete", mock.Anything, sessionKey).Return(nil).Once()

		require.NoError(t, a.Rekey(context.Background(), "rotated"))

		sessions.On("Delete", mock.Anything, "rotated").Return(nil).Once()
		a.Logout(context.Background())
	})

	t.Run("save failure keeps the old key", func(t *testing.T) {
		a, _, sessions, st := setup(t)
		st.Dispatch(store.Action{Type: typeLogin, Phase: store.PhaseFulfilled, Payload: sess})

		sessions.On("Save", mock.Anything, "rotated", sess, sessionTTL).Return(errors.New("redis down")).Once()

		require.Error(t, a.Rekey(context.Background(), "rotated"))
		assert.Equal(t, sessionKey, a.storageKey())
	})

	t.Run("anonymous session only drops the old key", func(t *testing.T) {
		a, _, sessions, _ := setup(t)

		sessions.On("Delete", mock.Anything, sessionKey).Return(storage.ErrSessionNotFound).Once()

		require.NoError(t, a.Rekey(context.Background(), "rotated"))
		assert.Equal(t, "rotated", a.storageKey())
	})
}
