package services

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"artclub/internal/client"
	"artclub/internal/client/mocks"
	"artclub/internal/domain/models"
	"artclub/internal/lib/validate"
	"artclub/internal/store"
	"artclub/internal/transport/http/dto"
	"artclub/internal/view"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fakeNotification(id int64, read bool) models.Notification {
	return models.Notification{
		ID:               id,
		Message:          gofakeit.Sentence(6),
		NotificationType: models.NotificationGeneral,
		RecipientRole:    models.RoleMember,
		Read:             read,
		CreatedAt:        time.Date(2024, 6, int(id), 9, 0, 0, 0, time.UTC),
	}
}

func setup(t *testing.T, items ...models.Notification) (*NotificationService, *mocks.API, *store.AppStore) {
	t.Helper()

	api := mocks.NewAPI(t)
	st := store.NewAppStore(slog.Default())
	svc := NewNotificationService(slog.Default(), api, st, validate.New())

	if items != nil {
		api.On("MaxPages").Return(10).Once()
		api.On("Get", mock.Anything, "notifications/", mock.Anything).
			Run(mocks.Fill(2, mocks.Page("", items))).
			Return(nil).Once()

		_, err := svc.FetchAll(context.Background())
		require.NoError(t, err)
	}

	return svc, api, st
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, api, st := setup(t, fakeNotification(1, false), fakeNotification(2, false), fakeNotification(3, true))
	require.Equal(t, 2, view.UnreadCount(st.Notifications.Items()))

	api.On("Patch", mock.Anything, "notifications/2/mark_as_read/", nil, nil).Return(nil).Once()

	require.NoError(t, svc.MarkRead(context.Background(), 2))

	n, ok := st.Notifications.Get(2)
	require.True(t, ok)
	assert.True(t, n.Read)
	assert.Equal(t, 1, view.UnreadCount(st.Notifications.Items()))
}

func TestNotificationService_MarkReadFailure(t *testing.T) {
	svc, api, st := setup(t, fakeNotification(1, false))

	api.On("Patch", mock.Anything, "notifications/1/mark_as_read/", nil, nil).
		Return(&client.APIError{Kind: client.KindServer, Status: http.StatusInternalServerError}).Once()

	err := svc.MarkRead(context.Background(), 1)
	require.Error(t, err)

	n, _ := st.Notifications.Get(1)
	assert.False(t, n.Read)

	state := st.Notifications.State()
	require.NotNil(t, state.Error)
	assert.Equal(t, client.KindServer, state.Error.Kind)
	assert.False(t, state.Loading)
}

func TestNotificationService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.NotificationRequest
		wantErr bool
		wantLen int
	}{
		{
			name: "broadcast to members",
			req: dto.NotificationRequest{
				Message:          "Studio is closed on Friday",
				NotificationType: models.NotificationGeneral,
				RecipientRole:    models.RoleMember,
			},
			wantLen: 2,
		},
		{
			name: "unknown type",
			req: dto.NotificationRequest{
				Message:          "hi",
				NotificationType: "spam",
			},
			wantErr: true,
			wantLen: 1,
		},
		{
			name:    "empty message",
			req:     dto.NotificationRequest{NotificationType: models.NotificationGeneral},
			wantErr: true,
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, api, st := setup(t, fakeNotification(1, true))

			if !tt.wantErr {
				created := fakeNotification(9, false)
				created.Message = tt.req.Message
				api.On("Post", mock.Anything, "notifications/", tt.req, mock.Anything).
					Run(mocks.Fill(3, created)).
					Return(nil).Once()
			}

			_, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, validate.ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, st.Notifications.Items(), tt.wantLen)
		})
	}
}

func TestNotificationService_Remove(t *testing.T) {
	svc, api, st := setup(t, fakeNotification(1, true), fakeNotification(2, false))

	api.On("Delete", mock.Anything, "notifications/7/", nil).
		Return(&client.APIError{Kind: client.KindNotFound, Status: http.StatusNotFound}).Once()

	err := svc.Remove(context.Background(), 7)
	assert.True(t, client.IsKind(err, client.KindNotFound))
	assert.Len(t, st.Notifications.Items(), 2)

	api.On("Delete", mock.Anything, "notifications/1/", nil).Return(nil).Once()

	require.NoError(t, svc.Remove(context.Background(), 1))
	assert.Equal(t, []int64{2}, ids(st.Notifications.Items()))
}

func ids(items []models.Notification) []int64 {
	out := make([]int64, 0, len(items))
	for _, n := range items {
		out = append(out, n.ID)
	}
	return out
}
