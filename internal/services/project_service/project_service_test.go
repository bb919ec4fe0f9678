package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"artclub/internal/client/mocks"
	"artclub/internal/domain/models"
	"artclub/internal/lib/validate"
	"artclub/internal/store"
	"artclub/internal/transport/http/dto"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fakeProject(id, creator int64) models.Project {
	return models.Project{
		ID:          id,
		Title:       gofakeit.Sentence(2),
		Description: gofakeit.Sentence(12),
		StartDate:   models.NewDate(2024, 2, gofakeit.Number(1, 28)),
		Members:     []int64{creator},
		Creator:     creator,
		Updates:     []models.ProjectUpdate{},
	}
}

func setup(t *testing.T, projects ...models.Project) (*ProjectService, *mocks.API, *store.AppStore) {
	t.Helper()

	api := mocks.NewAPI(t)
	st := store.NewAppStore(slog.Default())
	svc := NewProjectService(slog.Default(), api, st, validate.New())

	if projects != nil {
		api.On("MaxPages").Return(10).Once()
		api.On("Get", mock.Anything, "projects/", mock.Anything).
			Run(mocks.Fill(2, mocks.Page("", projects))).
			Return(nil).Once()

		_, err := svc.FetchAll(context.Background())
		require.NoError(t, err)
	}

	return svc, api, st
}

func login(st *store.AppStore, user models.User) {
	st.Dispatch(store.Action{
		Type:    store.SliceAuth + "/" + store.OpLogin,
		Phase:   store.PhaseFulfilled,
		Payload: models.Session{Token: "tok", User: &user},
	})
}

func TestProjectService_UpdateSendsNoNestedID(t *testing.T) {
	p := fakeProject(3, 1)
	svc, api, st := setup(t, fakeProject(2, 1), p)

	req := dto.ProjectRequest{Title: "Mural v2", Description: "Bigger wall", StartDate: "2024-02-01"}

	resp := p
	resp.ID = 999
	resp.Title = "Mural v2"

	api.On("Patch", mock.Anything, "projects/3/", mock.MatchedBy(func(body dto.ProjectRequest) bool {
		return body.Title == "Mural v2" && body.Members != nil
	}), mock.Anything).
		Run(mocks.Fill(3, resp)).
		Return(nil).Once()

	got, err := svc.Update(context.Background(), 3, req)
	require.NoError(t, err)

	assert.Equal(t, int64(3), got.ID)
	items := st.Projects.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Mural v2", items[1].Title)
	_, ghost := st.Projects.Get(999)
	assert.False(t, ghost)
}

func TestProjectService_AddUpdateAppends(t *testing.T) {
	p := fakeProject(5, 42)
	svc, api, st := setup(t, p)
	login(st, models.User{PK: 42, Role: models.RoleMember})

	entry := models.ProjectUpdate{ID: 1, Description: "Primer coat done", CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	api.On("Post", mock.Anything, "projects/5/add-update/", dto.ProjectUpdateRequest{Description: "Primer coat done"}, mock.Anything).
		Run(mocks.Fill(3, entry)).
		Return(nil).Once()

	got, err := svc.AddUpdate(context.Background(), 5, dto.ProjectUpdateRequest{Description: "Primer coat done"})
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	after, _ := st.Projects.Get(5)
	assert.Equal(t, []models.ProjectUpdate{entry}, after.Updates)
	assert.Equal(t, p.Title, after.Title)
}

func TestProjectService_AddUpdateGuards(t *testing.T) {
	done := fakeProject(1, 42)
	done.IsCompleted = true
	foreign := fakeProject(2, 7)

	svc, _, st := setup(t, done, foreign)
	login(st, models.User{PK: 42, Role: models.RoleMember})

	_, err := svc.AddUpdate(context.Background(), 1, dto.ProjectUpdateRequest{Description: "late"})
	assert.ErrorIs(t, err, ErrProjectCompleted)

	_, err = svc.AddUpdate(context.Background(), 2, dto.ProjectUpdateRequest{Description: "not mine"})
	assert.ErrorIs(t, err, ErrNotCreator)

	_, err = svc.AddUpdate(context.Background(), 2, dto.ProjectUpdateRequest{})
	assert.ErrorIs(t, err, validate.ErrInvalid)
}

func TestProjectService_CompleteIsOneWay(t *testing.T) {
	p := fakeProject(8, 1)
	svc, api, st := setup(t, p)

	api.On("Post", mock.Anything, "projects/8/complete/", nil, nil).Return(nil).Once()

	require.NoError(t, svc.Complete(context.Background(), 8))
	require.NoError(t, svc.Complete(context.Background(), 8))

	got, _ := st.Projects.Get(8)
	assert.True(t, got.IsCompleted)
}

func TestProjectService_GetUpserts(t *testing.T) {
	svc, api, st := setup(t, fakeProject(1, 1))

	remote := fakeProject(9, 2)
	api.On("Get", mock.Anything, "projects/9/", mock.Anything).
		Run(mocks.Fill(2, remote)).
		Return(nil).Once()

	got, err := svc.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, remote, got)
	assert.Len(t, st.Projects.Items(), 2)
}

func TestProjectService_Stats(t *testing.T) {
	svc, api, st := setup(t)

	stats := models.ProjectStats{TotalProjects: 6, OngoingProjects: 4, CompletedProjects: 2, UserContributions: 11}
	api.On("Get", mock.Anything, "project-stats/", mock.Anything).
		Run(mocks.Fill(2, stats)).
		Return(nil).Once()

	got, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats, got)

	v, ok := st.ProjectStats.Value()
	require.True(t, ok)
	assert.Equal(t, stats, v)
}
