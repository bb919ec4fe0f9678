package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"artclub/internal/domain/models"
	"artclub/internal/lib/logger/sl"
	"artclub/internal/store"
	"artclub/internal/transport/http/dto"
	"artclub/internal/view"

	"github.com/labstack/echo/v4"
)

const dashboardLimit = 5

type dashboardView struct {
	User            *models.User                `json:"user"`
	Role            models.Role                 `json:"role"`
	PendingArtworks int                         `json:"pending_artworks"`
	RecentArtworks  []models.Artwork            `json:"recent_artworks"`
	UpcomingEvents  []models.Event              `json:"upcoming_events"`
	ActiveProjects  []models.Project            `json:"active_projects"`
	Errors          map[string]*store.ErrorInfo `json:"errors,omitempty"`
}

// Dashboard godoc
// @Summary Главная панель
// @Description Загружает работы, события и проекты параллельно. Ошибка одного источника не мешает остальным.
// @Tags dashboard
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/dashboard [get]
func (r *Routers) Dashboard(c echo.Context) error {
	const op = "http.routers.Dashboard"

	log := r.log.With(slog.String("op", op))

	sess := r.current(c)
	ctx := sess.Context(c.Request().Context())

	loaders := map[string]func(ctx context.Context) error{
		store.SliceArtworks: func(ctx context.Context) error {
			_, err := sess.Artworks.FetchAll(ctx, dto.ArtworkFilters{})
			return err
		},
		store.SliceEvents: func(ctx context.Context) error {
			_, err := sess.Events.FetchAll(ctx)
			return err
		},
		store.SliceProjects: func(ctx context.Context) error {
			_, err := sess.Projects.FetchAll(ctx)
			return err
		},
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs = make(map[string]error, len(loaders))
	)
	for name, load := range loaders {
		name, load := name, load
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := load(ctx); err != nil {
				mu.Lock()
				errs[name] = err
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	out := dashboardView{Errors: map[string]*store.ErrorInfo{}}
	for name, err := range errs {
		if !fetchFailed(err) {
			return r.fail(c, sess, err)
		}
		log.Warn("dashboard source failed", slog.String("slice", name), sl.Err(err))
		out.Errors[name] = store.NormalizeError(err)
	}

	auth := sess.Auth.Session()
	out.User = auth.User
	out.Role = auth.Role

	artworks := sess.Store.Artworks.Items()
	if auth.Role == models.RoleAdmin {
		out.PendingArtworks = len(view.PendingArtworks(artworks))
	}
	out.RecentArtworks = view.Apply(view.ApprovedArtworks(artworks), view.ArtworkQuery(view.ArtworkParams{
		ListParams: view.ListParams{Sort: view.SortNewest, PerPage: dashboardLimit},
	})).Items
	out.UpcomingEvents = view.Apply(sess.Store.Events.Items(), view.EventQuery(view.EventParams{
		ListParams: view.ListParams{Sort: view.SortDate, PerPage: dashboardLimit},
		Scope:      view.ScopeUpcoming,
	}, r.now())).Items
	out.ActiveProjects = view.Apply(sess.Store.Projects.Items(), view.ProjectQuery(view.ProjectParams{
		ListParams: view.ListParams{PerPage: dashboardLimit},
		Completed:  "false",
	})).Items

	if len(out.Errors) == 0 {
		out.Errors = nil
	}

	return success(c, http.StatusOK, out)
}

// State godoc
// @Summary Снимок состояния сессии
// @Description Все срезы хранилища текущей сессии, токен не отдаётся
// @Tags dashboard
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/state [get]
func (r *Routers) State(c echo.Context) error {
	return success(c, http.StatusOK, r.current(c).Store.Snapshot())
}
