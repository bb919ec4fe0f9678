package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"artclub/internal/client"
	"artclub/internal/domain/models"
	"artclub/internal/lib/logger/sl"
	"artclub/internal/lib/validate"
	"artclub/internal/store"
	"artclub/internal/transport/http/dto"
)

var (
	ErrProjectCompleted = errors.New("project is already completed")
	ErrNotCreator       = errors.New("only the project creator can post updates")
)

const (
	typeFetchAll  = store.SliceProjects + "/fetchAll"
	typeGet       = store.SliceProjects + "/get"
	typeCreate    = store.SliceProjects + "/create"
	typeUpdate    = store.SliceProjects + "/update"
	typeRemove    = store.SliceProjects + "/remove"
	typeAddUpdate = store.SliceProjects + "/addUpdate"
	typeComplete  = store.SliceProjects + "/complete"
	typeStats     = store.SliceProjectStats + "/fetch"
)

type ProjectService struct {
	log      *slog.Logger
	api      client.API
	store    *store.AppStore
	validate *validate.Validator
}

func NewProjectService(log *slog.Logger, api client.API, st *store.AppStore, v *validate.Validator) *ProjectService {
	return &ProjectService{
		log:      log,
		api:      api,
		store:    st,
		validate: v,
	}
}

func projectPath(id int64, action string) string {
	if action == "" {
		return fmt.Sprintf("projects/%d/", id)
	}
	return fmt.Sprintf("projects/%d/%s/", id, action)
}

func (s *ProjectService) FetchAll(ctx context.Context) ([]models.Project, error) {
	const op = "services.ProjectService.FetchAll"

	res, err := store.Run(ctx, s.store.Store, typeFetchAll, func(ctx context.Context) (store.ReplaceAll[models.Project], error) {
		items, err := client.Drain[models.Project](ctx, s.api, "projects/")
		return store.ReplaceAll[models.Project]{Items: items}, err
	})
	if err != nil {
		s.log.Error("failed to fetch projects", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.Items, nil
}

// Get загружает один проект и кладёт его в срез (новый в конец, известный на место)
func (s *ProjectService) Get(ctx context.Context, id int64) (models.Project, error) {
	const op = "services.ProjectService.Get"

	res, err := store.Run(ctx, s.store.Store, typeGet, func(ctx context.Context) (store.Added[models.Project], error) {
		var p models.Project
		err := s.api.Get(ctx, projectPath(id, ""), &p)
		p.ID = id
		return store.Added[models.Project]{Item: p}, err
	})
	if err != nil {
		s.log.Error("failed to get project", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Item, nil
}

func (s *ProjectService) Create(ctx context.Context, req dto.ProjectRequest) (models.Project, error) {
	const op = "services.ProjectService.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", req.Title),
	)

	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid project form", sl.Err(err))
		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := store.Run(ctx, s.store.Store, typeCreate, func(ctx context.Context) (store.Added[models.Project], error) {
		var created models.Project
		err := s.api.Post(ctx, "projects/", req.Body(), &created)
		return store.Added[models.Project]{Item: created}, err
	})
	if err != nil {
		log.Error("failed to create project", sl.Err(err))
		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("project created", slog.Int64("id", res.Item.ID))

	return res.Item, nil
}

// Update PATCH проекта. Идентификатор берётся только из пути.
func (s *ProjectService) Update(ctx context.Context, id int64, req dto.ProjectRequest) (models.Project, error) {
	const op = "services.ProjectService.Update"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid project form", sl.Err(err))
		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := store.Run(ctx, s.store.Store, typeUpdate, func(ctx context.Context) (store.Replaced[models.Project], error) {
		var updated models.Project
		err := s.api.Patch(ctx, projectPath(id, ""), req.Body(), &updated)
		updated.ID = id
		return store.Replaced[models.Project]{Item: updated}, err
	})
	if err != nil {
		log.Error("failed to update project", sl.Err(err))
		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Item, nil
}

func (s *ProjectService) Remove(ctx context.Context, id int64) error {
	const op = "services.ProjectService.Remove"

	_, err := store.Run(ctx, s.store.Store, typeRemove, func(ctx context.Context) (store.Removed, error) {
		return store.Removed{ID: id}, s.api.Delete(ctx, projectPath(id, ""), nil)
	})
	if err != nil {
		s.log.Error("failed to delete project", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AddUpdate добавляет запись о ходе работы. Писать может только автор,
// пока проект не завершён; известный срезу проект проверяется до запроса.
func (s *ProjectService) AddUpdate(ctx context.Context, id int64, req dto.ProjectUpdateRequest) (models.ProjectUpdate, error) {
	const op = "services.ProjectService.AddUpdate"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid project update", sl.Err(err))
		return models.ProjectUpdate{}, fmt.Errorf("%s: %w", op, err)
	}

	if p, ok := s.store.Projects.Get(id); ok {
		if p.IsCompleted {
			return models.ProjectUpdate{}, fmt.Errorf("%s: %w", op, ErrProjectCompleted)
		}
		if u := s.store.Auth.State().User; u != nil && p.Creator != 0 && p.Creator != u.PK {
			return models.ProjectUpdate{}, fmt.Errorf("%s: %w", op, ErrNotCreator)
		}
	}

	var entry models.ProjectUpdate
	_, err := store.Run(ctx, s.store.Store, typeAddUpdate, func(ctx context.Context) (store.Patched[models.Project], error) {
		err := s.api.Post(ctx, projectPath(id, "add-update"), req.Body(), &entry)
		return store.Patched[models.Project]{ID: id, Apply: func(p *models.Project) {
			p.Updates = append(slices.Clone(p.Updates), entry)
		}}, err
	})
	if err != nil {
		log.Error("failed to add project update", sl.Err(err))
		return models.ProjectUpdate{}, fmt.Errorf("%s: %w", op, err)
	}

	return entry, nil
}

// Complete переводит проект в завершённые; обратного перехода нет
func (s *ProjectService) Complete(ctx context.Context, id int64) error {
	const op = "services.ProjectService.Complete"

	if p, ok := s.store.Projects.Get(id); ok && p.IsCompleted {
		return nil
	}

	_, err := store.Run(ctx, s.store.Store, typeComplete, func(ctx context.Context) (store.Patched[models.Project], error) {
		return store.Patched[models.Project]{ID: id, Apply: func(p *models.Project) {
			p.IsCompleted = true
		}}, s.api.Post(ctx, projectPath(id, "complete"), nil, nil)
	})
	if err != nil {
		s.log.Error("failed to complete project", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Stats берёт project-stats/, при 404 пробует projects/stats/
func (s *ProjectService) Stats(ctx context.Context) (models.ProjectStats, error) {
	const op = "services.ProjectService.Stats"

	log := s.log.With(slog.String("op", op))

	res, err := store.Run(ctx, s.store.Store, typeStats, func(ctx context.Context) (store.Loaded[models.ProjectStats], error) {
		var stats models.ProjectStats
		err := s.api.Get(ctx, "project-stats/", &stats)
		if client.IsKind(err, client.KindNotFound) {
			log.Debug("project-stats/ not found, trying projects/stats/")
			err = s.api.Get(ctx, "projects/stats/", &stats)
		}
		return store.Loaded[models.ProjectStats]{Value: stats}, err
	})
	if err != nil {
		log.Error("failed to fetch project stats", sl.Err(err))
		return models.ProjectStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Value, nil
}
