package services

import (
	"context"
	"fmt"
	"log/slog"

	"artclub/internal/client"
	"artclub/internal/domain/models"
	"artclub/internal/lib/logger/sl"
	"artclub/internal/lib/validate"
	"artclub/internal/store"
	"artclub/internal/transport/http/dto"
)

const (
	typeFetchAll          = store.SliceUsers + "/fetchAll"
	typeGet               = store.SliceUsers + "/get"
	typeUpdateRole        = store.SliceUsers + "/updateRole"
	typeActivate          = store.SliceUsers + "/activate"
	typeDeactivate        = store.SliceUsers + "/deactivate"
	typeRemove            = store.SliceUsers + "/remove"
	typeMemberStats       = store.SliceMemberStats + "/fetch"
	typePreferences       = store.SlicePreferences + "/fetch"
	typeUpdatePreferences = store.SlicePreferences + "/update"
	typeActivityLogs      = store.SliceActivityLogs + "/fetchAll"
	typeAnalytics         = store.SliceAnalytics + "/fetch"
)

// UserService управление участниками (админка) и личные данные участника
type UserService struct {
	log      *slog.Logger
	api      client.API
	store    *store.AppStore
	validate *validate.Validator
}

func NewUserService(log *slog.Logger, api client.API, st *store.AppStore, v *validate.Validator) *UserService {
	return &UserService{
		log:      log,
		api:      api,
		store:    st,
		validate: v,
	}
}

func userPath(id int64, action string) string {
	if action == "" {
		return fmt.Sprintf("users/%d/", id)
	}
	return fmt.Sprintf("users/%d/%s/", id, action)
}

func (s *UserService) FetchAll(ctx context.Context) ([]models.User, error) {
	const op = "services.UserService.FetchAll"

	res, err := store.Run(ctx, s.store.Store, typeFetchAll, func(ctx context.Context) (store.ReplaceAll[models.User], error) {
		items, err := client.Drain[models.User](ctx, s.api, "users/")
		return store.ReplaceAll[models.User]{Items: items}, err
	})
	if err != nil {
		s.log.Error("failed to fetch users", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.Items, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	const op = "services.UserService.Get"

	res, err := store.Run(ctx, s.store.Store, typeGet, func(ctx context.Context) (store.Added[models.User], error) {
		var u models.User
		err := s.api.Get(ctx, userPath(id, ""), &u)
		u.PK = id
		return store.Added[models.User]{Item: u}, err
	})
	if err != nil {
		s.log.Error("failed to get user", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Item, nil
}

func (s *UserService) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	const op = "services.UserService.UpdateRole"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
		slog.String("role", string(role)),
	)

	req := dto.RoleRequest{Role: role}
	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid role", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := store.Run(ctx, s.store.Store, typeUpdateRole, func(ctx context.Context) (store.Patched[models.User], error) {
		return store.Patched[models.User]{ID: id, Apply: func(u *models.User) {
			u.Role = role
		}}, s.api.Patch(ctx, userPath(id, "update-role"), req, nil)
	})
	if err != nil {
		log.Error("failed to update role", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("role updated")

	return nil
}

func (s *UserService) Activate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, true)
}

func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, false)
}

func (s *UserService) setActive(ctx context.Context, id int64, active bool) error {
	const op = "services.UserService.setActive"

	typ, action := typeActivate, "activate"
	if !active {
		typ, action = typeDeactivate, "deactivate"
	}

	_, err := store.Run(ctx, s.store.Store, typ, func(ctx context.Context) (store.Patched[models.User], error) {
		return store.Patched[models.User]{ID: id, Apply: func(u *models.User) {
			u.IsActive = active
		}}, s.api.Patch(ctx, userPath(id, action), nil, nil)
	})
	if err != nil {
		s.log.Error("failed to "+action+" user", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *UserService) Remove(ctx context.Context, id int64) error {
	const op = "services.UserService.Remove"

	_, err := store.Run(ctx, s.store.Store, typeRemove, func(ctx context.Context) (store.Removed, error) {
		return store.Removed{ID: id}, s.api.Delete(ctx, userPath(id, ""), nil)
	})
	if err != nil {
		s.log.Error("failed to delete user", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *UserService) MemberStats(ctx context.Context) (models.MemberStats, error) {
	const op = "services.UserService.MemberStats"

	res, err := store.Run(ctx, s.store.Store, typeMemberStats, func(ctx context.Context) (store.Loaded[models.MemberStats], error) {
		var stats models.MemberStats
		err := s.api.Get(ctx, "users/member-stats/", &stats)
		return store.Loaded[models.MemberStats]{Value: stats}, err
	})
	if err != nil {
		s.log.Error("failed to fetch member stats", slog.String("op", op), sl.Err(err))
		return models.MemberStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Value, nil
}

func (s *UserService) Preferences(ctx context.Context) (models.Preferences, error) {
	const op = "services.UserService.Preferences"

	res, err := store.Run(ctx, s.store.Store, typePreferences, func(ctx context.Context) (store.Loaded[models.Preferences], error) {
		prefs := models.Preferences{}
		err := s.api.Get(ctx, "users/preferences/", &prefs)
		return store.Loaded[models.Preferences]{Value: prefs}, err
	})
	if err != nil {
		s.log.Error("failed to fetch preferences", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.Value, nil
}

// UpdatePreferences отправляет изменённые флаги; в срез кладётся ответ сервера
func (s *UserService) UpdatePreferences(ctx context.Context, prefs models.Preferences) (models.Preferences, error) {
	const op = "services.UserService.UpdatePreferences"

	res, err := store.Run(ctx, s.store.Store, typeUpdatePreferences, func(ctx context.Context) (store.Loaded[models.Preferences], error) {
		saved := models.Preferences{}
		if err := s.api.Patch(ctx, "users/preferences/", prefs, &saved); err != nil {
			return store.Loaded[models.Preferences]{}, err
		}
		if len(saved) == 0 {
			saved = prefs
		}
		return store.Loaded[models.Preferences]{Value: saved}, nil
	})
	if err != nil {
		s.log.Error("failed to update preferences", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.Value, nil
}

func (s *UserService) ActivityLogs(ctx context.Context) ([]models.ActivityLog, error) {
	const op = "services.UserService.ActivityLogs"

	res, err := store.Run(ctx, s.store.Store, typeActivityLogs, func(ctx context.Context) (store.ReplaceAll[models.ActivityLog], error) {
		items, err := client.Drain[models.ActivityLog](ctx, s.api, "activity-logs/")
		return store.ReplaceAll[models.ActivityLog]{Items: items}, err
	})
	if err != nil {
		s.log.Error("failed to fetch activity logs", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.Items, nil
}

func (s *UserService) Analytics(ctx context.Context) (models.Analytics, error) {
	const op = "services.UserService.Analytics"

	res, err := store.Run(ctx, s.store.Store, typeAnalytics, func(ctx context.Context) (store.Loaded[models.Analytics], error) {
		var a models.Analytics
		err := s.api.Get(ctx, "analytics/", &a)
		return store.Loaded[models.Analytics]{Value: a}, err
	})
	if err != nil {
		s.log.Error("failed to fetch analytics", slog.String("op", op), sl.Err(err))
		return models.Analytics{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Value, nil
}
