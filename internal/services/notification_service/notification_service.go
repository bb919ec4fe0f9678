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
	typeFetchAll = store.SliceNotifications + "/fetchAll"
	typeCreate   = store.SliceNotifications + "/create"
	typeUpdate   = store.SliceNotifications + "/update"
	typeMarkRead = store.SliceNotifications + "/markRead"
	typeRemove   = store.SliceNotifications + "/remove"
)

type NotificationService struct {
	log      *slog.Logger
	api      client.API
	store    *store.AppStore
	validate *validate.Validator
}

func NewNotificationService(log *slog.Logger, api client.API, st *store.AppStore, v *validate.Validator) *NotificationService {
	return &NotificationService{
		log:      log,
		api:      api,
		store:    st,
		validate: v,
	}
}

func notificationPath(id int64, action string) string {
	if action == "" {
		return fmt.Sprintf("notifications/%d/", id)
	}
	return fmt.Sprintf("notifications/%d/%s/", id, action)
}

func (s *NotificationService) FetchAll(ctx context.Context) ([]models.Notification, error) {
	const op = "services.NotificationService.FetchAll"

	res, err := store.Run(ctx, s.store.Store, typeFetchAll, func(ctx context.Context) (store.ReplaceAll[models.Notification], error) {
		items, err := client.Drain[models.Notification](ctx, s.api, "notifications/")
		return store.ReplaceAll[models.Notification]{Items: items}, err
	})
	if err != nil {
		s.log.Error("failed to fetch notifications", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.Items, nil
}

// Create рассылка от администратора: всем с ролью или одному получателю
func (s *NotificationService) Create(ctx context.Context, req dto.NotificationRequest) (models.Notification, error) {
	const op = "services.NotificationService.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.String("type", string(req.NotificationType)),
	)

	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid notification form", sl.Err(err))
		return models.Notification{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := store.Run(ctx, s.store.Store, typeCreate, func(ctx context.Context) (store.Added[models.Notification], error) {
		var created models.Notification
		err := s.api.Post(ctx, "notifications/", req, &created)
		return store.Added[models.Notification]{Item: created}, err
	})
	if err != nil {
		log.Error("failed to create notification", sl.Err(err))
		return models.Notification{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("notification created", slog.Int64("id", res.Item.ID))

	return res.Item, nil
}

func (s *NotificationService) Update(ctx context.Context, id int64, req dto.NotificationRequest) (models.Notification, error) {
	const op = "services.NotificationService.Update"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid notification form", sl.Err(err))
		return models.Notification{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := store.Run(ctx, s.store.Store, typeUpdate, func(ctx context.Context) (store.Replaced[models.Notification], error) {
		var updated models.Notification
		err := s.api.Patch(ctx, notificationPath(id, ""), req, &updated)
		updated.ID = id
		return store.Replaced[models.Notification]{Item: updated}, err
	})
	if err != nil {
		log.Error("failed to update notification", sl.Err(err))
		return models.Notification{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Item, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	const op = "services.NotificationService.MarkRead"

	_, err := store.Run(ctx, s.store.Store, typeMarkRead, func(ctx context.Context) (store.Patched[models.Notification], error) {
		return store.Patched[models.Notification]{ID: id, Apply: func(n *models.Notification) {
			n.Read = true
		}}, s.api.Patch(ctx, notificationPath(id, "mark_as_read"), nil, nil)
	})
	if err != nil {
		s.log.Error("failed to mark notification read", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *NotificationService) Remove(ctx context.Context, id int64) error {
	const op = "services.NotificationService.Remove"

	_, err := store.Run(ctx, s.store.Store, typeRemove, func(ctx context.Context) (store.Removed, error) {
		return store.Removed{ID: id}, s.api.Delete(ctx, notificationPath(id, ""), nil)
	})
	if err != nil {
		s.log.Error("failed to delete notification", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
