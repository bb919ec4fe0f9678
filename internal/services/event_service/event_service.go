package services

import (
	"context"
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

const (
	typeFetchAll     = store.SliceEvents + "/fetchAll"
	typeGet          = store.SliceEvents + "/get"
	typeCreate       = store.SliceEvents + "/create"
	typeUpdate       = store.SliceEvents + "/update"
	typePatch        = store.SliceEvents + "/patch"
	typeRemove       = store.SliceEvents + "/remove"
	typeSetAttendees = store.SliceEvents + "/setAttendees"
	typeComplete     = store.SliceEvents + "/complete"
	typeStats        = store.SliceEventStats + "/fetch"
)

type EventService struct {
	log      *slog.Logger
	api      client.API
	store    *store.AppStore
	validate *validate.Validator
}

func NewEventService(log *slog.Logger, api client.API, st *store.AppStore, v *validate.Validator) *EventService {
	return &EventService{
		log:      log,
		api:      api,
		store:    st,
		validate: v,
	}
}

func eventPath(id int64) string {
	return fmt.Sprintf("events/%d/", id)
}

func (s *EventService) FetchAll(ctx context.Context) ([]models.Event, error) {
	const op = "services.EventService.FetchAll"

	log := s.log.With(slog.String("op", op))

	res, err := store.Run(ctx, s.store.Store, typeFetchAll, func(ctx context.Context) (store.ReplaceAll[models.Event], error) {
		items, err := client.Drain[models.Event](ctx, s.api, "events/")
		return store.ReplaceAll[models.Event]{Items: items}, err
	})
	if err != nil {
		log.Error("failed to fetch events", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.Items, nil
}

// Get загружает одно мероприятие и кладёт его в срез
func (s *EventService) Get(ctx context.Context, id int64) (models.Event, error) {
	const op = "services.EventService.Get"

	res, err := store.Run(ctx, s.store.Store, typeGet, func(ctx context.Context) (store.Added[models.Event], error) {
		var e models.Event
		err := s.api.Get(ctx, eventPath(id), &e)
		e.ID = id
		return store.Added[models.Event]{Item: e}, err
	})
	if err != nil {
		s.log.Error("failed to get event", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Item, nil
}

func (s *EventService) Create(ctx context.Context, req dto.EventRequest) (models.Event, error) {
	const op = "services.EventService.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", req.Title),
	)

	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid event form", sl.Err(err))
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := store.Run(ctx, s.store.Store, typeCreate, func(ctx context.Context) (store.Added[models.Event], error) {
		var created models.Event
		err := s.api.Post(ctx, "events/", req.Body(), &created)
		return store.Added[models.Event]{Item: created}, err
	})
	if err != nil {
		log.Error("failed to create event", sl.Err(err))
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("event created", slog.Int64("id", res.Item.ID))

	return res.Item, nil
}

// Update полная замена мероприятия (PUT)
func (s *EventService) Update(ctx context.Context, id int64, req dto.EventRequest) (models.Event, error) {
	const op = "services.EventService.Update"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid event form", sl.Err(err))
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := store.Run(ctx, s.store.Store, typeUpdate, func(ctx context.Context) (store.Replaced[models.Event], error) {
		var updated models.Event
		err := s.api.Put(ctx, eventPath(id), req.Body(), &updated)
		updated.ID = id
		return store.Replaced[models.Event]{Item: updated}, err
	})
	if err != nil {
		log.Error("failed to update event", sl.Err(err))
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Item, nil
}

// Patch частичное изменение, в срез кладётся ответ сервера целиком
func (s *EventService) Patch(ctx context.Context, id int64, req dto.EventPatch) (models.Event, error) {
	const op = "services.EventService.Patch"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid event patch", sl.Err(err))
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := store.Run(ctx, s.store.Store, typePatch, func(ctx context.Context) (store.Replaced[models.Event], error) {
		var updated models.Event
		err := s.api.Patch(ctx, eventPath(id), req, &updated)
		updated.ID = id
		return store.Replaced[models.Event]{Item: updated}, err
	})
	if err != nil {
		log.Error("failed to patch event", sl.Err(err))
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Item, nil
}

func (s *EventService) Remove(ctx context.Context, id int64) error {
	const op = "services.EventService.Remove"

	_, err := store.Run(ctx, s.store.Store, typeRemove, func(ctx context.Context) (store.Removed, error) {
		return store.Removed{ID: id}, s.api.Delete(ctx, eventPath(id), nil)
	})
	if err != nil {
		s.log.Error("failed to delete event", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SetAttendees заменяет список участников, остальные поля не трогает
func (s *EventService) SetAttendees(ctx context.Context, id int64, attendees []int64) error {
	const op = "services.EventService.SetAttendees"

	ids := slices.Clone(attendees)
	if ids == nil {
		ids = []int64{}
	}

	_, err := store.Run(ctx, s.store.Store, typeSetAttendees, func(ctx context.Context) (store.Patched[models.Event], error) {
		return store.Patched[models.Event]{ID: id, Apply: func(e *models.Event) {
			e.Attendees = ids
		}}, s.api.Patch(ctx, eventPath(id), dto.AttendeesRequest{Attendees: ids}, nil)
	})
	if err != nil {
		s.log.Error("failed to set attendees", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *EventService) Complete(ctx context.Context, id int64) error {
	const op = "services.EventService.Complete"

	done := true
	_, err := store.Run(ctx, s.store.Store, typeComplete, func(ctx context.Context) (store.Patched[models.Event], error) {
		return store.Patched[models.Event]{ID: id, Apply: func(e *models.Event) {
			e.IsCompleted = true
		}}, s.api.Patch(ctx, eventPath(id), dto.EventPatch{IsCompleted: &done}, nil)
	})
	if err != nil {
		s.log.Error("failed to complete event", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Stats берёт events/stats/, а на старых серверах event-stats/
func (s *EventService) Stats(ctx context.Context) (models.EventStats, error) {
	const op = "services.EventService.Stats"

	log := s.log.With(slog.String("op", op))

	res, err := store.Run(ctx, s.store.Store, typeStats, func(ctx context.Context) (store.Loaded[models.EventStats], error) {
		var stats models.EventStats
		err := s.api.Get(ctx, "events/stats/", &stats)
		if client.IsKind(err, client.KindNotFound) {
			log.Debug("events/stats/ not found, trying event-stats/")
			err = s.api.Get(ctx, "event-stats/", &stats)
		}
		return store.Loaded[models.EventStats]{Value: stats}, err
	})
	if err != nil {
		log.Error("failed to fetch event stats", sl.Err(err))
		return models.EventStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Value, nil
}
