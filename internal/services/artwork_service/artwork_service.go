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
	typeFetchAll   = store.SliceArtworks + "/fetchAll"
	typeCreate     = store.SliceArtworks + "/create"
	typeUpdate     = store.SliceArtworks + "/update"
	typeRemove     = store.SliceArtworks + "/remove"
	typeApprove    = store.SliceArtworks + "/approve"
	typeReject     = store.SliceArtworks + "/reject"
	typeLike       = store.SliceArtworks + "/like"
	typeUnlike     = store.SliceArtworks + "/unlike"
	typeFeatured   = store.SliceFeatured + "/fetchAll"
	typeLiked      = store.SliceLiked + "/fetchAll"
	typeUnlikeList = store.SliceLiked + "/unlike"
	typeCategories = store.SliceCategories + "/fetch"
)

type ArtworkService struct {
	log      *slog.Logger
	api      client.API
	store    *store.AppStore
	validate *validate.Validator
}

func NewArtworkService(log *slog.Logger, api client.API, st *store.AppStore, v *validate.Validator) *ArtworkService {
	return &ArtworkService{
		log:      log,
		api:      api,
		store:    st,
		validate: v,
	}
}

func artworkPath(id int64, action string) string {
	if action == "" {
		return fmt.Sprintf("artwork/%d/", id)
	}
	return fmt.Sprintf("artwork/%d/%s/", id, action)
}

// FetchAll загружает все страницы списка работ и заменяет срез целиком
func (s *ArtworkService) FetchAll(ctx context.Context, filters dto.ArtworkFilters) ([]models.Artwork, error) {
	const op = "services.ArtworkService.FetchAll"

	log := s.log.With(slog.String("op", op))

	res, err := store.Run(ctx, s.store.Store, typeFetchAll, func(ctx context.Context) (store.ReplaceAll[models.Artwork], error) {
		items, err := client.Drain[models.Artwork](ctx, s.api, client.WithQuery("artwork/", filters.Values()))
		return store.ReplaceAll[models.Artwork]{Items: items}, err
	})
	if err != nil {
		log.Error("failed to fetch artworks", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("artworks fetched", slog.Int("count", len(res.Items)))

	return res.Items, nil
}

func (s *ArtworkService) Create(ctx context.Context, req dto.ArtworkRequest) (models.Artwork, error) {
	const op = "services.ArtworkService.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", req.Title),
	)

	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid artwork form", sl.Err(err))
		return models.Artwork{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := store.Run(ctx, s.store.Store, typeCreate, func(ctx context.Context) (store.Added[models.Artwork], error) {
		var created models.Artwork
		err := s.api.Post(ctx, "artwork/", req.Body(), &created)
		return store.Added[models.Artwork]{Item: created}, err
	})
	if err != nil {
		log.Error("failed to create artwork", sl.Err(err))
		return models.Artwork{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("artwork submitted", slog.Int64("id", res.Item.ID))

	return res.Item, nil
}

func (s *ArtworkService) Update(ctx context.Context, id int64, req dto.ArtworkRequest) (models.Artwork, error) {
	const op = "services.ArtworkService.Update"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if err := s.validate.Struct(req); err != nil {
		log.Warn("invalid artwork form", sl.Err(err))
		return models.Artwork{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := store.Run(ctx, s.store.Store, typeUpdate, func(ctx context.Context) (store.Replaced[models.Artwork], error) {
		var updated models.Artwork
		err := s.api.Put(ctx, artworkPath(id, ""), req.Body(), &updated)
		updated.ID = id
		return store.Replaced[models.Artwork]{Item: updated}, err
	})
	if err != nil {
		log.Error("failed to update artwork", sl.Err(err))
		return models.Artwork{}, fmt.Errorf("%s: %w", op, err)
	}

	return res.Item, nil
}

func (s *ArtworkService) Remove(ctx context.Context, id int64) error {
	const op = "services.ArtworkService.Remove"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	_, err := store.Run(ctx, s.store.Store, typeRemove, func(ctx context.Context) (store.Removed, error) {
		return store.Removed{ID: id}, s.api.Delete(ctx, artworkPath(id, ""), nil)
	})
	if err != nil {
		log.Error("failed to delete artwork", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("artwork deleted")

	return nil
}

// Approve и Reject меняют только статус модерации (и отзыв)
func (s *ArtworkService) Approve(ctx context.Context, id int64) error {
	const op = "services.ArtworkService.Approve"

	_, err := store.Run(ctx, s.store.Store, typeApprove, func(ctx context.Context) (store.Patched[models.Artwork], error) {
		return store.Patched[models.Artwork]{ID: id, Apply: func(a *models.Artwork) {
			a.ApprovalStatus = models.StatusApproved
		}}, s.api.Patch(ctx, artworkPath(id, "approve"), nil, nil)
	})
	if err != nil {
		s.log.Error("failed to approve artwork", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *ArtworkService) Reject(ctx context.Context, id int64, feedback string) error {
	const op = "services.ArtworkService.Reject"

	body := dto.RejectArtworkRequest{Feedback: feedback}

	_, err := store.Run(ctx, s.store.Store, typeReject, func(ctx context.Context) (store.Patched[models.Artwork], error) {
		return store.Patched[models.Artwork]{ID: id, Apply: func(a *models.Artwork) {
			a.ApprovalStatus = models.StatusRejected
			a.Feedback = feedback
		}}, s.api.Patch(ctx, artworkPath(id, "reject"), body, nil)
	})
	if err != nil {
		s.log.Error("failed to reject artwork", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

type likeResponse struct {
	LikesCount *int `json:"likes_count"`
}

func (s *ArtworkService) Like(ctx context.Context, id int64) error {
	const op = "services.ArtworkService.Like"

	_, err := store.Run(ctx, s.store.Store, typeLike, func(ctx context.Context) (store.Patched[models.Artwork], error) {
		var resp likeResponse
		err := s.api.Post(ctx, artworkPath(id, "like"), nil, &resp)
		return store.Patched[models.Artwork]{ID: id, Apply: func(a *models.Artwork) {
			a.IsLiked = true
			if resp.LikesCount != nil {
				a.LikesCount = *resp.LikesCount
			} else {
				a.LikesCount++
			}
		}}, err
	})
	if err != nil {
		s.log.Error("failed to like artwork", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Unlike снимает отметку и убирает работу из списка понравившихся
func (s *ArtworkService) Unlike(ctx context.Context, id int64) error {
	const op = "services.ArtworkService.Unlike"

	_, err := store.Run(ctx, s.store.Store, typeUnlike, func(ctx context.Context) (store.Patched[models.Artwork], error) {
		var resp likeResponse
		err := s.api.Delete(ctx, artworkPath(id, "unlike"), &resp)
		return store.Patched[models.Artwork]{ID: id, Apply: func(a *models.Artwork) {
			a.IsLiked = false
			switch {
			case resp.LikesCount != nil:
				a.LikesCount = *resp.LikesCount
			case a.LikesCount > 0:
				a.LikesCount--
			}
		}}, err
	})
	if err != nil {
		s.log.Error("failed to unlike artwork", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.store.Dispatch(store.Action{Type: typeUnlikeList, Phase: store.PhaseFulfilled, Payload: store.Removed{ID: id}})

	return nil
}

func (s *ArtworkService) FetchFeatured(ctx context.Context) ([]models.Artwork, error) {
	const op = "services.ArtworkService.FetchFeatured"

	res, err := store.Run(ctx, s.store.Store, typeFeatured, func(ctx context.Context) (store.ReplaceAll[models.Artwork], error) {
		items, err := client.Drain[models.Artwork](ctx, s.api, "featured-artworks/")
		return store.ReplaceAll[models.Artwork]{Items: items}, err
	})
	if err != nil {
		s.log.Error("failed to fetch featured artworks", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.Items, nil
}

func (s *ArtworkService) FetchLiked(ctx context.Context) ([]models.Artwork, error) {
	const op = "services.ArtworkService.FetchLiked"

	res, err := store.Run(ctx, s.store.Store, typeLiked, func(ctx context.Context) (store.ReplaceAll[models.Artwork], error) {
		items, err := client.Drain[models.Artwork](ctx, s.api, "artworks/liked/")
		return store.ReplaceAll[models.Artwork]{Items: items}, err
	})
	if err != nil {
		s.log.Error("failed to fetch liked artworks", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.Items, nil
}

// CategoryAnalytics число работ по категориям, посчитанное сервером
func (s *ArtworkService) CategoryAnalytics(ctx context.Context) ([]models.CategoryCount, error) {
	const op = "services.ArtworkService.CategoryAnalytics"

	res, err := store.Run(ctx, s.store.Store, typeCategories, func(ctx context.Context) (store.Loaded[[]models.CategoryCount], error) {
		counts := make([]models.CategoryCount, 0)
		err := s.api.Get(ctx, "artwork/category_analytics/", &counts)
		return store.Loaded[[]models.CategoryCount]{Value: counts}, err
	})
	if err != nil {
		s.log.Error("failed to fetch category analytics", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.Value, nil
}
