package store

import (
	"context"
	"log/slog"

	"artclub/internal/client"
	"artclub/internal/domain/models"
)

const (
	SliceAuth          = "auth"
	SliceArtworks      = "artworks"
	SliceFeatured      = "featuredArtworks"
	SliceLiked         = "likedArtworks"
	SliceCategories    = "categoryAnalytics"
	SliceEvents        = "events"
	SliceProjects      = "projects"
	SliceUsers         = "users"
	SliceNotifications = "notifications"
	SliceActivityLogs  = "activityLogs"
	SliceEventStats    = "eventStats"
	SliceProjectStats  = "projectStats"
	SliceMemberStats   = "memberStats"
	SliceAnalytics     = "analytics"
	SlicePreferences   = "preferences"
	SliceProfile       = "profile"
)

// AppStore дерево состояния приложения с типизированным доступом к срезам
type AppStore struct {
	*Store

	Auth          *AuthSlice
	Artworks      *EntitySlice[models.Artwork]
	Featured      *EntitySlice[models.Artwork]
	Liked         *EntitySlice[models.Artwork]
	Categories    *ObjectSlice[[]models.CategoryCount]
	Events        *EntitySlice[models.Event]
	Projects      *EntitySlice[models.Project]
	Users         *EntitySlice[models.User]
	Notifications *EntitySlice[models.Notification]
	ActivityLogs  *EntitySlice[models.ActivityLog]
	EventStats    *ObjectSlice[models.EventStats]
	ProjectStats  *ObjectSlice[models.ProjectStats]
	MemberStats   *ObjectSlice[models.MemberStats]
	Analytics     *ObjectSlice[models.Analytics]
	Preferences   *ObjectSlice[models.Preferences]
	Profile       *ObjectSlice[models.User]
}

func NewAppStore(log *slog.Logger) *AppStore {
	app := &AppStore{
		Auth:          NewAuthSlice(),
		Artworks:      NewEntitySlice[models.Artwork](SliceArtworks),
		Featured:      NewEntitySlice[models.Artwork](SliceFeatured),
		Liked:         NewEntitySlice[models.Artwork](SliceLiked),
		Categories:    NewObjectSlice[[]models.CategoryCount](SliceCategories),
		Events:        NewEntitySlice[models.Event](SliceEvents),
		Projects:      NewEntitySlice[models.Project](SliceProjects),
		Users:         NewEntitySlice[models.User](SliceUsers),
		Notifications: NewEntitySlice[models.Notification](SliceNotifications),
		ActivityLogs:  NewEntitySlice[models.ActivityLog](SliceActivityLogs),
		EventStats:    NewObjectSlice[models.EventStats](SliceEventStats),
		ProjectStats:  NewObjectSlice[models.ProjectStats](SliceProjectStats),
		MemberStats:   NewObjectSlice[models.MemberStats](SliceMemberStats),
		Analytics:     NewObjectSlice[models.Analytics](SliceAnalytics),
		Preferences:   NewObjectSlice[models.Preferences](SlicePreferences),
		Profile:       NewObjectSlice[models.User](SliceProfile),
	}

	// имена срезов уникальны, ошибки регистрации быть не может
	s, err := New(log,
		app.Auth,
		app.Artworks,
		app.Featured,
		app.Liked,
		app.Categories,
		app.Events,
		app.Projects,
		app.Users,
		app.Notifications,
		app.ActivityLogs,
		app.EventStats,
		app.ProjectStats,
		app.MemberStats,
		app.Analytics,
		app.Preferences,
		app.Profile,
	)
	if err != nil {
		panic(err)
	}
	app.Store = s

	return app
}

// Reset сбрасывает все срезы, кроме auth, после выхода из аккаунта
func (a *AppStore) Reset() {
	for _, name := range []string{
		SliceArtworks, SliceFeatured, SliceLiked, SliceEvents, SliceProjects,
		SliceUsers, SliceNotifications, SliceActivityLogs,
	} {
		a.Dispatch(Action{Type: name + "/reset", Phase: PhasePending})
		a.Dispatch(Action{Type: name + "/reset", Phase: PhaseFulfilled, Payload: resetPayload(name)})
	}
	for _, name := range []string{
		SliceEventStats, SliceProjectStats, SliceMemberStats,
		SliceAnalytics, SlicePreferences, SliceProfile, SliceCategories,
	} {
		a.Dispatch(Action{Type: name + "/reset", Phase: PhasePending})
		a.Dispatch(Action{Type: name + "/reset", Phase: PhaseFulfilled, Payload: Cleared{}})
	}
}

func resetPayload(name string) any {
	switch name {
	case SliceArtworks, SliceFeatured, SliceLiked:
		return ReplaceAll[models.Artwork]{}
	case SliceEvents:
		return ReplaceAll[models.Event]{}
	case SliceProjects:
		return ReplaceAll[models.Project]{}
	case SliceUsers:
		return ReplaceAll[models.User]{}
	case SliceNotifications:
		return ReplaceAll[models.Notification]{}
	case SliceActivityLogs:
		return ReplaceAll[models.ActivityLog]{}
	}
	return nil
}

// Context привязывает токен текущей сессии к исходящим запросам
func (a *AppStore) Context(ctx context.Context) context.Context {
	token := a.Auth.State().Token
	if token == "" {
		return client.WithoutToken(ctx)
	}
	return client.WithToken(ctx, token)
}
