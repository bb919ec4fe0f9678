package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artclub/internal/client"
	"artclub/internal/config"
	"artclub/internal/lib/validate"
	artworkservice "artclub/internal/services/artwork_service"
	"artclub/internal/services/auth"
	eventservice "artclub/internal/services/event_service"
	notificationservice "artclub/internal/services/notification_service"
	projectservice "artclub/internal/services/project_service"
	userservice "artclub/internal/services/user_service"
	storage "artclub/internal/storage/filestorage"
	"artclub/internal/store"

	"github.com/spf13/cobra"
)

const sessionTTL = 30 * 24 * time.Hour

var errNotLoggedIn = errors.New("not logged in; run `artclubctl login` first")

// env сервисы, общие для всех команд одного запуска
type env struct {
	out   io.Writer
	store *store.AppStore

	auth          *auth.Auth
	artworks      *artworkservice.ArtworkService
	events        *eventservice.EventService
	projects      *projectservice.ProjectService
	users         *userservice.UserService
	notifications *notificationservice.NotificationService
}

type rootFlags struct {
	config  string
	apiURL  string
	profile string
	verbose bool
}

func newEnv(out io.Writer, f rootFlags) (*env, error) {
	cfg, err := config.LoadClient(f.config)
	if err != nil {
		return nil, err
	}
	if f.apiURL != "" {
		cfg.API.BaseURL = f.apiURL
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	api, err := client.New(log, client.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		MaxPages:  cfg.API.MaxPages,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
	})
	if err != nil {
		return nil, err
	}

	sessions, err := storage.NewFileSessionStore(cfg.CLI.SessionDir)
	if err != nil {
		return nil, err
	}

	st := store.NewAppStore(log)
	v := validate.New()

	return &env{
		out:           out,
		store:         st,
		auth:          auth.New(log, api, st, v, sessions, f.profile, sessionTTL),
		artworks:      artworkservice.NewArtworkService(log, api, st, v),
		events:        eventservice.NewEventService(log, api, st, v),
		projects:      projectservice.NewProjectService(log, api, st, v),
		users:         userservice.NewUserService(log, api, st, v),
		notifications: notificationservice.NewNotificationService(log, api, st, v),
	}, nil
}

// restore поднимает сохранённую сессию профиля и отдаёт контекст с токеном
func (e *env) restore(ctx context.Context) (context.Context, error) {
	if _, err := e.auth.Restore(ctx); err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return nil, errNotLoggedIn
		}
		return nil, err
	}
	return e.store.Context(ctx), nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		flags rootFlags
		e     *env
	)

	root := &cobra.Command{
		Use:           "artclubctl",
		Short:         "Art club command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			e, err = newEnv(out, flags)
			return err
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", os.Getenv("CONFIG_PATH"), "path to config file")
	pf.StringVar(&flags.apiURL, "api", "", "club API base URL, overrides config")
	pf.StringVar(&flags.profile, "profile", "default", "name of the saved session")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging to stderr")

	// команды получают env лениво: он создаётся в PersistentPreRunE
	get := func() *env { return e }

	root.AddCommand(
		loginCmd(get),
		logoutCmd(get),
		whoamiCmd(get),
		registerCmd(get),
		artworksCmd(get),
		eventsCmd(get),
		projectsCmd(get),
		usersCmd(get),
		notificationsCmd(get),
		analyticsCmd(get),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}
