package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"artclub/internal/guard"
	"artclub/internal/lib/validate"
	appmiddleware "artclub/internal/middleware"
	httprouters "artclub/internal/transport/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validate.Validator
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Options struct {
	Host string
	Port string
	// SessionName имя cookie с id сессии
	SessionName   string
	SessionSecret string
	SessionMaxAge int
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	addr    string
}

func New(log *slog.Logger, v *validate.Validator, opts Options, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = &CustomValidator{validator: v}

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
			)

			return nil
		},
	}))

	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(opts.SessionSecret))))
	e.Use(appmiddleware.SessionID(log, opts.SessionName, opts.SessionMaxAge))

	return &Server{
		log:     log,
		e:       e,
		routers: routers,
		addr:    net.JoinHostPort(opts.Host, opts.Port),
	}
}

// Echo нужен тестам, чтобы гонять запросы без сети
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info("starting http server", slog.String("op", op), slog.String("addr", s.addr))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	r := s.routers

	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	signedIn := appmiddleware.RequireRole(r.Session, guard.Authorized...)
	members := appmiddleware.RequireRole(r.Session, guard.Members...)
	admins := appmiddleware.RequireRole(r.Session, guard.AdminOnly...)

	api := s.e.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", r.Login)
			authGroup.POST("/register", r.Register)
			authGroup.POST("/logout", r.Logout)
			authGroup.GET("/session", r.CurrentSession)
			authGroup.POST("/password/reset", r.RequestPasswordReset)
			authGroup.POST("/password/reset/confirm", r.ConfirmPasswordReset)
		}

		api.GET("/state", r.State)

		private := api.Group("", appmiddleware.RequireSession(r.Session))
		{
			private.GET("/dashboard", r.Dashboard)
			private.GET("/profile", r.Profile)
			private.PUT("/profile", r.UpdateProfile)
			private.GET("/preferences", r.Preferences)
			private.PATCH("/preferences", r.UpdatePreferences)
			private.GET("/member-stats", r.MemberStats, members)
		}

		artworks := api.Group("/artworks", signedIn)
		{
			artworks.GET("", r.ListArtworks)
			artworks.GET("/featured", r.FeaturedArtworks)
			artworks.GET("/liked", r.LikedArtworks)
			artworks.GET("/categories", r.ArtworkCategories)
			artworks.POST("", r.CreateArtwork, members)
			artworks.PUT("/:id", r.UpdateArtwork, members)
			artworks.DELETE("/:id", r.DeleteArtwork, members)
			artworks.POST("/:id/approve", r.ApproveArtwork, admins)
			artworks.POST("/:id/reject", r.RejectArtwork, admins)
			artworks.POST("/:id/like", r.LikeArtwork)
			artworks.DELETE("/:id/like", r.UnlikeArtwork)
		}

		events := api.Group("/events", signedIn)
		{
			events.GET("", r.ListEvents)
			events.GET("/stats", r.EventStats)
			events.POST("", r.CreateEvent, admins)
			events.PUT("/:id", r.UpdateEvent, admins)
			events.PATCH("/:id", r.PatchEvent, admins)
			events.DELETE("/:id", r.DeleteEvent, admins)
			events.POST("/:id/complete", r.CompleteEvent, admins)
			events.POST("/:id/attend", r.AttendEvent)
			events.DELETE("/:id/attend", r.LeaveEvent)
		}

		projects := api.Group("/projects", signedIn)
		{
			projects.GET("", r.ListProjects)
			projects.GET("/stats", r.ProjectStats)
			projects.GET("/:id", r.GetProject)
			projects.POST("", r.CreateProject, members)
			projects.PATCH("/:id", r.UpdateProject, members)
			projects.DELETE("/:id", r.DeleteProject, members)
			projects.POST("/:id/updates", r.AddProjectUpdate, members)
			projects.POST("/:id/complete", r.CompleteProject, members)
		}

		notifications := api.Group("/notifications", signedIn)
		{
			notifications.GET("", r.ListNotifications)
			notifications.POST("", r.CreateNotification, admins)
			notifications.POST("/:id/read", r.MarkNotificationRead)
			notifications.DELETE("/:id", r.DeleteNotification)
		}

		users := api.Group("/users", admins)
		{
			users.GET("", r.ListUsers)
			users.PATCH("/:id/role", r.UpdateUserRole)
			users.POST("/:id/activate", r.ActivateUser)
			users.POST("/:id/deactivate", r.DeactivateUser)
			users.DELETE("/:id", r.DeleteUser)
		}

		api.GET("/activity-logs", r.ActivityLogs, admins)
		api.GET("/analytics", r.Analytics, admins)
	}
}
