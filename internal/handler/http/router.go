package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/storecrew/timeclock/internal/config"
	"github.com/storecrew/timeclock/internal/handler/http/middleware"
	"github.com/storecrew/timeclock/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	sessionHandler SessionHandler,
	attendanceHandler AttendanceHandler,
	journalHandler JournalHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock-agent"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.KioskOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Supervisor-PIN"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session/login", sessionHandler.Login)

		// Token travels in the query string; the stream authenticates itself.
		r.Get("/events", eventsHandler.Stream)

		// Requires a kiosk session token
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Post("/session/logout", sessionHandler.Logout)
			r.Post("/session/sse-token", sessionHandler.GetSSEToken)

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", attendanceHandler.Snapshot)
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
			})
		})

		// Supervisor only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSupervisor(cfg.Kiosk.SupervisorPINHash))

			r.Get("/journal", journalHandler.List)
			r.Post("/ledger/prune", journalHandler.PruneLedger)
		})
	})

	return r
}
