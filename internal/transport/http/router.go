package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hd-notes-api/internal/application/auth"
	"github.com/hd-notes-api/internal/application/note"
	"github.com/hd-notes-api/internal/config"
	"github.com/hd-notes-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/hd-notes-api/internal/infrastructure/jwt"
	"github.com/hd-notes-api/internal/infrastructure/smtp"
	"github.com/hd-notes-api/internal/otp"
	"github.com/hd-notes-api/internal/transport/http/handler"
	appmiddleware "github.com/hd-notes-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	NoteRepo    *dynamo.NoteRepo
	OTPStore    *otp.Store
	Mailer      smtp.Mailer
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the public OTP endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		Store:    deps.OTPStore,
		UserRepo: deps.UserRepo,
		Mailer:   deps.Mailer,
		Tokens:   deps.JWTProvider,
	})
	noteSvc := note.NewService(deps.NoteRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	noteH := handler.NewNoteHandler(noteSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/signup/{action}", authH.Signup)
		r.With(sensitiveRL.Limit).Post("/signin/{action}", authH.Signin)
		r.Get("/session", authH.Session)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))

			r.Get("/notes", noteH.List)
			r.Post("/notes", noteH.Create)
			r.Put("/notes/{id}", noteH.Update)
			r.Delete("/notes/{id}", noteH.Delete)
		})
	})

	return r
}
