/*
Package handler provides the HTTP handlers and routing setup for the DCG server.

This file defines the main Router, applying middleware like logging, CORS, and
IP-based rate limiting before delegating requests to the auth, owner, student,
and notification handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"dcg/internal/app/user"
	"dcg/internal/pkg/auth/jwt"
	"dcg/internal/pkg/limiter"
	"dcg/internal/pkg/logx"
	"dcg/internal/pkg/resp"
)

const (
	LoginRate     = 0.2
	LoginBurst    = 5
	RegisterRate  = 0.05
	RegisterBurst = 2
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters for the auth endpoints, configures
// CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	loginLimiter := limiter.NewIPRateLimiter(rate.Limit(LoginRate), LoginBurst)
	registerLimiter := limiter.NewIPRateLimiter(rate.Limit(RegisterRate), RegisterBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "DCG Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Get("/", HandleIndex())

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.With(loginLimiter.Middleware).Post("/login", HandleLogin(deps))
			auth.With(registerLimiter.Middleware).Post("/register", HandleRegister(deps))
			auth.Post("/logout", HandleLogout(deps))
		})

		api.Get("/session/refresh", HandleSessionRefresh(deps))

		api.Route("/owner", func(owner chi.Router) {
			owner.Use(jwt.RequireRole(user.RoleOwner))
			owner.Get("/students", HandleListStudents(deps))
			owner.Post("/students/{id}/toggle", HandleToggleCompletion(deps))
			owner.Post("/students/{id}/certificate", HandleGenerateCertificate(deps))
			owner.Get("/students/{id}/certificate", HandleViewCertificate(deps))
		})

		api.Route("/student", func(student chi.Router) {
			student.Use(jwt.RequireRole(user.RoleStudent))
			student.Get("/profile", HandleStudentProfile(deps))
			student.Get("/certificate", HandleStudentCertificate(deps))
			student.Get("/certificate/download", HandleDownloadCertificate(deps))
		})
	})

	r.With(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret)).
		Get("/ws/events", HandleEvents(wsUpgrader, deps))

	return r
}
