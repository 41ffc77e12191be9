// Package router sets up all HTTP routes and middleware chains for the
// deckpress server. It organizes routes into public and authenticated API
// groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"deckpress/internal/handlers"
	"deckpress/internal/middleware"
	"deckpress/internal/session"
)

// Groups bundles the handler groups the router wires up.
type Groups struct {
	Auth          *handlers.Auth
	Templates     *handlers.Templates
	Decks         *handlers.Decks
	Presentations *handlers.Presentations
	Libraries     *handlers.Libraries
	Proposals     *handlers.Proposals
	Settings      *handlers.Settings
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, g Groups) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// The only unauthenticated surfaces are auth and the public share
	// pages; both get per-IP rate limiting.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	shareLimiter := middleware.NewRateLimiter(60, time.Minute)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Account endpoints — no session required.
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/signup", g.Auth.Signup)
			r.Post("/login", g.Auth.Login)
		})
		r.Post("/logout", g.Auth.Logout)

		// 2FA — requires auth but NOT a completed second factor, since
		// this is where the second factor completes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", g.Auth.TwoFASetup)
			r.Post("/2fa/verify", g.Auth.TwoFAVerify)
		})

		// Authenticated, 2FA-complete API.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/me", g.Auth.Me)
			r.Post("/2fa/disable", g.Auth.TwoFADisable)

			// Prompt templates.
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", g.Templates.List)
				r.Post("/", g.Templates.Create)
				r.Get("/{id}", g.Templates.Get)
				r.Put("/{id}", g.Templates.Update)
				r.Delete("/{id}", g.Templates.Delete)
			})

			// Text structuring and local preview.
			r.Route("/decks", func(r chi.Router) {
				r.Post("/", g.Decks.Create)
				r.Get("/last", g.Decks.Last)
				r.Post("/preview", g.Decks.Preview)
			})

			// Model-backed document generation.
			r.Route("/presentations", func(r chi.Router) {
				r.Post("/", g.Presentations.Generate)
				r.Post("/oneshot", g.Presentations.Oneshot)
				r.Post("/improve", g.Presentations.Improve)
			})

			// Design libraries.
			r.Route("/libraries", func(r chi.Router) {
				r.Get("/", g.Libraries.List)
				r.Post("/", g.Libraries.Create)
				r.Get("/{id}", g.Libraries.Get)
				r.Put("/{id}", g.Libraries.Update)
				r.Delete("/{id}", g.Libraries.Delete)
			})

			// Proposals (owner side).
			r.Route("/proposals", func(r chi.Router) {
				r.Get("/", g.Proposals.List)
				r.Post("/", g.Proposals.Create)
				r.Get("/{id}", g.Proposals.Get)
				r.Delete("/{id}", g.Proposals.Delete)
			})

			// Credential settings.
			r.Route("/settings/credential", func(r chi.Router) {
				r.Get("/", g.Settings.GetCredential)
				r.Put("/", g.Settings.PutCredential)
				r.Delete("/", g.Settings.DeleteCredential)
			})
		})
	})

	// Public proposal pages — resolved by share token, view-tracked.
	r.Group(func(r chi.Router) {
		r.Use(shareLimiter.Middleware)
		r.Get("/p/{token}", g.Proposals.Public)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
