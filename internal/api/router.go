package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quizgen/quizgen/internal/metrics"
)

func NewRouter(h *APIHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Metrics)
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Get("/health", h.HealthHandler)
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/static/*", staticHandler())
	r.Post("/api/token", h.TokenHandler)

	// Public pages know whether someone is signed in.
	r.Group(func(r chi.Router) {
		r.Use(h.LoadSession)

		r.Get("/", h.HomePage)
		r.Get("/home", h.HomePage)
		r.Get("/about", h.AboutPage)
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.Login)
		r.Get("/signup", h.SignupPage)
		r.Post("/signup", h.Signup)
	})

	// Session-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)

		r.Get("/logout", h.Logout)
		r.Get("/question", h.QuestionPage)
		r.Post("/generate-question", h.GenerateQuestionHandler)
		r.Post("/generate-flashcards", h.GenerateFlashcardsHandler)
		r.Post("/check-answer", h.CheckAnswerHandler)
	})

	return r
}
