package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/replaylab/quizreplay/internal/grading"
	"github.com/replaylab/quizreplay/internal/snapshot"
	"github.com/replaylab/quizreplay/internal/store"
)

// NewRouter mounts the capture API and the replay surface. The capture POST
// arrives cross-origin from whatever page the snapshot script runs on, so
// CORS stays open to the configured origins.
func NewRouter(st store.Store, arch snapshot.Archive, grader *grading.Grader, corsOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/captures", func(cr chi.Router) {
		cr.Post("/", CreateCaptureHandler(st, arch))
		cr.Get("/", ListCapturesHandler(st))
		cr.Get("/latest", LatestCaptureHandler(st))
		cr.Get("/{captureID}", GetCaptureHandler(st))
		cr.Post("/{captureID}/grade", GradeCaptureHandler(st, grader))
	})

	r.Get("/replay", ReplayPageHandler(st))
	r.Post("/replay", ReplaySubmitHandler(st, grader))
	r.Get("/replay/{captureID}", ReplayPageHandler(st))
	r.Post("/replay/{captureID}", ReplaySubmitHandler(st, grader))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/replay", http.StatusFound)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	return r
}
