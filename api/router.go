package api

import (
	"compress/flate"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	api_middleware "github.com/ulelab/flow-batch/api/middleware"
	"github.com/ulelab/flow-batch/api/routes"
	"github.com/ulelab/flow-batch/config"
	"github.com/ulelab/flow-batch/queue"
	"github.com/ulelab/flow-batch/run"
)

// NewRouter returns a chi router exposing read-only progress for an in-flight
// submission run.
func NewRouter(cfg config.Config, progress *run.Progress, batchQueue queue.BatchQueue) (chi.Router, error) {

	// Setup the router and configure baseline middleware
	r := chi.NewRouter()

	r.Use(api_middleware.Logger(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(flate.DefaultCompression))

	// Configure CORS handling
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	r.Route("/run", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/status", routes.StatusRequest(progress))
		r.Get("/batches", routes.BatchesRequest(&cfg, batchQueue))
	})

	return r, nil
}
