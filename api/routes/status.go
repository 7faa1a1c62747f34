package routes

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/ulelab/flow-batch/run"
)

// StatusRequest creates a get request handler that returns the run's current
// stage and batch counters.
func StatusRequest(progress *run.Progress) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, progress.Snapshot())
	}
}
