package routes

import (
	"net/http"

	"go.uber.org/zap"
)

// respondError logs the failure in full and hides it from the caller behind a
// generic message.
func respondError(w http.ResponseWriter, err error, code int, logger *zap.SugaredLogger) {
	logger.Errorf("%+v", err)
	http.Error(w, "An error occurred on the server while processing the request", code)
}
