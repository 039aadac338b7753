// Package health serves the liveness probe used by the uptime monitor.
// It is independent of the bot: it only confirms the process is running.
package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/korjavin/edentimer/pkg/logger"
)

// Handler returns the liveness HTTP handler
func Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Alive"))
	})
	return r
}

// ListenAndServe serves the liveness handler on the given port. It blocks,
// so callers run it on its own goroutine.
func ListenAndServe(port string) error {
	logger.Global.Info("Liveness endpoint listening on :%s", port)
	return http.ListenAndServe(":"+port, Handler())
}
