package main

import (
	"github.com/myrjola/foxtrail/internal/errors"
	"log/slog"
	"net/http"
)

// healthy reports whether the game store answers.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := app.games.Ping(r.Context()); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "store unhealthy", errors.SlogError(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
