package main

import (
	"github.com/myrjola/foxtrail/internal/models"
	"net/http"
)

type homeTemplateData struct {
	BaseTemplateData
	Stats models.Stats
	// Playing is true when the session has a game to continue.
	Playing bool
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	stats, err := app.games.Stats(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Stats:            stats,
		Playing:          app.sessionManager.Exists(r.Context(), string(gameIDSessionKey)),
	}

	app.render(w, r, http.StatusOK, "home", data)
}
