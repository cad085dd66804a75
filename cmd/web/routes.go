package main

import (
	"github.com/justinas/alice"
	"github.com/myrjola/foxtrail/internal/detective"
	"net/http"
	"time"
)

func (app *application) routes(defaultTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	base := alice.New(app.noSurf, commonContext)
	session := base.Append(app.sessionManager.LoadAndSave)
	page := session.Append(func(next http.Handler) http.Handler {
		return timeoutHandler(next, defaultTimeout)
	})
	// Event streams outlive the default timeout and can't buffer their response for the session manager.
	stream := base.Append(app.serverSentEventMiddleware)

	mux.Handle("GET /{$}", page.ThenFunc(app.home))
	mux.Handle("GET /detective", page.ThenFunc(app.detective))
	mux.Handle("GET /detective/state", page.ThenFunc(app.detectiveState))
	mux.Handle("GET /detective/events", stream.ThenFunc(app.detectiveEvents))
	mux.Handle("POST /detective/roll", page.ThenFunc(app.detectiveRoll))
	mux.Handle("POST /detective/pick", page.Then(app.suspectAction((*detective.Game).PickSuspect)))
	mux.Handle("POST /detective/eliminate", page.Then(app.suspectAction((*detective.Game).ToggleEliminate)))
	mux.Handle("POST /detective/guess/start", page.ThenFunc(app.detectiveStartGuess))
	mux.Handle("POST /detective/guess/cancel", page.ThenFunc(app.detectiveCancelGuess))
	mux.Handle("POST /detective/guess", page.Then(app.suspectAction((*detective.Game).SubmitGuess)))
	mux.Handle("POST /detective/reset", page.ThenFunc(app.detectiveReset))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	common := alice.New(app.recoverPanic, app.logRequest, app.secureHeaders)
	return common.Then(mux)
}
