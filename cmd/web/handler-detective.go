package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/myrjola/foxtrail/internal/detective"
	"github.com/myrjola/foxtrail/internal/errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// sseWriteTimeout bounds the write of a single event. Each event extends the deadline of the stream.
const sseWriteTimeout = 10 * time.Second

type detectiveTemplateData struct {
	BaseTemplateData
	Board boardTemplateData
}

type boardTemplateData struct {
	detective.Snapshot
	// Live is true when the board changes on its own and the page should listen for updates.
	Live bool
	// Culprit is set once the game is over.
	Culprit *detective.SuspectView
}

func newBoardTemplateData(snapshot detective.Snapshot) boardTemplateData {
	data := boardTemplateData{
		Snapshot: snapshot,
		// Messages of a running game clear themselves, the final message stays.
		Live:    snapshot.Pending || (snapshot.Message != "" && !snapshot.Phase.Terminal()),
		Culprit: nil,
	}
	if thief, ok := snapshot.Thief(); ok {
		data.Culprit = &thief
	}
	return data
}

func (app *application) detective(w http.ResponseWriter, r *http.Request) {
	_, snapshot, err := app.playGame(r.Context(), nil)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	data := detectiveTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Board:            newBoardTemplateData(snapshot),
	}
	app.render(w, r, http.StatusOK, "detective", data)
}

// detectiveState responds with the board of the current game as JSON.
func (app *application) detectiveState(w http.ResponseWriter, r *http.Request) {
	_, snapshot, err := app.playGame(r.Context(), nil)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(snapshot); err != nil {
		app.serverError(w, r, errors.Wrap(err, "encode snapshot"))
	}
}

// act applies action to the current game and responds with the new board. Actions that don't fit the current phase
// leave the board as it was.
func (app *application) act(w http.ResponseWriter, r *http.Request, action func(g *detective.Game) bool) {
	_, snapshot, err := app.playGame(r.Context(), action)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.respondWithBoard(w, r, snapshot)
}

// respondWithBoard sends the board fragment to htmx and redirects other clients back to the game page.
func (app *application) respondWithBoard(w http.ResponseWriter, r *http.Request, snapshot detective.Snapshot) {
	h := app.htmx.NewHandler(w, r)
	if !h.IsHxRequest() {
		http.Redirect(w, r, "/detective", http.StatusSeeOther)
		return
	}
	app.renderFragment(w, r, http.StatusOK, "detective", "board", newBoardTemplateData(snapshot))
}

func (app *application) detectiveRoll(w http.ResponseWriter, r *http.Request) {
	category := detective.Category(r.PostFormValue("category"))
	if !category.Valid() {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	app.act(w, r, func(g *detective.Game) bool {
		return g.RollFor(category)
	})
}

// suspectAction parses the suspect id of the form and applies action to it.
func (app *application) suspectAction(action func(g *detective.Game, id int) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PostFormValue("id"))
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest)
			return
		}
		app.act(w, r, func(g *detective.Game) bool {
			return action(g, id)
		})
	}
}

func (app *application) detectiveStartGuess(w http.ResponseWriter, r *http.Request) {
	app.act(w, r, (*detective.Game).StartGuess)
}

func (app *application) detectiveCancelGuess(w http.ResponseWriter, r *http.Request) {
	app.act(w, r, (*detective.Game).CancelGuess)
}

func (app *application) detectiveReset(w http.ResponseWriter, r *http.Request) {
	snapshot, err := app.restartGame(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.respondWithBoard(w, r, snapshot)
}

// detectiveEvents streams board updates of the current game while its scheduled events fire.
func (app *application) detectiveEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := app.sessionManager.GetString(ctx, string(gameIDSessionKey))
	if id == "" {
		app.notFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
		app.serverError(w, r, errors.Wrap(err, "set write deadline"))
		return
	}
	w.WriteHeader(http.StatusOK)

	var boards chan detective.Snapshot
	select {
	case <-ctx.Done():
		return
	case boards = <-app.boards.Subscribe(id):
	}
	if boards != nil {
	stream:
		for {
			select {
			case <-ctx.Done():
				return
			case snapshot, open := <-boards:
				if !open {
					break stream
				}
				if err := app.sendBoard(w, r, rc, snapshot); err != nil {
					app.logger.LogAttrs(ctx, slog.LevelDebug, "event stream closed", errors.SlogError(err))
					return
				}
			}
		}
	}

	// The pacer is finished, or another stream is already following the game, so send the stored board.
	snapshot, err := app.storedBoard(ctx)
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "load board for event stream", errors.SlogError(err))
		return
	}
	if err = app.sendBoard(w, r, rc, snapshot); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "event stream closed", errors.SlogError(err))
	}
}

// sendBoard writes the board fragment as a single "board" event.
func (app *application) sendBoard(
	w http.ResponseWriter,
	r *http.Request,
	rc *http.ResponseController,
	snapshot detective.Snapshot,
) error {
	buf, err := app.executeTemplate(r, "detective", "board", newBoardTemplateData(snapshot))
	if err != nil {
		return err
	}
	var event bytes.Buffer
	event.WriteString("event: board\n")
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		_, _ = fmt.Fprintf(&event, "data: %s\n", scanner.Text())
	}
	if err = scanner.Err(); err != nil {
		return errors.Wrap(err, "scan board")
	}
	event.WriteString("\n")

	if err = rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
		return errors.Wrap(err, "set write deadline")
	}
	if _, err = event.WriteTo(w); err != nil {
		return errors.Wrap(err, "write event")
	}
	if err = rc.Flush(); err != nil {
		return errors.Wrap(err, "flush event")
	}
	return nil
}
