package main

import (
	"context"
	"github.com/myrjola/foxtrail/internal/detective"
	"github.com/myrjola/foxtrail/internal/e2etest"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/logging"
	"log/slog"
	"os"
	"time"
)

// TestDetective starts a case, looks around, and backs out of a guess without touching the outcome.
func TestDetective(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	doc, err := client.GetDoc(ctx, "/detective")
	if err != nil {
		return errors.Wrap(err, "get detective page")
	}
	var snapshot detective.Snapshot
	if snapshot, err = client.State(ctx); err != nil {
		return errors.Wrap(err, "get state")
	}
	if snapshot.Phase.Terminal() {
		// A previous run may have left the session on a finished case.
		if doc, err = client.SubmitForm(ctx, doc, "#reset"); err != nil {
			return errors.Wrap(err, "start new case")
		}
	}
	if doc.Find("#suspects .suspect").Length() == 0 {
		return errors.New("no suspects on the board")
	}
	if doc, err = client.SubmitForm(ctx, doc, "#guess-start"); err != nil {
		return errors.Wrap(err, "start guess")
	}
	if _, err = client.SubmitForm(ctx, doc, "#guess-cancel"); err != nil {
		return errors.Wrap(err, "cancel guess")
	}
	if snapshot, err = client.State(ctx); err != nil {
		return errors.Wrap(err, "get state after guess")
	}
	if snapshot.Phase != detective.PhaseRolling {
		return errors.New("unexpected phase", slog.String("phase", string(snapshot.Phase)))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestDetective(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing detective", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
