package logging_test

import (
	"bytes"
	"context"
	"github.com/myrjola/foxtrail/internal/logging"
	"github.com/stretchr/testify/require"
	"log/slog"
	"testing"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil))).With(slog.String("component", "web"))

	ctx := logging.WithAttrs(context.Background(), slog.String("game_id", "01HX"))
	parent := logging.WithAttrs(ctx, slog.String("action", "roll"))
	sibling := logging.WithAttrs(ctx, slog.String("action", "guess"))

	logger.InfoContext(parent, "game updated")
	out := buf.String()
	require.Contains(t, out, "component=web")
	require.Contains(t, out, "game_id=01HX")
	require.Contains(t, out, "action=roll")

	buf.Reset()
	logger.InfoContext(sibling, "game updated")
	require.Contains(t, buf.String(), "action=guess")
	require.NotContains(t, buf.String(), "action=roll")

	buf.Reset()
	logger.Info("no context attributes")
	require.NotContains(t, buf.String(), "game_id")
}
