package main

import (
	"context"
	"github.com/myrjola/foxtrail/internal/e2etest"
	"github.com/stretchr/testify/require"
	"io"
	"strconv"
	"testing"
)

// testSeed fixes the puzzle of every game started by the test server.
const testSeed = 7

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "FOXTRAIL_ADDR":
		return "localhost:0", true
	case "FOXTRAIL_SQLITE_URL":
		return ":memory:", true
	case "FOXTRAIL_PPROF_ADDR":
		return "", true
	case "FOXTRAIL_PACE_PERCENT":
		return "0", true
	case "FOXTRAIL_SEED":
		return strconv.Itoa(testSeed), true
	default:
		return "", false
	}
}

// startTestServer starts the server on a random port with a fresh in-memory database. It's stopped when the test ends.
func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, io.Discard, testLookupEnv, run)
	require.NoError(t, err)
	return server
}
