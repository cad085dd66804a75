package pprofserver

import (
	"context"
	"github.com/myrjola/foxtrail/internal/errors"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"
)

// Handle registers the pprof handlers on mux.
func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

func newServer(addr string) *http.Server {
	mux := http.NewServeMux()
	Handle(mux)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
}

// Launch a standard pprof server at addr. It shuts down when ctx is done.
//
// Use a loopback address such as localhost:6060 so that the profiles are not exposed to the world.
func Launch(ctx context.Context, addr string, logger *slog.Logger) {
	srv := newServer(addr)
	go func() {
		<-ctx.Done()
		if err := srv.Close(); err != nil {
			logger.LogAttrs(context.Background(), slog.LevelError, "failed to close pprof server",
				errors.SlogError(errors.Wrap(err, "close")))
		}
	}()
	go func() {
		logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("pprof_addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server failed", errors.SlogError(errors.Wrap(err, "listen")))
		}
	}()
}
