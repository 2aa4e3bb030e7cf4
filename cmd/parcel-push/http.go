package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/BearBump/ParcelBox/internal/push"
	"github.com/go-chi/chi/v5"
)

type pushHTTPOpts struct {
	httpAddr string
	onListen func(httpAddr string)

	hub                *push.Hub
	limiter            push.JoinLimiter
	joinLimitPerMinute int64
}

func runPushHTTPServer(ctx context.Context, opts pushHTTPOpts) error {
	if opts.httpAddr == "" {
		opts.httpAddr = ":8081"
	}

	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.hub == nil {
			_, _ = w.Write([]byte(`{"error":"hub not wired"}`))
			return
		}
		out := map[string]any{
			"peers":  opts.hub.PeerCount(),
			"groups": opts.hub.Registry().GroupCount(),
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	r.Handle("/ws", push.NewWSHandler(opts.hub, opts.limiter, opts.joinLimitPerMinute))

	srv := &http.Server{Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = lis.Close()
	}()

	return srv.Serve(lis)
}
