package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	parcelsapi "github.com/BearBump/ParcelBox/internal/api/parcels_api"
	"github.com/BearBump/ParcelBox/internal/services/parcels"
	"github.com/go-chi/chi/v5"
)

type parcelAPIOpts struct {
	httpAddr string

	onListen func(httpAddr string)
}

func runParcelAPI(ctx context.Context, opts parcelAPIOpts, svc *parcels.Service) error {
	api := parcelsapi.New(svc)

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
	r.Mount("/", api.Routes())

	srv := &http.Server{Handler: r}

	httpErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", lis.Addr().String())
		httpErr <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-httpErr:
		return err
	}
}
