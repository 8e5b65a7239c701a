package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/receiptsplit/receiptsplit/internal/config"
	"github.com/receiptsplit/receiptsplit/internal/server"
	"github.com/receiptsplit/receiptsplit/internal/service"
	"github.com/receiptsplit/receiptsplit/internal/storage/sqlite"
	"github.com/receiptsplit/receiptsplit/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	svc := service.NewSplitService(store)
	router := server.New(svc).Router()

	// h2c allows HTTP/2 without TLS for clients that want it.
	handler := h2c.NewHandler(router, &http2.Server{})

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
