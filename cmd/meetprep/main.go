package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/meetprep/internal/config"
	"github.com/claude/meetprep/internal/ingest/alpha"
	"github.com/claude/meetprep/internal/mcp"
	"github.com/claude/meetprep/internal/prep"
	"github.com/claude/meetprep/internal/server"
	"github.com/claude/meetprep/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (empty for defaults and env only)")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("reading .env", "error", err)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log = cfg.Log.NewLogger(os.Stdout)
	log.Info("meetprep starting", "version", Version, "storage", cfg.Storage.Driver)

	competition, err := cfg.Competition.Parse()
	if err != nil {
		log.Error("invalid competition", "error", err)
		os.Exit(1)
	}

	opts := cfg.StorageOptions()
	if *migrateOnly {
		if err := storage.Migrate(opts); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrate-only: exiting")
		return
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Open storage (runs migrations for SQL backends)
	store, err := storage.Open(ctx, opts)
	if err != nil {
		log.Error("failed to open storage", "driver", opts.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("storage ready", "driver", opts.Driver)

	// Prescription table: built-in unless a file is configured
	tables := prep.NewTableHolder(prep.DefaultTable())
	if path := cfg.Prescriptions.Path; path != "" {
		t, err := prep.LoadTable(path)
		if err != nil {
			log.Error("failed to load prescription table", "path", path, "error", err)
			os.Exit(1)
		}
		tables.Store(t)
		log.Info("prescription table loaded", "path", path)

		if cfg.Prescriptions.Watch {
			if err := prep.WatchTable(ctx, path, tables, log); err != nil {
				log.Warn("prescription watch disabled", "error", err)
			}
		}
	}

	settings := server.Settings{
		Competition:      competition,
		Bodyweight:       storage.WeightRange{Min: cfg.Bodyweight.Min, Max: cfg.Bodyweight.Max},
		BodyweightTarget: cfg.Bodyweight.Target,
	}
	alphaProvider := alpha.NewProvider(store, log)
	srv := server.New(store, tables, alphaProvider, settings, log)

	if cfg.MCP.Enabled {
		mcpSrv := mcp.New(mcp.Deps{
			Store:       store,
			Tables:      tables,
			Competition: competition,
			Bodyweight:  settings.Bodyweight,

			BodyweightTarget: settings.BodyweightTarget,
		}, Version, log)
		srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))
		log.Info("mcp endpoint enabled", "path", "/mcp")
	}

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "local (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
