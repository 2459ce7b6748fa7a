package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	cfgpkg "newsreader/internal/config"
	"newsreader/internal/library"
	"newsreader/internal/server"
	"newsreader/internal/session"
	"newsreader/internal/storage"
)

const (
	sessionIdleTTL    = 2 * time.Hour
	sessionSweepEvery = 10 * time.Minute
)

var serveHTTP = func(ctx context.Context, srv *server.Server, addr string) error {
	return srv.Run(ctx, addr)
}

// newsreader serve
func cmdServe(args []string) error {
	var cf commonFlags
	var addr, backend stringFlag
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.Var(&addr, "addr", "Listen address, e.g. :8080")
	fs.Var(&backend, "library", "Library backend: memory, s3, redis")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}
	cfg, err := loadConfig(cf, cfgpkg.Overrides{Addr: addr.ptr(), LibraryBackend: backend.ptr()})
	if err != nil {
		return err
	}
	if err := cfgpkg.ValidateForServe(cfg); err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	withSpeech := true
	if err := cfgpkg.ValidateForSpeech(cfg); err != nil {
		slog.Warn("speech disabled", "err", err)
		withSpeech = false
	}
	orc, err := newOrchestrator(cfg, withSpeech)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openLibraryStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			slog.Warn("failed to close library store", "err", cerr)
		}
	}()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := slog.Default()
	sessions := session.NewManager(orc, logger)
	go sessions.Expire(ctx, sessionIdleTTL, sessionSweepEvery)
	srv := server.New(server.Deps{
		Catalog:  cat,
		AI:       orc,
		Sessions: sessions,
		Library:  library.New(store, logger),
		Defaults: cfg.Settings(),
		Logger:   logger,
	})
	slog.Info("serve start", "addr", cfg.Addr, "library", cfg.LibraryBackend, "articles", cat.Len(), "speech", withSpeech)
	if err := serveHTTP(ctx, srv, cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openLibraryStore builds the configured bookmark/offline backend. The returned
// func releases its connections.
func openLibraryStore(ctx context.Context, cfg cfgpkg.Config) (library.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.LibraryBackend {
	case cfgpkg.BackendMemory, "":
		return library.NewMemoryStore(), noop, nil
	case cfgpkg.BackendS3:
		objects, err := storage.New(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.Region)
		if err != nil {
			return nil, nil, err
		}
		return library.NewS3Store(objects), noop, nil
	case cfgpkg.BackendRedis:
		rdb, err := library.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return library.NewRedisStore(rdb, cfg.S3Prefix), rdb.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported library backend %q", cfg.LibraryBackend)
	}
}
