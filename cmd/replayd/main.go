package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	api "github.com/replaylab/quizreplay/internal/api/http"
	"github.com/replaylab/quizreplay/internal/config"
	"github.com/replaylab/quizreplay/internal/db"
	"github.com/replaylab/quizreplay/internal/grading"
	"github.com/replaylab/quizreplay/internal/logger"
	"github.com/replaylab/quizreplay/internal/snapshot"
	"github.com/replaylab/quizreplay/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store open failed")
	}

	var arch snapshot.Archive = snapshot.NopArchive{}
	if cfg.SnapshotArchive {
		fsArch, err := snapshot.NewFSArchive(cfg.SnapshotDir)
		if err != nil {
			log.Fatal().Err(err).Msg("snapshot archive")
		}
		arch = fsArch
	}

	r := api.NewRouter(st, arch, grading.NewGrader(), cfg.CORSOrigins)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "mem":
		return store.NewMemStore(), nil
	case "redis":
		return store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "sqlite", "postgres":
		dbh, err := db.Open(ctx, db.Driver(cfg.StoreDriver), cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(dbh, cfg.StoreDriver), nil
	default:
		return nil, errors.New("unsupported store driver: " + cfg.StoreDriver)
	}
}
