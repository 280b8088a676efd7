// quizsnap extracts the normalized question sequence from a saved quiz page.
// By default it prints JSON to stdout; with -save it writes a capture into
// the configured store so replayd can serve it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/replaylab/quizreplay/internal/config"
	"github.com/replaylab/quizreplay/internal/db"
	"github.com/replaylab/quizreplay/internal/extract"
	"github.com/replaylab/quizreplay/internal/logger"
	"github.com/replaylab/quizreplay/internal/quiz"
	"github.com/replaylab/quizreplay/internal/store"
)

func main() {
	var (
		input  = flag.String("in", "-", "path to a saved quiz page html file, or - for stdin")
		title  = flag.String("title", "", "capture title")
		srcURL = flag.String("url", "", "source page url, recorded with the capture")
		save   = flag.Bool("save", false, "store the capture instead of printing JSON")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	page, err := readInput(*input)
	if err != nil {
		fatal(err)
	}

	records, err := extract.FromHTML(page)
	if err != nil {
		fatal(err)
	}

	c := quiz.Capture{
		ID:         uuid.NewString(),
		Title:      *title,
		SourceURL:  *srcURL,
		CapturedAt: time.Now().Unix(),
		Questions:  records,
	}

	if !*save {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(c); err != nil {
			fatal(err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	st, err := openStore(ctx, cfg)
	if err != nil {
		fatal(err)
	}
	if err := st.SaveCapture(ctx, c); err != nil {
		fatal(err)
	}
	fmt.Printf("capture %s stored (%d questions)\n", c.ID, len(records))
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
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

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "quizsnap:", err)
	os.Exit(1)
}
