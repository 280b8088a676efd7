package store

import (
	"context"
	"errors"

	"github.com/replaylab/quizreplay/internal/quiz"
)

// ErrNotFound signals an absent capture. Absence is an expected state for
// the replay surface ("no data yet"), never a crash.
var ErrNotFound = errors.New("capture not found")

// Store persists capture sequences. One capture is written per extraction
// pass; the replay surface reads the latest (or a specific one) later, in a
// different request context.
type Store interface {
	SaveCapture(ctx context.Context, c quiz.Capture) error
	GetCapture(ctx context.Context, id string) (quiz.Capture, error)
	LatestCapture(ctx context.Context) (quiz.Capture, error)
	ListCaptures(ctx context.Context, limit int) ([]quiz.CaptureSummary, error)
}

func summarize(c quiz.Capture) quiz.CaptureSummary {
	return quiz.CaptureSummary{
		ID:            c.ID,
		Title:         c.Title,
		SourceURL:     c.SourceURL,
		CapturedAt:    c.CapturedAt,
		QuestionCount: len(c.Questions),
	}
}
