package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/replaylab/quizreplay/internal/quiz"
)

// SQLStore keeps captures in a single table with the question sequence as a
// JSON column, so option ordering survives the round-trip untouched.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) SaveCapture(ctx context.Context, c quiz.Capture) error {
	qj, err := json.Marshal(c.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO captures (id,title,source_url,questions_json,captured_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, source_url=EXCLUDED.source_url, questions_json=EXCLUDED.questions_json, captured_at=EXCLUDED.captured_at`,
		c.ID, c.Title, c.SourceURL, string(qj), c.CapturedAt)
	return err
}

func (s *SQLStore) GetCapture(ctx context.Context, id string) (quiz.Capture, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,source_url,questions_json,captured_at FROM captures WHERE id=$1`, id)
	return scanCapture(row)
}

func (s *SQLStore) LatestCapture(ctx context.Context) (quiz.Capture, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,source_url,questions_json,captured_at FROM captures
		ORDER BY captured_at DESC, id DESC LIMIT 1`)
	return scanCapture(row)
}

func (s *SQLStore) ListCaptures(ctx context.Context, limit int) ([]quiz.CaptureSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,source_url,questions_json,captured_at FROM captures
		ORDER BY captured_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []quiz.CaptureSummary
	for rows.Next() {
		var c quiz.Capture
		var qjson string
		if err := rows.Scan(&c.ID, &c.Title, &c.SourceURL, &qjson, &c.CapturedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(qjson), &c.Questions); err != nil {
			return nil, err
		}
		out = append(out, summarize(c))
	}
	return out, rows.Err()
}

func scanCapture(row *sql.Row) (quiz.Capture, error) {
	var c quiz.Capture
	var qjson string
	if err := row.Scan(&c.ID, &c.Title, &c.SourceURL, &qjson, &c.CapturedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Capture{}, ErrNotFound
		}
		return quiz.Capture{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &c.Questions); err != nil {
		return quiz.Capture{}, err
	}
	return c, nil
}
