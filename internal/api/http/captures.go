package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/replaylab/quizreplay/internal/extract"
	"github.com/replaylab/quizreplay/internal/grading"
	"github.com/replaylab/quizreplay/internal/quiz"
	"github.com/replaylab/quizreplay/internal/snapshot"
	"github.com/replaylab/quizreplay/internal/store"
)

const maxSnapshotBytes = 16 << 20

type captureRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	HTML  string `json:"html"`
}

// CreateCaptureHandler accepts a quiz page snapshot (raw text/html body, or
// JSON {title,url,html}), runs the extraction pass and stores the resulting
// capture. Zero extracted questions is a success with count 0; a failed pass
// is a 422 with a plain-language message, never a partial sequence.
func CreateCaptureHandler(st store.Store, arch snapshot.Archive) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := readCaptureRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		records, err := extract.FromHTML([]byte(req.HTML))
		if err != nil {
			log.Warn().Err(err).Msg("capture rejected")
			http.Error(w, "could not read any quiz data from this page", http.StatusUnprocessableEntity)
			return
		}

		c := quiz.Capture{
			ID:         uuid.NewString(),
			Title:      req.Title,
			SourceURL:  req.URL,
			CapturedAt: time.Now().Unix(),
			Questions:  records,
		}
		if err := st.SaveCapture(r.Context(), c); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if err := arch.Put(c.ID, strings.NewReader(req.HTML)); err != nil {
			// The capture is already stored; losing the raw snapshot is not fatal.
			log.Warn().Err(err).Str("capture", c.ID).Msg("snapshot archive write failed")
		}

		log.Info().Str("capture", c.ID).Int("questions", len(records)).Msg("capture stored")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"capture_id":     c.ID,
			"question_count": len(records),
		})
	}
}

func readCaptureRequest(r *http.Request) (captureRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		return captureRequest{}, errors.New("unreadable body")
	}
	if len(body) == 0 {
		return captureRequest{}, errors.New("page html required")
	}
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var req captureRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return captureRequest{}, errors.New("bad json")
		}
		if req.HTML == "" {
			return captureRequest{}, errors.New("html field required")
		}
		return req, nil
	}
	return captureRequest{HTML: string(body)}, nil
}

func ListCapturesHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := st.ListCaptures(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []quiz.CaptureSummary{}
		}
		_ = json.NewEncoder(w).Encode(list)
	}
}

func GetCaptureHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := st.GetCapture(r.Context(), chi.URLParam(r, "captureID"))
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(c)
	}
}

func LatestCaptureHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := st.LatestCapture(r.Context())
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(c)
	}
}

type gradeRequest struct {
	// Keyed by question index (JSON object keys are strings).
	Responses map[string]grading.Response `json:"responses"`
}

type gradeResponse struct {
	Outcomes []grading.Outcome `json:"outcomes"`
	Summary  grading.Summary   `json:"summary"`
}

// GradeCaptureHandler evaluates a full set of responses against one stored
// capture. Grading is a pure function of records plus responses; nothing is
// persisted, so "reset" on the client is simply a fresh submission.
func GradeCaptureHandler(st store.Store, grader *grading.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := st.GetCapture(r.Context(), chi.URLParam(r, "captureID"))
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		var req gradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		responses := make(map[int]grading.Response, len(req.Responses))
		for k, v := range req.Responses {
			idx, err := strconv.Atoi(k)
			if err != nil || idx < 0 || idx >= len(c.Questions) {
				http.Error(w, "unknown question index: "+k, http.StatusBadRequest)
				return
			}
			responses[idx] = v
		}
		outcomes, sum := grader.GradeAll(c.Questions, responses)
		_ = json.NewEncoder(w).Encode(gradeResponse{Outcomes: outcomes, Summary: sum})
	}
}

func writeStoreErr(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "no quiz data found. capture a quiz page first.", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
