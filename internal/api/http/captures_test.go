package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/replaylab/quizreplay/internal/grading"
	"github.com/replaylab/quizreplay/internal/quiz"
	"github.com/replaylab/quizreplay/internal/snapshot"
	"github.com/replaylab/quizreplay/internal/store"
)

const quizPage = `<!doctype html><html><body>
<div aria-label="Question" class="question multiple_choice_question">
  <div class="question_text">What is 2+2?</div>
  <div class="answer"><div class="answer_text">3</div></div>
  <div class="answer correct_answer"><div class="answer_text">4</div></div>
</div>
<div aria-label="Question" class="question numerical_question">
  <div class="question_text">Approximate pi</div>
  <span class="numerical_exact_answer">
    <span class="answer_exact">3.14</span>
    <span class="answer_error_margin">0.01</span>
  </span>
</div>
</body></html>`

func newTestServer(t *testing.T) (*httptest.Server, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	r := NewRouter(st, snapshot.NopArchive{}, grading.NewGrader(), []string{"*"})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, st
}

func postHTML(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/captures", "text/html", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestCreateCaptureFromRawHTML(t *testing.T) {
	srv, st := newTestServer(t)

	resp := postHTML(t, srv, quizPage)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var out struct {
		CaptureID     string `json:"capture_id"`
		QuestionCount int    `json:"question_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.QuestionCount != 2 {
		t.Fatalf("question count = %d, want 2", out.QuestionCount)
	}

	c, err := st.GetCapture(context.Background(), out.CaptureID)
	if err != nil {
		t.Fatalf("stored capture missing: %v", err)
	}
	if c.Questions[0].Kind != quiz.KindMultipleChoice || c.Questions[1].Kind != quiz.KindNumerical {
		t.Fatalf("stored kinds wrong: %q, %q", c.Questions[0].Kind, c.Questions[1].Kind)
	}
}

func TestCreateCaptureFromJSON(t *testing.T) {
	srv, st := newTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"title": "Week 1",
		"url":   "https://lms.example.edu/quizzes/7",
		"html":  quizPage,
	})
	resp, err := http.Post(srv.URL+"/captures", "application/json", strings.NewReader(string(body)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	c, err := st.LatestCapture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "Week 1" || c.SourceURL != "https://lms.example.edu/quizzes/7" {
		t.Fatalf("metadata not stored: %+v", c)
	}
}

func TestCreateCaptureEmptyBody(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := postHTML(t, srv, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateCaptureNoQuestionsIsSuccess(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := postHTML(t, srv, "<html><body><p>not a quiz</p></body></html>")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (empty sequence is valid)", resp.StatusCode)
	}
	var out struct {
		QuestionCount int `json:"question_count"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if out.QuestionCount != 0 {
		t.Fatalf("question count = %d, want 0", out.QuestionCount)
	}
}

func TestLatestCaptureAbsent(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/captures/latest")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGradeCapture(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postHTML(t, srv, quizPage)
	var created struct {
		CaptureID string `json:"capture_id"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	body := `{"responses":{"0":{"selected_indices":[1]},"1":{"text":"3.145"}}}`
	gresp, err := http.Post(srv.URL+"/captures/"+created.CaptureID+"/grade", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer gresp.Body.Close()
	if gresp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", gresp.StatusCode)
	}

	var out gradeResponse
	if err := json.NewDecoder(gresp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(out.Outcomes))
	}
	if out.Outcomes[0].Verdict != grading.VerdictCorrect {
		t.Fatalf("q0 verdict = %q, want correct", out.Outcomes[0].Verdict)
	}
	if out.Outcomes[1].Verdict != grading.VerdictCorrect {
		t.Fatalf("q1 verdict = %q, want correct (3.145 within 0.01 of 3.14)", out.Outcomes[1].Verdict)
	}
	if out.Summary.Correct != 2 || out.Summary.Gradable != 2 {
		t.Fatalf("summary = %+v, want 2/2", out.Summary)
	}
}

func TestGradeCaptureUnknownIndex(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postHTML(t, srv, quizPage)
	var created struct {
		CaptureID string `json:"capture_id"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	gresp, err := http.Post(srv.URL+"/captures/"+created.CaptureID+"/grade",
		"application/json", strings.NewReader(`{"responses":{"9":{"text":"x"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	defer gresp.Body.Close()
	if gresp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", gresp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
