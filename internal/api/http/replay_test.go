package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/replaylab/quizreplay/internal/quiz"
)

func seedCapture(t *testing.T, st interface {
	SaveCapture(ctx context.Context, c quiz.Capture) error
}) quiz.Capture {
	t.Helper()
	expected := "42"
	c := quiz.Capture{
		ID:         "cap-1",
		Title:      "Practice",
		CapturedAt: 1,
		Questions: []quiz.QuestionRecord{
			{
				QuestionHTML: "<p>Pick the even number</p>",
				Kind:         quiz.KindMultipleChoice,
				Answers: []quiz.AnswerOption{
					{Text: "3"}, {Text: "4", IsCorrect: true},
				},
			},
			{
				QuestionHTML: "<p>The answer to everything</p>",
				Kind:         quiz.KindNumerical,
				Expected:     &expected,
			},
			{
				QuestionHTML: "<p>Discuss entropy</p>",
				Kind:         quiz.KindEssay,
			},
		},
	}
	if err := st.SaveCapture(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	return c
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestReplayPageNoData(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/replay")
	if err != nil {
		t.Fatal(err)
	}
	body := bodyOf(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (guidance page, not an error)", resp.StatusCode)
	}
	if !strings.Contains(body, "No quiz data found") {
		t.Fatalf("guidance message missing: %s", body)
	}
}

func TestReplayPageCleanForm(t *testing.T) {
	srv, st := newTestServer(t)
	seedCapture(t, st)

	resp, err := http.Get(srv.URL + "/replay")
	if err != nil {
		t.Fatal(err)
	}
	body := bodyOf(t, resp)

	if !strings.Contains(body, "Pick the even number") {
		t.Fatalf("question markup missing: %s", body)
	}
	if !strings.Contains(body, `type="radio"`) {
		t.Fatal("single-select must render radios")
	}
	if !strings.Contains(body, `name="q1"`) || !strings.Contains(body, `type="text"`) {
		t.Fatal("numerical question must render a text input")
	}
	if !strings.Contains(body, "<textarea") {
		t.Fatal("essay must render a textarea")
	}
	if strings.Contains(body, "disabled") {
		t.Fatal("clean form must not be disabled")
	}
	if strings.Contains(body, "Score:") {
		t.Fatal("clean form must not show a score")
	}
}

func TestReplaySubmitGradesAndLocksForm(t *testing.T) {
	srv, st := newTestServer(t)
	seedCapture(t, st)

	form := url.Values{}
	form.Set("q0", "1")  // correct option
	form.Set("q1", "41") // wrong number
	form.Set("q2", "entropy always increases")
	resp, err := http.PostForm(srv.URL+"/replay/cap-1", form)
	if err != nil {
		t.Fatal(err)
	}
	body := bodyOf(t, resp)

	// Essays never count: denominator is the two gradable questions.
	if !strings.Contains(body, "Score: 1 / 2") {
		t.Fatalf("score line missing or wrong: %s", body)
	}
	if !strings.Contains(body, "Expected: 42") {
		t.Fatal("wrong input answer must reveal the expected value")
	}
	if !strings.Contains(body, "Recorded, not graded") {
		t.Fatal("essay must be marked recorded, not graded")
	}
	if !strings.Contains(body, "disabled") {
		t.Fatal("inputs must be disabled after submission")
	}
	if !strings.Contains(body, ">Reset</a>") {
		t.Fatal("graded page must offer a reset link")
	}
	// The correct choice is revealed regardless of the selection.
	if !strings.Contains(body, `class="answer correct"`) {
		t.Fatal("correct option must be visually marked")
	}
}

func TestReplayResetIsCleanGet(t *testing.T) {
	srv, st := newTestServer(t)
	seedCapture(t, st)

	form := url.Values{}
	form.Set("q0", "0")
	if resp, err := http.PostForm(srv.URL+"/replay/cap-1", form); err != nil {
		t.Fatal(err)
	} else {
		resp.Body.Close()
	}

	// Reset links back to the plain GET: fresh inputs, no feedback.
	resp, err := http.Get(srv.URL + "/replay/cap-1")
	if err != nil {
		t.Fatal(err)
	}
	body := bodyOf(t, resp)
	if strings.Contains(body, "Score:") || strings.Contains(body, "disabled") || strings.Contains(body, "checked") {
		t.Fatalf("reset view must carry no prior submission state: %s", body)
	}
}
