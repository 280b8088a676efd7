package http

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/replaylab/quizreplay/internal/grading"
	"github.com/replaylab/quizreplay/internal/quiz"
	"github.com/replaylab/quizreplay/internal/store"
)

// The replay surface renders a stored capture as an interactive practice
// quiz. GET shows a clean form; the form POSTs back to the same URL, which
// grades every question once and re-renders with feedback, revealed correct
// options and disabled inputs. Reset is a link back to the clean GET;
// grading holds no server-side state to clear.

type replayView struct {
	Found   bool
	Capture quiz.Capture
	Items   []replayItem
	Graded  bool
	Summary grading.Summary
}

type replayItem struct {
	Index        int
	Number       int
	QuestionHTML template.HTML
	Multiple     bool
	Choice       bool // radio/checkbox options
	TextInput    bool // single-line input
	Essay        bool // textarea, never graded
	Inert        bool // unrecognized kind: options shown read-only
	Options      []replayOption
	TextValue    string

	Verdict         string
	ExpectedDisplay template.HTML
}

type replayOption struct {
	Index   int
	Label   template.HTML
	Checked bool
	Correct bool // only revealed once graded
}

func ReplayPageHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, found, err := replayCapture(r, st)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		renderReplay(w, buildReplayView(c, found, nil, nil, grading.Summary{}))
	}
}

// ReplaySubmitHandler grades the posted form and re-renders the page with
// per-question feedback.
func ReplaySubmitHandler(st store.Store, grader *grading.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, found, err := replayCapture(r, st)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !found {
			renderReplay(w, replayView{Found: false})
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		responses := formResponses(c.Questions, r)
		outcomes, sum := grader.GradeAll(c.Questions, responses)
		renderReplay(w, buildReplayView(c, true, responses, outcomes, sum))
	}
}

func replayCapture(r *http.Request, st store.Store) (quiz.Capture, bool, error) {
	var (
		c   quiz.Capture
		err error
	)
	if id := chi.URLParam(r, "captureID"); id != "" {
		c, err = st.GetCapture(r.Context(), id)
	} else {
		c, err = st.LatestCapture(r.Context())
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Storage read failure and "nothing captured yet" look the same
			// to the learner: a guidance page, not an error.
			return quiz.Capture{}, false, nil
		}
		return quiz.Capture{}, false, err
	}
	return c, true, nil
}

// formResponses converts posted form values into grading responses. Field
// name is q<index>; choice values are option indices.
func formResponses(records []quiz.QuestionRecord, r *http.Request) map[int]grading.Response {
	out := make(map[int]grading.Response, len(records))
	for i, q := range records {
		name := "q" + strconv.Itoa(i)
		switch q.Kind {
		case quiz.KindMultipleChoice, quiz.KindTrueFalse:
			var sel []int
			for _, v := range r.Form[name] {
				if idx, err := strconv.Atoi(v); err == nil {
					sel = append(sel, idx)
				}
			}
			out[i] = grading.Response{SelectedIndices: sel}
		default:
			out[i] = grading.Response{Text: r.FormValue(name)}
		}
	}
	return out
}

func buildReplayView(c quiz.Capture, found bool, responses map[int]grading.Response, outcomes []grading.Outcome, sum grading.Summary) replayView {
	view := replayView{Found: found, Capture: c, Graded: outcomes != nil, Summary: sum}
	if !found {
		return view
	}
	view.Items = make([]replayItem, len(c.Questions))
	for i, q := range c.Questions {
		item := replayItem{
			Index:        i,
			Number:       i + 1,
			QuestionHTML: template.HTML(q.QuestionHTML),
			Multiple:     q.Multiple,
		}
		switch q.Kind {
		case quiz.KindMultipleChoice, quiz.KindTrueFalse:
			item.Choice = true
		case quiz.KindNumerical, quiz.KindText, quiz.KindShortAnswer:
			item.TextInput = true
		case quiz.KindEssay:
			item.Essay = true
		default:
			item.Inert = true
		}

		resp := responses[i]
		item.TextValue = resp.Text
		selected := map[int]bool{}
		for _, s := range resp.SelectedIndices {
			selected[s] = true
		}
		for oi, a := range q.Answers {
			label := a.Text
			if a.HTML != nil && *a.HTML != "" {
				label = *a.HTML
			}
			item.Options = append(item.Options, replayOption{
				Index:   oi,
				Label:   template.HTML(label),
				Checked: selected[oi],
				Correct: outcomes != nil && a.IsCorrect,
			})
		}
		if outcomes != nil && i < len(outcomes) {
			item.Verdict = string(outcomes[i].Verdict)
			item.ExpectedDisplay = template.HTML(outcomes[i].ExpectedDisplay)
		}
		view.Items[i] = item
	}
	return view
}

func renderReplay(w http.ResponseWriter, view replayView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := replayTmpl.Execute(w, view); err != nil {
		log.Error().Err(err).Msg("replay render failed")
	}
}

var replayTmpl = template.Must(template.New("replay").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Quiz Replay</title>
<style>
 body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
 .question { border: 1px solid #ccc; border-radius: 6px; padding: 1rem; margin-bottom: 1rem; }
 .answer { margin: .25rem 0; }
 .answer.correct { background: #e6ffe6; }
 .feedback.correct { color: #1a7f37; }
 .feedback.incorrect { color: #b00020; }
 .feedback.ungraded, .feedback.not_gradable { color: #666; }
 .score { font-size: 1.2rem; font-weight: bold; margin: 1rem 0; }
 input[type=text], textarea { width: 100%; box-sizing: border-box; }
</style>
</head>
<body>
<h1>Quiz Replay</h1>
{{- if not .Found }}
<p>No quiz data found. Capture a quiz page first, then reload this page.</p>
{{- else }}
{{- if .Capture.Title }}<h2>{{ .Capture.Title }}</h2>{{ end }}
{{- if .Graded }}
<p class="score">Score: {{ .Summary.Correct }} / {{ .Summary.Gradable }}</p>
{{- end }}
<form method="post">
{{- range .Items }}
<div class="question">
<h3>Question {{ .Number }}</h3>
<div class="question-text">{{ .QuestionHTML }}</div>
{{- if .Choice }}
{{- $item := . }}
{{- range .Options }}
<div class="answer{{ if and $.Graded .Correct }} correct{{ end }}">
<label>
{{- if $item.Multiple }}
<input type="checkbox" name="q{{ $item.Index }}" value="{{ .Index }}"{{ if .Checked }} checked{{ end }}{{ if $.Graded }} disabled{{ end }}>
{{- else }}
<input type="radio" name="q{{ $item.Index }}" value="{{ .Index }}"{{ if .Checked }} checked{{ end }}{{ if $.Graded }} disabled{{ end }}>
{{- end }}
{{ .Label }}</label>
</div>
{{- end }}
{{- else if .TextInput }}
<input type="text" name="q{{ .Index }}" value="{{ .TextValue }}"{{ if $.Graded }} disabled{{ end }}>
{{- else if .Essay }}
<textarea name="q{{ .Index }}" rows="5"{{ if $.Graded }} disabled{{ end }}>{{ .TextValue }}</textarea>
{{- else }}
{{- range .Options }}
<div class="answer">{{ .Label }}</div>
{{- end }}
<p><em>This question type cannot be graded.</em></p>
{{- end }}
{{- if $.Graded }}
{{- if eq .Verdict "correct" }}
<p class="feedback correct">Correct</p>
{{- else if eq .Verdict "incorrect" }}
<p class="feedback incorrect">Incorrect.{{ if .ExpectedDisplay }} Expected: {{ .ExpectedDisplay }}{{ end }}</p>
{{- else if eq .Verdict "ungraded" }}
<p class="feedback ungraded">Recorded, not graded</p>
{{- else }}
<p class="feedback not_gradable">Not gradable</p>
{{- end }}
{{- end }}
</div>
{{- end }}
{{- if .Graded }}
<a href="">Reset</a>
{{- else }}
<button type="submit">Submit</button>
{{- end }}
</form>
{{- end }}
</body>
</html>
`))
