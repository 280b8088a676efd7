package grading

import (
	"github.com/rs/zerolog/log"

	"github.com/replaylab/quizreplay/internal/quiz"
)

// Verdict is the per-question grading outcome.
type Verdict string

const (
	VerdictCorrect     Verdict = "correct"
	VerdictIncorrect   Verdict = "incorrect"
	VerdictUngraded    Verdict = "ungraded"     // recorded but not scored (essay, missing key)
	VerdictNotGradable Verdict = "not_gradable" // unrecognized question kind
)

// Response is a user's answer to one question: selected option indices for
// choice kinds, free text for everything else. The zero value means "no
// answer", which choice grading scores as incorrect, not skipped.
type Response struct {
	SelectedIndices []int  `json:"selected_indices,omitempty"`
	Text            string `json:"text,omitempty"`
}

// Outcome is the graded result for one question, including the data the
// replay page needs for self-check feedback.
type Outcome struct {
	Index           int     `json:"index"`
	Verdict         Verdict `json:"verdict"`
	CorrectIndices  []int   `json:"correct_indices,omitempty"`  // revealed regardless of selection
	ExpectedDisplay string  `json:"expected_display,omitempty"` // shown when an input answer is wrong
}

// Summary is the score report for one submission. Score is
// Correct/Gradable; essays and keyless questions never enter the
// denominator.
type Summary struct {
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Ungraded  int     `json:"ungraded"`
	Gradable  int     `json:"gradable"`
	Score     float64 `json:"score"`
}

// Strategy grades a single question.
type Strategy interface {
	Grade(q quiz.QuestionRecord, resp Response) Verdict
}

// Grader routes by normalized question kind to the matching Strategy.
type Grader struct {
	strategies map[quiz.Kind]Strategy
}

func NewGrader() *Grader {
	choice := choiceStrategy{}
	input := inputStrategy{}
	return &Grader{
		strategies: map[quiz.Kind]Strategy{
			quiz.KindMultipleChoice: choice,
			quiz.KindTrueFalse:      choice,
			quiz.KindNumerical:      input,
			quiz.KindText:           input,
			quiz.KindShortAnswer:    shortAnswerStrategy{},
			quiz.KindEssay:          essayStrategy{},
		},
	}
}

// Grade evaluates one question. Unrecognized kinds are not gradable.
func (g *Grader) Grade(q quiz.QuestionRecord, resp Response) Verdict {
	s, ok := g.strategies[q.Kind]
	if !ok {
		return VerdictNotGradable
	}
	return s.Grade(q, resp)
}

// GradeAll evaluates every record once against the supplied responses
// (keyed by question index; missing entries count as unanswered) and
// produces per-question outcomes plus a score summary. A failure grading one
// question never aborts the rest.
func (g *Grader) GradeAll(records []quiz.QuestionRecord, responses map[int]Response) ([]Outcome, Summary) {
	outcomes := make([]Outcome, len(records))
	var sum Summary
	for i, q := range records {
		out := Outcome{Index: i, Verdict: g.gradeContained(q, responses[i])}
		out.CorrectIndices = q.CorrectIndices()
		if out.Verdict == VerdictIncorrect && inputKind(q.Kind) {
			out.ExpectedDisplay = expectedDisplay(q)
		}
		switch out.Verdict {
		case VerdictCorrect:
			sum.Correct++
			sum.Gradable++
		case VerdictIncorrect:
			sum.Incorrect++
			sum.Gradable++
		case VerdictUngraded:
			sum.Ungraded++
		}
		outcomes[i] = out
	}
	if sum.Gradable > 0 {
		sum.Score = float64(sum.Correct) / float64(sum.Gradable)
	}
	return outcomes, sum
}

func (g *Grader) gradeContained(q quiz.QuestionRecord, resp Response) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("grading one question failed")
			v = VerdictNotGradable
		}
	}()
	return g.Grade(q, resp)
}

// inputKind reports whether feedback for the question shows the stored
// expected value. Choice questions reveal correct options instead.
func inputKind(k quiz.Kind) bool {
	return k == quiz.KindNumerical || k == quiz.KindText || k == quiz.KindShortAnswer
}

func expectedDisplay(q quiz.QuestionRecord) string {
	if q.ExpectedHTML != nil && *q.ExpectedHTML != "" {
		return *q.ExpectedHTML
	}
	if q.Expected != nil {
		return *q.Expected
	}
	return ""
}

// --- Strategies ---

// choiceStrategy covers both exclusive single-select and independent
// multi-select, switching on the record's Multiple flag. Multi-select
// demands exact set equality with the correct indices: partial overlap is
// fully incorrect, never partial credit.
type choiceStrategy struct{}

func (choiceStrategy) Grade(q quiz.QuestionRecord, resp Response) Verdict {
	correct := q.CorrectIndices()
	if q.Multiple {
		if indexSetEqual(correct, resp.SelectedIndices) {
			return VerdictCorrect
		}
		return VerdictIncorrect
	}
	if len(resp.SelectedIndices) != 1 {
		return VerdictIncorrect
	}
	sel := resp.SelectedIndices[0]
	if sel >= 0 && sel < len(q.Answers) && q.Answers[sel].IsCorrect {
		return VerdictCorrect
	}
	return VerdictIncorrect
}

// shortAnswerStrategy compares trimmed, case-insensitive strings.
type shortAnswerStrategy struct{}

func (shortAnswerStrategy) Grade(q quiz.QuestionRecord, resp Response) Verdict {
	if q.Expected == nil {
		return VerdictUngraded
	}
	if textEqual(resp.Text, *q.Expected) {
		return VerdictCorrect
	}
	return VerdictIncorrect
}

// inputStrategy grades numerical/text questions. Precedence: range, then
// exact value with tolerance (string comparison when either side is not a
// number), then ungraded acknowledgment when no key exists at all.
type inputStrategy struct{}

func (inputStrategy) Grade(q quiz.QuestionRecord, resp Response) Verdict {
	if q.ExpectedRange != nil {
		if v, ok := parseFloatLoose(resp.Text); ok && withinRange(v, *q.ExpectedRange) {
			return VerdictCorrect
		}
		return VerdictIncorrect
	}
	if q.Expected != nil {
		given, gOK := parseFloatLoose(resp.Text)
		want, wOK := parseFloatLoose(*q.Expected)
		if gOK && wOK {
			if withinTolerance(given, want, q.Tolerance) {
				return VerdictCorrect
			}
			return VerdictIncorrect
		}
		if textEqual(resp.Text, *q.Expected) {
			return VerdictCorrect
		}
		return VerdictIncorrect
	}
	return VerdictUngraded
}

// essayStrategy never grades; essays are excluded from the denominator.
type essayStrategy struct{}

func (essayStrategy) Grade(quiz.QuestionRecord, Response) Verdict {
	return VerdictUngraded
}

func indexSetEqual(a, b []int) bool {
	as := make(map[int]struct{}, len(a))
	for _, i := range a {
		as[i] = struct{}{}
	}
	bs := make(map[int]struct{}, len(b))
	for _, i := range b {
		bs[i] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if _, ok := bs[i]; !ok {
			return false
		}
	}
	return true
}
