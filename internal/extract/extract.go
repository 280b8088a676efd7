package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/replaylab/quizreplay/internal/quiz"
)

// FromHTML parses a rendered quiz page snapshot and produces the ordered,
// normalized question sequence. Extraction is all-or-nothing: an unexpected
// failure anywhere in the pass yields no records rather than a partial
// sequence. A page with zero question containers is a valid empty result.
func FromHTML(input []byte) (records []quiz.QuestionRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("extraction pass aborted")
			records = nil
			err = fmt.Errorf("extract: pass aborted: %v", r)
		}
	}()

	root, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("extract: parse html: %w", err)
	}

	containers := findAll(root, byAttr("aria-label", "Question"))
	records = make([]quiz.QuestionRecord, 0, len(containers))
	for i, c := range containers {
		records = append(records, extractQuestion(c, i))
	}
	log.Debug().Int("questions", len(records)).Msg("extraction pass complete")
	return records, nil
}

func extractQuestion(n *html.Node, index int) quiz.QuestionRecord {
	rec := quiz.QuestionRecord{
		QuestionHTML: questionText(n, index),
		RawType:      rawType(n),
	}
	rec.Answers = answerOptions(n)

	expected, expectedHTML := shortAnswerProbe(n)
	if expected != nil {
		// A visible short-answer value wins over any numeric sibling: some
		// markup variants embed a spurious numeric 0 span even on
		// short-answer questions.
		rec.Expected = expected
		rec.ExpectedHTML = expectedHTML
		if rec.ExpectedHTML == nil {
			rec.ExpectedHTML = expectedDisplayFromAnswers(rec.Answers)
		}
		log.Debug().Int("question", index).Str("expected", *expected).
			Msg("short-answer value preferred")
	} else {
		numericProbe(n, &rec, index)
	}

	rec.Kind = quiz.NormalizeKind(rec.RawType, rec.Answers, rec.Expected != nil)
	rec.Multiple = quiz.IsMultiple(rec.RawType+" "+classAttr(n), rec.Answers)
	return rec
}

// questionText prefers the enhanced user-content rendition of the body over
// the plain one and falls back to a synthesized label. Inner markup is kept
// verbatim so embedded images and formulas render identically on replay.
func questionText(n *html.Node, index int) string {
	return firstNonEmpty(
		func() string { return innerHTML(first(n, byClass("question_text", "user_content", "enhanced"))) },
		func() string { return innerHTML(first(n, byClass("question_text"))) },
		func() string { return fmt.Sprintf("Question %d", index+1) },
	)
}

// rawType reads the explicit type-label element when present, otherwise
// guesses from the container's class attribute. Best effort: normalization
// can still override the guess.
func rawType(n *html.Node) string {
	if t := strings.TrimSpace(innerText(first(n, byClass("question_type")))); t != "" {
		return t
	}
	cls := classAttr(n)
	for _, t := range []string{
		"numerical_question",
		"true_false_question",
		"multiple_choice_question",
		"essay_question",
		"short_answer_question",
	} {
		if strings.Contains(cls, t) {
			return t
		}
	}
	return "unknown"
}

var correctClassRe = regexp.MustCompile(`(?i)\b(correct_answer|correct)\b`)

func answerOptions(n *html.Node) []quiz.AnswerOption {
	els := findAll(n, byClass("answer"))
	out := make([]quiz.AnswerOption, 0, len(els))
	for _, el := range els {
		opt := quiz.AnswerOption{
			Text: firstNonEmpty(
				func() string { return strings.TrimSpace(innerText(first(el, byClass("answer_text")))) },
				func() string {
					return inputValue(first(el, allOf(byTag("input"), byAttr("name", "answer_text"))))
				},
				func() string { return strings.TrimSpace(innerText(el)) },
			),
			IsCorrect: correctClassRe.MatchString(classAttr(el)),
			Weight:    strings.TrimSpace(innerText(first(el, byClass("answer_weight")))),
		}
		if h := innerHTML(first(el, byClass("answer_html"))); h != "" {
			opt.HTML = &h
		}
		out = append(out, opt)
	}
	return out
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

// shortAnswerProbe looks for a visible short-answer input value, then a
// generic answer-text element. It runs before any numeric probing and takes
// precedence when it yields anything.
func shortAnswerProbe(n *html.Node) (expected, expectedHTML *string) {
	v := firstNonEmpty(
		func() string { return inputValue(first(n, byClass("question_input"))) },
		func() string {
			return inputValue(first(n, allOf(byTag("input"), byAttr("name", "answer_text"))))
		},
		func() string {
			return inputValue(first(first(n, byClass("answer_type", "short_answer")), byTag("input")))
		},
	)
	if v != "" {
		return &v, nil
	}

	at := first(n, byClass("answer_text"))
	if at == nil {
		return nil, nil
	}
	htmlFrag := innerHTML(at)
	txt := strings.TrimSpace(innerText(at))
	if htmlFrag != "" {
		val := txt
		if val == "" {
			val = strings.TrimSpace(tagRe.ReplaceAllString(htmlFrag, ""))
		}
		if val == "" {
			return nil, nil
		}
		return &val, &htmlFrag
	}
	if txt != "" {
		return &txt, nil
	}
	return nil, nil
}

func expectedDisplayFromAnswers(answers []quiz.AnswerOption) *string {
	for _, a := range answers {
		if a.HTML != nil && strings.TrimSpace(*a.HTML) != "" {
			h := *a.HTML
			return &h
		}
		if strings.TrimSpace(a.Text) != "" {
			t := a.Text
			return &t
		}
	}
	return nil
}

// numericProbe fills exact/tolerance, equation, or range fields, in that
// order of preference. Only reached when the short-answer probe found
// nothing.
func numericProbe(n *html.Node, rec *quiz.QuestionRecord, index int) {
	exact := strings.TrimSpace(innerText(descendant(n, "numerical_exact_answer", "answer_exact")))
	equation := strings.TrimSpace(innerText(descendant(n, "numerical_range_answer", "answer_equation")))
	rangeStart := strings.TrimSpace(innerText(descendant(n, "numerical_range_answer", "answer_range_start")))
	rangeEnd := strings.TrimSpace(innerText(descendant(n, "numerical_range_answer", "answer_range_end")))

	switch {
	case exact != "":
		rec.Expected = &exact
		margin := firstNonEmpty(
			func() string {
				return strings.TrimSpace(innerText(descendant(n, "numerical_exact_answer", "answer_error_margin")))
			},
			func() string {
				return strings.TrimSpace(innerText(descendant(n, "numerical_exact_answer", "answer_tolerance")))
			},
		)
		// Unparseable margins leave the tolerance unset, not zero.
		if tol, err := strconv.ParseFloat(margin, 64); err == nil {
			rec.Tolerance = &tol
		}
	case equation != "":
		rec.Expected = &equation
	case rangeStart != "" || rangeEnd != "":
		r := &quiz.Range{}
		if v, err := strconv.ParseFloat(rangeStart, 64); err == nil {
			r.Start = &v
		}
		if v, err := strconv.ParseFloat(rangeEnd, 64); err == nil {
			r.End = &v
		}
		if r.Start != nil || r.End != nil {
			rec.ExpectedRange = r
		}
	}
	log.Debug().Int("question", index).
		Str("exact", exact).Str("equation", equation).
		Str("range_start", rangeStart).Str("range_end", rangeEnd).
		Msg("numeric probe")
}
