package quiz

import "strings"

// NormalizeKind maps a raw scraped type label plus the shape of the extracted
// data onto one of the Kind values. It always runs after extraction and may
// override the class-name guess: input-style questions sometimes carry no
// options at all, and option-style questions sometimes carry a noisy or empty
// raw label.
func NormalizeKind(rawType string, answers []AnswerOption, hasExpected bool) Kind {
	if !anyOptionText(answers) && hasExpected {
		if strings.Contains(rawType, "numerical") {
			return KindNumerical
		}
		return KindText
	}
	switch {
	case rawType == "true_false_question":
		return KindTrueFalse
	case strings.Contains(rawType, "numerical"):
		return KindNumerical
	case strings.Contains(rawType, "short_answer"):
		return KindShortAnswer
	case strings.Contains(rawType, "essay"):
		return KindEssay
	default:
		return KindMultipleChoice
	}
}

// IsMultiple reports whether a question should render as an independent
// multi-select: either more than one option is flagged correct, or the page
// marked it as a multiple-answers question explicitly.
func IsMultiple(rawTypeOrClass string, answers []AnswerOption) bool {
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	return correct > 1 || containsWord(rawTypeOrClass, "multiple_answers_question")
}

// CorrectIndices returns the option indices flagged correct, in order.
func (q QuestionRecord) CorrectIndices() []int {
	var out []int
	for i, a := range q.Answers {
		if a.IsCorrect {
			out = append(out, i)
		}
	}
	return out
}

// Gradable reports whether the question contributes to the score denominator.
// Essays are answered but never graded.
func (q QuestionRecord) Gradable() bool {
	return q.Kind != KindEssay
}

func anyOptionText(answers []AnswerOption) bool {
	for _, a := range answers {
		if a.Text != "" {
			return true
		}
	}
	return false
}

func containsWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if f == word {
			return true
		}
	}
	return false
}
