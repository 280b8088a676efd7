package quiz

import "testing"

func TestNormalizeKind(t *testing.T) {
	withText := []AnswerOption{{Text: "a"}, {Text: "b", IsCorrect: true}}
	emptyText := []AnswerOption{{Text: ""}, {Text: ""}}

	cases := []struct {
		name        string
		rawType     string
		answers     []AnswerOption
		hasExpected bool
		want        Kind
	}{
		{"true false exact label", "true_false_question", withText, false, KindTrueFalse},
		{"numerical label", "numerical_question", withText, false, KindNumerical},
		{"short answer label", "short_answer_question", withText, false, KindShortAnswer},
		{"essay label", "essay_question", nil, false, KindEssay},
		{"noisy label defaults to choice", "calculated_question", withText, false, KindMultipleChoice},
		{"empty label defaults to choice", "", withText, false, KindMultipleChoice},
		{"no options with expected becomes text", "unknown", nil, true, KindText},
		{"textless options with expected becomes text", "short_answer_question", emptyText, true, KindText},
		{"no options with expected and numerical label", "numerical_question", nil, true, KindNumerical},
		{"no options and no expected falls through", "", nil, false, KindMultipleChoice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeKind(tc.rawType, tc.answers, tc.hasExpected); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsMultiple(t *testing.T) {
	one := []AnswerOption{{IsCorrect: true}, {}}
	two := []AnswerOption{{IsCorrect: true}, {IsCorrect: true}}

	if IsMultiple("multiple_choice_question", one) {
		t.Fatal("single correct answer without marker must not be multiple")
	}
	if !IsMultiple("multiple_choice_question", two) {
		t.Fatal("two correct answers must be multiple")
	}
	if !IsMultiple("question multiple_answers_question", one) {
		t.Fatal("explicit marker must force multiple")
	}
	if IsMultiple("question multiple_answers_question_extra", one) {
		t.Fatal("marker match must be whole-word")
	}
}

func TestCorrectIndices(t *testing.T) {
	q := QuestionRecord{Answers: []AnswerOption{
		{IsCorrect: true}, {}, {IsCorrect: true},
	}}
	got := q.CorrectIndices()
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("got %v, want [0 2]", got)
	}
}

func TestGradable(t *testing.T) {
	if (QuestionRecord{Kind: KindEssay}).Gradable() {
		t.Fatal("essays are never gradable")
	}
	if !(QuestionRecord{Kind: KindMultipleChoice}).Gradable() {
		t.Fatal("choice questions are gradable")
	}
}
