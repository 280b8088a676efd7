package quiz

// Kind is the normalized question classification. Raw type labels scraped
// from the page are noisy; Kind is always one of the values below.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindTrueFalse      Kind = "true_false"
	KindNumerical      Kind = "numerical"
	KindText           Kind = "text"
	KindShortAnswer    Kind = "short_answer"
	KindEssay          Kind = "essay"
	KindUnknown        Kind = "unknown"
)

// AnswerOption is one selectable option of a choice question. Option order is
// significant: the slice index is the only linkage between an option and a
// user selection, so it must survive storage round-trips unchanged.
type AnswerOption struct {
	Text      string  `json:"text"`
	HTML      *string `json:"html,omitempty"` // richer markup when the page carried one
	IsCorrect bool    `json:"is_correct"`
	Weight    string  `json:"weight,omitempty"` // raw weight string, informational only
}

// Range is a numeric acceptance interval. A nil bound means open on that
// side; a record with only one bound is valid.
type Range struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// QuestionRecord is the normalized representation of one scraped question.
// Records are immutable after extraction; grading never mutates them.
//
// Expected, Tolerance and ExpectedRange are pointers because absence and a
// falsy-but-valid value ("" or "0") must stay distinguishable.
type QuestionRecord struct {
	QuestionHTML  string         `json:"question"`       // markup fragment, never empty
	RawType       string         `json:"raw_type"`       // type label as found in the page, may be ""
	Kind          Kind           `json:"type"`           // normalized classification
	Multiple      bool           `json:"multiple"`       // more than one correct option, or explicit marker
	Answers       []AnswerOption `json:"answers"`        // ordered, order is grading-significant
	Expected      *string        `json:"expected,omitempty"`
	ExpectedHTML  *string        `json:"expected_html,omitempty"` // display-only mirror of Expected
	Tolerance     *float64       `json:"tolerance,omitempty"`     // absolute tolerance for numeric compare
	ExpectedRange *Range         `json:"expected_range,omitempty"`
}

// Capture is the persisted unit: one full extraction pass over one quiz page.
// A fresh capture replaces "latest"; captures are never merged or deduplicated.
type Capture struct {
	ID         string           `json:"id"`
	Title      string           `json:"title,omitempty"`
	SourceURL  string           `json:"source_url,omitempty"`
	CapturedAt int64            `json:"captured_at"`
	Questions  []QuestionRecord `json:"questions"`
}

// CaptureSummary is the listing view of a capture, without question payloads.
type CaptureSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title,omitempty"`
	SourceURL     string `json:"source_url,omitempty"`
	CapturedAt    int64  `json:"captured_at"`
	QuestionCount int    `json:"question_count"`
}
