package grading

import (
	"math"
	"strconv"
	"strings"

	"github.com/replaylab/quizreplay/internal/quiz"
)

// defaultEpsilon is the comparison slack when a question recorded no
// tolerance of its own: near-exact, just enough to absorb float parsing
// noise. Visibly off answers (even by 1e-7) stay wrong.
const defaultEpsilon = 1e-9

func parseFloatLoose(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	if sp := strings.Fields(s); len(sp) > 0 {
		if v, err := strconv.ParseFloat(sp[0], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// withinTolerance accepts when |given-want| is inside the stored absolute
// tolerance, or inside defaultEpsilon when none was recorded.
func withinTolerance(given, want float64, tol *float64) bool {
	eps := defaultEpsilon
	if tol != nil {
		eps = *tol
	}
	return math.Abs(given-want) <= eps
}

// withinRange checks [start, end] inclusively, treating a missing bound as
// infinite on that side.
func withinRange(v float64, r quiz.Range) bool {
	if r.Start != nil && v < *r.Start {
		return false
	}
	if r.End != nil && v > *r.End {
		return false
	}
	return true
}
