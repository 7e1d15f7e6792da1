package bank

import (
	"strings"

	"roscointegra/internal/models"
)

// Filter narrows a question list by cycle, module and difficulty.
// Empty fields match everything.
type Filter struct {
	Cycle      string
	Module     string
	Difficulty string
}

func normalizeFilterValue(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Match reports whether q passes every non-empty filter field,
// case-insensitively.
func (f Filter) Match(q *models.Question) bool {
	if c := normalizeFilterValue(f.Cycle); c != "" && normalizeFilterValue(q.Cycle) != c {
		return false
	}
	if m := normalizeFilterValue(f.Module); m != "" && normalizeFilterValue(q.Module) != m {
		return false
	}
	if d := normalizeFilterValue(f.Difficulty); d != "" && normalizeFilterValue(q.Difficulty) != d {
		return false
	}
	return true
}

// Apply returns the questions passing the filter, preserving input order.
func (f Filter) Apply(questions []models.Question) []models.Question {
	out := make([]models.Question, 0, len(questions))
	for i := range questions {
		if f.Match(&questions[i]) {
			out = append(out, questions[i])
		}
	}
	return out
}
