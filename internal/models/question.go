package models

import "strings"

// QuestionType distinguishes how the answer relates to the letter.
type QuestionType string

const (
	QuestionStartsWith QuestionType = "starts-with"
	QuestionContains   QuestionType = "contains"
)

// Question is a single normalized bank entry. Immutable once loaded.
type Question struct {
	ID         string       `json:"id,omitempty"`
	Letter     string       `json:"letter"`
	Type       QuestionType `json:"type"`
	Prompt     string       `json:"prompt"`
	Answer     string       `json:"answer"`
	Cycle      string       `json:"cycle,omitempty"`
	Module     string       `json:"module,omitempty"`
	Difficulty string       `json:"difficulty,omitempty"`
	AudioRefs  []string     `json:"audio,omitempty"`
}

// DedupKey is the uniqueness key for duplicate tracking: same letter plus
// case-insensitive prompt and answer count as one question.
func (q *Question) DedupKey() string {
	return q.Letter + "|" + strings.ToLower(q.Prompt) + "|" + strings.ToLower(q.Answer)
}
