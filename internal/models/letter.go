package models

// LetterStatus is the lifecycle state of one wheel entry.
// Disabled is permanent for a session; Pending may transition to
// Correct or Wrong exactly once.
type LetterStatus string

const (
	StatusDisabled LetterStatus = "disabled"
	StatusPending  LetterStatus = "pending"
	StatusCorrect  LetterStatus = "correct"
	StatusWrong    LetterStatus = "wrong"
)

// Letter is one entry of the wheel: a letter code, its status, and the
// question selected for it (nil when Disabled).
type Letter struct {
	Letter   string       `json:"letter"`
	Status   LetterStatus `json:"status"`
	Question *Question    `json:"question,omitempty"`
}
