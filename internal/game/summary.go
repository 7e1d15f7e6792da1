// internal/game/summary.go
package game

import (
	"fmt"
	"math"
	"time"

	"roscointegra/internal/models"
)

// LetterResult is the end-of-game outcome of one wheel entry.
type LetterResult struct {
	Letter string              `json:"letter"`
	Prompt string              `json:"prompt"`
	Answer string              `json:"answer"`
	Status models.LetterStatus `json:"status"`
}

// Summary is the immutable end-of-session report. Once built it is
// independent of any later session mutation.
type Summary struct {
	Timestamp   time.Time      `json:"timestamp"`
	Reason      EndReason      `json:"reason"`
	PlayerName  string         `json:"playerName"`
	Score       int            `json:"score"`
	Correct     int            `json:"correct"`
	Wrong       int            `json:"wrong"`
	Pending     int            `json:"pending"`
	Playable    int            `json:"playable"`
	Percent     int            `json:"percent"`
	SecondsLeft int            `json:"secondsLeft"`
	SecondsUsed int            `json:"secondsUsed"`
	TimeLeft    string         `json:"timeLeft"` // MM:SS
	TimeUsed    string         `json:"timeUsed"` // MM:SS
	ByLetter    []LetterResult `json:"byLetter"`
}

// buildSummaryLocked derives the end-of-game statistics from the wheel.
// Assumes lock is held. Disabled letters are excluded from the playable
// count; percent over zero playable letters is 0.
func (s *Session) buildSummaryLocked(reason EndReason) *Summary {
	byLetter := make([]LetterResult, 0, len(s.Letters))
	var correct, wrong, pending, playable int
	for _, l := range s.Letters {
		res := LetterResult{Letter: l.Letter, Status: l.Status}
		if l.Question != nil {
			res.Prompt = l.Question.Prompt
			res.Answer = l.Question.Answer
		}
		byLetter = append(byLetter, res)

		switch l.Status {
		case models.StatusDisabled:
			continue
		case models.StatusCorrect:
			correct++
		case models.StatusWrong:
			wrong++
		case models.StatusPending:
			pending++
		}
		playable++
	}

	percent := 0
	if playable > 0 {
		percent = int(math.Round(100 * float64(correct) / float64(playable)))
	}

	remaining := s.TimeLeft
	if remaining < 0 {
		remaining = 0
	}
	used := s.TotalSeconds - remaining
	if used < 0 {
		used = 0
	}

	return &Summary{
		Timestamp:   time.Now().UTC(),
		Reason:      reason,
		PlayerName:  s.PlayerName,
		Score:       s.Score,
		Correct:     correct,
		Wrong:       wrong,
		Pending:     pending,
		Playable:    playable,
		Percent:     percent,
		SecondsLeft: remaining,
		SecondsUsed: used,
		TimeLeft:    FormatMMSS(remaining),
		TimeUsed:    FormatMMSS(used),
		ByLetter:    byLetter,
	}
}

// FormatMMSS renders seconds as zero-padded MM:SS with no hour component.
// Negative inputs are clamped to 0.
func FormatMMSS(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
