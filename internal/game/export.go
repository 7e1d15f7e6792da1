// internal/game/export.go
package game

import (
	"encoding/json"
	"time"
)

// ConfigSnapshot captures the settings a session was played under, for
// inclusion in the export artifact.
type ConfigSnapshot struct {
	PlayerName    string `json:"playerName"`
	TotalSeconds  int    `json:"totalSeconds"`
	PointsCorrect int    `json:"pointsCorrect"`
	PenaltyWrong  int    `json:"penaltyWrong"`
	Shuffle       bool   `json:"shuffle"`
	Cycle         string `json:"cycle,omitempty"`
	Module        string `json:"module,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
	BankSource    string `json:"bankSource,omitempty"`
}

// ExportPayload is the exported result artifact: the configuration the
// game ran under plus per-letter results and aggregate stats.
type ExportPayload struct {
	Timestamp time.Time      `json:"timestamp"`
	Config    ConfigSnapshot `json:"config"`
	Results   ExportResults  `json:"results"`
}

// ExportResults is the results half of the export payload.
type ExportResults struct {
	Score    int            `json:"score"`
	Correct  int            `json:"correct"`
	Wrong    int            `json:"wrong"`
	Pending  int            `json:"pending"`
	Percent  int            `json:"percent"`
	TimeLeft string         `json:"timeLeft"`
	TimeUsed string         `json:"timeUsed"`
	ByLetter []LetterResult `json:"byLetter"`
}

// BuildExport assembles the export artifact for a finished session.
func BuildExport(summary *Summary, cfg ConfigSnapshot) *ExportPayload {
	return &ExportPayload{
		Timestamp: time.Now().UTC(),
		Config:    cfg,
		Results: ExportResults{
			Score:    summary.Score,
			Correct:  summary.Correct,
			Wrong:    summary.Wrong,
			Pending:  summary.Pending,
			Percent:  summary.Percent,
			TimeLeft: summary.TimeLeft,
			TimeUsed: summary.TimeUsed,
			ByLetter: summary.ByLetter,
		},
	}
}

// MarshalIndent renders the payload as indented JSON for writing to disk.
func (p *ExportPayload) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
