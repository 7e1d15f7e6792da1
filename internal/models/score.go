package models

import (
	"time"

	"github.com/google/uuid"
)

// ScoreEntry is one row of the persisted top-score ledger.
type ScoreEntry struct {
	ID         uuid.UUID `json:"id"`
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
}
