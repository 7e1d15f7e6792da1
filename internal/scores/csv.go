// internal/scores/csv.go
package scores

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"roscointegra/internal/models"
)

// ExportCSV renders ledger entries as CSV, best first, with a header row.
func ExportCSV(entries []models.ScoreEntry) ([]byte, error) {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, []string{"Rank", "Player", "Score", "Timestamp"})
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			e.PlayerName,
			fmt.Sprintf("%d", e.Score),
			e.Timestamp.Format(time.RFC3339),
		})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
