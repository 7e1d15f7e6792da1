// internal/scores/ledger.go
package scores

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"roscointegra/internal/models"
	"roscointegra/internal/store"
)

// MaxEntries bounds the ledger: only the top scores survive an insert.
const MaxEntries = 10

// DefaultKey is where the KV-backed ledger lives inside the store.
const DefaultKey = "roscointegra.scores.v1"

// Keeper maintains the persisted top-score ledger. After any number of
// appends it holds at most MaxEntries entries, sorted by score descending
// with ties broken by earlier timestamp.
type Keeper interface {
	Append(ctx context.Context, entry models.ScoreEntry) error
	Top(ctx context.Context) ([]models.ScoreEntry, error)
	Clear(ctx context.Context) error
}

// sortEntries orders by score descending, then timestamp ascending so an
// earlier equal score ranks higher.
func sortEntries(entries []models.ScoreEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

// sanitize drops malformed persisted rows instead of failing the load.
func sanitize(entries []models.ScoreEntry) []models.ScoreEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.Score < 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Ledger is a Keeper over the simple key-value store.
type Ledger struct {
	store store.Store
	key   string
	log   *logrus.Logger
}

// NewLedger builds a KV-backed ledger under DefaultKey.
func NewLedger(st store.Store, log *logrus.Logger) *Ledger {
	if log == nil {
		log = logrus.New()
	}
	return &Ledger{store: st, key: DefaultKey, log: log}
}

func (l *Ledger) load(ctx context.Context) ([]models.ScoreEntry, error) {
	var entries []models.ScoreEntry
	ok, err := l.store.Load(ctx, l.key, &entries)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return sanitize(entries), nil
}

// Append inserts entry, re-sorts, truncates to MaxEntries and persists.
func (l *Ledger) Append(ctx context.Context, entry models.ScoreEntry) error {
	entries, err := l.load(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	sortEntries(entries)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	if err := l.store.Save(ctx, l.key, entries); err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{
		"player": entry.PlayerName,
		"score":  entry.Score,
	}).Debug("score appended to ledger")
	return nil
}

// Top returns the ledger contents, best first.
func (l *Ledger) Top(ctx context.Context) ([]models.ScoreEntry, error) {
	entries, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries, nil
}

// Clear wipes the ledger.
func (l *Ledger) Clear(ctx context.Context) error {
	return l.store.Remove(ctx, l.key)
}
