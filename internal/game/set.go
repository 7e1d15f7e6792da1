// internal/game/set.go
package game

import (
	"math/rand"
	"time"

	"roscointegra/internal/models"
)

// GameSet is one built wheel: the ordered letter entries, the question
// selected per letter, and the full per-letter pools. Pools are retained
// so a timer reset can replay the same wheel without reloading the bank.
type GameSet struct {
	Letters          []*models.Letter
	SelectedByLetter map[string]*models.Question
	PoolByLetter     map[string][]*models.Question
}

// BuildGameSet partitions the filtered questions by letter and selects
// one question per letter: uniformly random from the pool when shuffle is
// on, else the first pool entry. Letters with an empty pool are Disabled.
//
// rng may be nil; a time-seeded source is used then. With shuffle off the
// result is fully deterministic for a given input order.
func BuildGameSet(letterOrder []string, filtered []models.Question, shuffle bool, rng *rand.Rand) *GameSet {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	pools := make(map[string][]*models.Question, len(letterOrder))
	for _, l := range letterOrder {
		pools[l] = nil
	}
	for i := range filtered {
		q := &filtered[i]
		if _, ok := pools[q.Letter]; ok {
			pools[q.Letter] = append(pools[q.Letter], q)
		}
	}

	selected := make(map[string]*models.Question, len(letterOrder))
	letters := make([]*models.Letter, 0, len(letterOrder))
	for _, l := range letterOrder {
		pool := pools[l]
		if len(pool) == 0 {
			letters = append(letters, &models.Letter{Letter: l, Status: models.StatusDisabled})
			continue
		}
		picked := pool[0]
		if shuffle {
			picked = pool[rng.Intn(len(pool))]
		}
		selected[l] = picked
		letters = append(letters, &models.Letter{Letter: l, Status: models.StatusPending, Question: picked})
	}

	return &GameSet{Letters: letters, SelectedByLetter: selected, PoolByLetter: pools}
}
