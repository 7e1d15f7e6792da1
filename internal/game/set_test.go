// internal/game/set_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roscointegra/internal/models"
)

func TestBuildGameSetDeterministicWithoutShuffle(t *testing.T) {
	order := []string{"A", "B"}
	qs := []models.Question{
		{Letter: "A", Prompt: "first A", Answer: "x"},
		{Letter: "A", Prompt: "second A", Answer: "y"},
		{Letter: "B", Prompt: "only B", Answer: "z"},
	}

	set := BuildGameSet(order, qs, false, nil)
	require.Len(t, set.Letters, 2)
	assert.Equal(t, "first A", set.Letters[0].Question.Prompt, "shuffle off picks the first pool entry")
	assert.Equal(t, "only B", set.Letters[1].Question.Prompt)
	assert.Len(t, set.PoolByLetter["A"], 2)
	assert.Len(t, set.PoolByLetter["B"], 1)
}

func TestBuildGameSetDisablesEmptyLetters(t *testing.T) {
	order := []string{"A", "B", "C"}
	qs := []models.Question{{Letter: "B", Prompt: "p", Answer: "a"}}

	set := BuildGameSet(order, qs, false, nil)
	require.Len(t, set.Letters, 3)
	assert.Equal(t, models.StatusDisabled, set.Letters[0].Status)
	assert.Nil(t, set.Letters[0].Question)
	assert.Equal(t, models.StatusPending, set.Letters[1].Status)
	assert.Equal(t, models.StatusDisabled, set.Letters[2].Status)
	assert.NotContains(t, set.SelectedByLetter, "A")
}

func TestBuildGameSetIgnoresLettersOutsideOrder(t *testing.T) {
	order := []string{"A"}
	qs := []models.Question{
		{Letter: "A", Prompt: "p", Answer: "a"},
		{Letter: "Z", Prompt: "stray", Answer: "stray"},
	}

	set := BuildGameSet(order, qs, false, nil)
	require.Len(t, set.Letters, 1)
	assert.NotContains(t, set.PoolByLetter, "Z")
}

func TestBuildGameSetSeededShuffleIsReproducible(t *testing.T) {
	order := []string{"A"}
	qs := []models.Question{
		{Letter: "A", Prompt: "one", Answer: "1"},
		{Letter: "A", Prompt: "two", Answer: "2"},
		{Letter: "A", Prompt: "three", Answer: "3"},
	}

	first := BuildGameSet(order, qs, true, rand.New(rand.NewSource(42)))
	second := BuildGameSet(order, qs, true, rand.New(rand.NewSource(42)))
	assert.Equal(t, first.Letters[0].Question.Prompt, second.Letters[0].Question.Prompt)
}
