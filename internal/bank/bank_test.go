// internal/bank/bank_test.go
package bank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roscointegra/internal/models"
)

func rawQ(letter, prompt, answer string) RawQuestion {
	return RawQuestion{Letter: letter, Type: "starts-with", Prompt: prompt, Answer: answer}
}

func TestValidateRejectsMissingQuestions(t *testing.T) {
	_, _, err := Validate(&RawBank{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, -1, verr.Index)

	_, _, err = Validate(nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, -1, verr.Index)
}

func TestValidateRejectsUnknownLetter(t *testing.T) {
	raw := &RawBank{Questions: []RawQuestion{
		rawQ("A", "p", "a"),
		rawQ("W", "p", "a"), // W is outside the wheel alphabet
	}}
	_, _, err := Validate(raw)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)
	assert.Contains(t, verr.Error(), "questions[1]")
}

func TestValidateRejectsIncompleteRecord(t *testing.T) {
	raw := &RawBank{Questions: []RawQuestion{
		{Letter: "A", Type: "starts-with", Prompt: "p", Answer: "   "},
	}}
	_, _, err := Validate(raw)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, verr.Index)
}

func TestValidateFallsBackToDefaultOrder(t *testing.T) {
	raw := &RawBank{Questions: []RawQuestion{rawQ("A", "p", "a")}}
	b, sum, err := Validate(raw)
	require.NoError(t, err)
	assert.True(t, sum.UsedFallback)
	assert.Equal(t, DefaultLetterOrder, b.LetterOrder)
	// Fallback keeps every alphabet letter; 20 of them have no question.
	assert.Len(t, sum.MissingLetters, len(DefaultLetterOrder)-1)
	assert.NotContains(t, sum.MissingLetters, "A")
}

func TestValidateNormalizesDeclaredOrder(t *testing.T) {
	raw := &RawBank{
		LetterOrder: []string{" a ", "b", "A", "k", ""},
		Questions:   []RawQuestion{rawQ("a", "p", "a")},
	}
	b, sum, err := Validate(raw)
	require.NoError(t, err)
	assert.False(t, sum.UsedFallback)
	// Uppercased, deduped, unknown K dropped.
	assert.Equal(t, []string{"A", "B"}, b.LetterOrder)
	assert.Equal(t, []string{"B"}, sum.MissingLetters)
	assert.Equal(t, "A", b.Questions[0].Letter)
}

func TestValidateDropsLettersOutsideDeclaredOrder(t *testing.T) {
	raw := &RawBank{
		LetterOrder: []string{"A"},
		Questions: []RawQuestion{
			rawQ("A", "p", "a"),
			rawQ("B", "in alphabet but not in order", "dropped"),
		},
	}
	b, sum, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Total)
	require.Len(t, b.Questions, 1)
	assert.Equal(t, "A", b.Questions[0].Letter)

	assert.Contains(t, sum.Logs,
		"letter B has questions but is not in the letter order, ignoring",
		"drop is logged, not an error")
}

func TestValidateCountsDuplicatesWithoutRemoving(t *testing.T) {
	raw := &RawBank{
		LetterOrder: []string{"A"},
		Questions: []RawQuestion{
			rawQ("A", "Same Prompt", "Same Answer"),
			rawQ("A", "same prompt", "SAME ANSWER"),
			rawQ("A", "different", "different"),
		},
	}
	b, sum, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Total, "duplicates are counted, not removed")
	assert.Equal(t, 1, sum.DuplicateCount)
	assert.Len(t, b.Questions, 3)
}

func TestLoadParsesBankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	body := `{"letterOrder":["A"],"questions":[{"letter":"A","type":"contains","prompt":"p","answer":"a"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	raw, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, raw.LetterOrder)
	require.Len(t, raw.Questions, 1)
	assert.Equal(t, "contains", raw.Questions[0].Type)

	_, err = Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestFilterMatchesCaseInsensitively(t *testing.T) {
	qs := []models.Question{
		{Letter: "A", Prompt: "p", Answer: "a", Cycle: "DAM", Module: "Redes", Difficulty: "easy"},
		{Letter: "B", Prompt: "p", Answer: "a", Cycle: "dam", Module: "bases", Difficulty: "hard"},
		{Letter: "C", Prompt: "p", Answer: "a", Cycle: "asir", Module: "redes", Difficulty: "easy"},
	}

	all := Filter{}.Apply(qs)
	assert.Len(t, all, 3, "empty filter matches everything")

	byCycle := Filter{Cycle: " dam "}.Apply(qs)
	require.Len(t, byCycle, 2)
	assert.Equal(t, "A", byCycle[0].Letter)

	narrow := Filter{Cycle: "DAM", Module: "redes", Difficulty: "EASY"}.Apply(qs)
	require.Len(t, narrow, 1)
	assert.Equal(t, "A", narrow[0].Letter)

	none := Filter{Difficulty: "medium"}.Apply(qs)
	assert.Empty(t, none)
}
