// internal/bank/bank.go
package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"roscointegra/internal/models"
)

// DefaultLetterOrder is the fixed wheel alphabet. K, W, X, Y and Z are
// excluded by design; banks may only narrow this set, never extend it.
var DefaultLetterOrder = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "L",
	"M", "N", "O", "P", "Q", "R", "S", "T", "U", "V",
}

// RawBank is the parsed, unvalidated bank file.
type RawBank struct {
	LetterOrder []string      `json:"letterOrder,omitempty"`
	Questions   []RawQuestion `json:"questions"`
}

// RawQuestion is one unvalidated bank record.
type RawQuestion struct {
	ID         string   `json:"id,omitempty"`
	Letter     string   `json:"letter"`
	Type       string   `json:"type"`
	Prompt     string   `json:"prompt"`
	Answer     string   `json:"answer"`
	Cycle      string   `json:"cycle,omitempty"`
	Module     string   `json:"module,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Audio      []string `json:"audio,omitempty"`
}

// Bank is a validated, normalized question bank. Read-only once built and
// shared across sessions.
type Bank struct {
	LetterOrder []string
	Questions   []models.Question
}

// Summary reports what validation kept, dropped and deduplicated.
type Summary struct {
	Total          int      `json:"total"`
	DuplicateCount int      `json:"duplicateCount"`
	MissingLetters []string `json:"missingLetters"`
	LetterOrder    []string `json:"letterOrder"`
	UsedFallback   bool     `json:"usedFallback"`
	Logs           []string `json:"logs"`
}

// ValidationError describes a malformed bank. Index is the offending
// question record, or -1 when the bank structure itself is invalid.
type ValidationError struct {
	Index int
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid bank: %s", e.Msg)
	}
	return fmt.Sprintf("invalid bank: questions[%d] %s", e.Index, e.Msg)
}

// Load reads and parses a bank file. Parsing errors are returned as-is;
// validation is a separate step.
func Load(path string) (*RawBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}
	var raw RawBank
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse bank file %s: %w", path, err)
	}
	return &raw, nil
}

// uniqueUpper trims, uppercases and deduplicates letter codes, preserving
// first-seen order.
func uniqueUpper(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		clean := strings.ToUpper(strings.TrimSpace(v))
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}

func filterKnownLetters(values []string) []string {
	known := make(map[string]struct{}, len(DefaultLetterOrder))
	for _, l := range DefaultLetterOrder {
		known[l] = struct{}{}
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := known[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// resolveLetterOrder picks either the bank-declared letter order or the
// full default alphabet as a compatibility fallback.
func resolveLetterOrder(raw *RawBank) (order []string, logs []string, usedFallback bool) {
	if len(raw.LetterOrder) > 0 {
		normalized := filterKnownLetters(uniqueUpper(raw.LetterOrder))
		if len(normalized) > 0 {
			logs = append(logs, "using bank-declared letter order")
			return normalized, logs, false
		}
		logs = append(logs, "declared letter order has no valid letters, falling back to default alphabet")
	} else {
		logs = append(logs, "bank declares no letter order, falling back to default alphabet")
	}

	fromQuestions := make(map[string]struct{})
	for _, q := range raw.Questions {
		letter := strings.ToUpper(strings.TrimSpace(q.Letter))
		if letter != "" {
			fromQuestions[letter] = struct{}{}
		}
	}
	var missing []string
	for _, l := range DefaultLetterOrder {
		if _, ok := fromQuestions[l]; !ok {
			missing = append(missing, l)
		}
	}
	if len(missing) > 0 {
		logs = append(logs, "letters without questions under fallback order: "+strings.Join(missing, ", "))
	}

	order = make([]string, len(DefaultLetterOrder))
	copy(order, DefaultLetterOrder)
	return order, logs, true
}

// Validate checks a raw bank and produces the normalized Bank plus a
// Summary of what was kept. Pure: neither input nor any prior state is
// mutated, and a returned error leaves nothing applied.
func Validate(raw *RawBank) (*Bank, *Summary, error) {
	if raw == nil || raw.Questions == nil {
		return nil, nil, &ValidationError{Index: -1, Msg: "bank must include questions[]"}
	}

	order, logs, usedFallback := resolveLetterOrder(raw)

	inOrder := make(map[string]struct{}, len(order))
	for _, l := range order {
		inOrder[l] = struct{}{}
	}
	inAlphabet := make(map[string]struct{}, len(DefaultLetterOrder))
	for _, l := range DefaultLetterOrder {
		inAlphabet[l] = struct{}{}
	}

	questions := make([]models.Question, 0, len(raw.Questions))
	seenKeys := make(map[string]struct{})
	duplicateKeys := make(map[string]struct{})
	seenLetters := make(map[string]struct{})

	for i, item := range raw.Questions {
		letter := strings.ToUpper(strings.TrimSpace(item.Letter))
		qtype := strings.TrimSpace(item.Type)
		prompt := strings.TrimSpace(item.Prompt)
		answer := strings.TrimSpace(item.Answer)

		if _, ok := inAlphabet[letter]; !ok {
			if letter == "" {
				letter = "(empty)"
			}
			return nil, nil, &ValidationError{Index: i, Msg: "has invalid letter " + letter}
		}
		if qtype == "" || prompt == "" || answer == "" {
			return nil, nil, &ValidationError{Index: i, Msg: "requires letter, type, prompt and answer"}
		}

		// Letters inside the alphabet but outside the resolved order are
		// dropped, not rejected.
		if _, ok := inOrder[letter]; !ok {
			logs = append(logs, fmt.Sprintf("letter %s has questions but is not in the letter order, ignoring", letter))
			continue
		}

		q := models.Question{
			ID:         strings.TrimSpace(item.ID),
			Letter:     letter,
			Type:       models.QuestionType(qtype),
			Prompt:     prompt,
			Answer:     answer,
			Cycle:      strings.TrimSpace(item.Cycle),
			Module:     strings.TrimSpace(item.Module),
			Difficulty: strings.TrimSpace(item.Difficulty),
			AudioRefs:  item.Audio,
		}

		key := q.DedupKey()
		if _, ok := seenKeys[key]; ok {
			duplicateKeys[key] = struct{}{}
		}
		seenKeys[key] = struct{}{}
		seenLetters[letter] = struct{}{}
		questions = append(questions, q)
	}

	var missingLetters []string
	for _, l := range order {
		if _, ok := seenLetters[l]; !ok {
			missingLetters = append(missingLetters, l)
		}
	}

	b := &Bank{LetterOrder: order, Questions: questions}
	s := &Summary{
		Total:          len(questions),
		DuplicateCount: len(duplicateKeys),
		MissingLetters: missingLetters,
		LetterOrder:    order,
		UsedFallback:   usedFallback,
		Logs:           logs,
	}
	return b, s, nil
}
