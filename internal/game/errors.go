package game

import "errors"

var (
	// ErrNoPlayableLetters is returned by Start when the built game set
	// has no pending letter. The session does not enter Running.
	ErrNoPlayableLetters = errors.New("game set has no playable letters")

	// ErrNoQuestionsAfterFilter is returned when the active filters leave
	// nothing to build a wheel from.
	ErrNoQuestionsAfterFilter = errors.New("no questions remain after filters")
)
