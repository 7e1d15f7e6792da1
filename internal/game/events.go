// internal/game/events.go
package game

import "roscointegra/internal/models"

// EventType is an enum-like type for notifying observers of session
// activity. Renderers and narrators subscribe; they never mutate the
// session directly.
type EventType string

const (
	EventTurnStarted    EventType = "turn_started"    // a letter became the active turn
	EventAnswerRevealed EventType = "answer_revealed" // the active letter's answer was shown
	EventLetterJudged   EventType = "letter_judged"   // active letter marked correct or wrong
	EventLetterPassed   EventType = "letter_passed"   // active letter skipped, stays pending
	EventTimerTick      EventType = "timer_tick"      // remaining seconds changed
	EventTimerPaused    EventType = "timer_paused"
	EventTimerResumed   EventType = "timer_resumed"
	EventSessionEnded   EventType = "session_ended" // terminal; carries the summary
)

// EndReason is why a session ended.
type EndReason string

const (
	EndAllDone EndReason = "ALL_DONE"
	EndTimeUp  EndReason = "TIME_UP"
)

// Event holds data about one session occurrence, broadcast to observers
// in a consistent format.
type Event struct {
	Type        EventType
	Letter      *models.Letter // for turn/reveal/judge/pass events
	Index       int            // wheel index of Letter, -1 otherwise
	Score       int
	SecondsLeft int
	Reason      EndReason // set on session_ended
	Summary     *Summary  // set on session_ended
}

// NotifyFunc receives session events. If nil, no notification is done.
type NotifyFunc func(ev Event)

// Narrator reads prompts and answers aloud. Implementations must be
// fire-and-forget: Speak never blocks the caller on playback and never
// reports errors back into the session.
type Narrator interface {
	Speak(text string)
	Stop()
}
