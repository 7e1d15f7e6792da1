// internal/game/game.go
package game

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"roscointegra/internal/models"
	"roscointegra/internal/timer"
)

// OnGameEndFunc handles a finished session: persisting the score,
// rendering the summary, etc. Invoked exactly once per session end.
type OnGameEndFunc func(summary *Summary)

// Session holds the entire state for one letter-wheel game in memory.
//
// All state-mutating entry points are serialized behind Mu; the countdown
// clock is the only asynchronous caller and re-enters through the same
// lock. Clock callbacks are only ever invoked with no session lock held.
type Session struct {
	ID uuid.UUID

	// Wheel state. Owned exclusively by the session for its lifetime.
	Letters          []*models.Letter
	SelectedByLetter map[string]*models.Question
	PoolByLetter     map[string][]*models.Question

	// Turn state. ActiveIndex is -1 when no turn is active; while Running
	// it always points at a Pending entry.
	ActiveIndex    int
	AnswerRevealed bool
	Running        bool
	BlockedByTime  bool
	TimerPaused    bool
	EndReason      EndReason

	Score            int
	TimeLeft         int // remaining whole seconds, mirrored from the clock
	PlayerName       string
	PointsPerCorrect int
	PenaltyPerWrong  int
	TotalSeconds     int

	Clock *timer.Countdown

	// NotifyFn broadcasts events to observers. If nil, no broadcast is done.
	NotifyFn NotifyFunc

	// OnGameEnd is invoked at session end with the built summary.
	OnGameEnd OnGameEndFunc

	// Narrator reads prompts and answers aloud, fire-and-forget.
	Narrator Narrator

	Logger *logrus.Logger

	Mu sync.Mutex
}

// NewSession builds an idle session around the given clock. The caller
// sets PlayerName, scoring and duration fields before Start.
func NewSession(clock *timer.Countdown, logger *logrus.Logger) *Session {
	if logger == nil {
		logger = logrus.New()
	}
	return &Session{
		ID:               uuid.New(),
		ActiveIndex:      -1,
		PointsPerCorrect: 10,
		TotalSeconds:     180,
		Clock:            clock,
		Logger:           logger,
	}
}

// Start installs a built game set and enters Running: score zeroed, first
// pending letter active, countdown armed for the configured duration.
// Fails with ErrNoPlayableLetters when the set has no pending entry; the
// session state is untouched then.
func (s *Session) Start(set *GameSet) error {
	s.Mu.Lock()
	if set == nil || len(set.Letters) == 0 {
		s.Mu.Unlock()
		return ErrNoPlayableLetters
	}
	first := -1
	for i, l := range set.Letters {
		if l.Status == models.StatusPending {
			first = i
			break
		}
	}
	if first == -1 {
		s.Mu.Unlock()
		return ErrNoPlayableLetters
	}

	s.Letters = set.Letters
	s.SelectedByLetter = set.SelectedByLetter
	s.PoolByLetter = set.PoolByLetter
	s.Score = 0
	s.TimeLeft = s.TotalSeconds
	s.Running = true
	s.BlockedByTime = false
	s.TimerPaused = false
	s.AnswerRevealed = false
	s.EndReason = ""
	s.ActiveIndex = first
	active := s.Letters[first]
	total := time.Duration(s.TotalSeconds) * time.Second
	s.Mu.Unlock()

	s.Logger.WithFields(logrus.Fields{
		"session": s.ID,
		"letters": len(set.Letters),
		"player":  s.PlayerName,
	}).Info("session started")

	s.notifyTurn(active, first)
	s.narrate(active.Question.Prompt)
	s.Clock.Start(total, s.handleTick, s.handleExpire)
	return nil
}

// Reveal marks the active letter's answer as shown. Guarded no-op unless
// running, not blocked by time, and the active entry is pending with a
// question assigned.
func (s *Session) Reveal() {
	s.Mu.Lock()
	active := s.activeLetterLocked()
	if !s.Running || s.BlockedByTime || active == nil ||
		active.Status != models.StatusPending || active.Question == nil {
		s.Mu.Unlock()
		return
	}
	s.AnswerRevealed = true
	idx := s.ActiveIndex
	score := s.Score
	seconds := s.TimeLeft
	s.Mu.Unlock()

	s.notify(Event{Type: EventAnswerRevealed, Letter: active, Index: idx, Score: score, SecondsLeft: seconds})
	s.narrate(active.Question.Answer)
}

// Pass skips the active letter, leaving it pending for a later visit, and
// advances to the next pending letter. Guarded no-op otherwise.
func (s *Session) Pass() {
	s.mutateActive(models.StatusPending, EventLetterPassed)
}

// JudgeCorrect marks the active letter correct and awards points.
// Requires a revealed answer; guarded no-op otherwise.
func (s *Session) JudgeCorrect() {
	s.mutateActive(models.StatusCorrect, EventLetterJudged)
}

// JudgeWrong marks the active letter wrong and applies the penalty,
// clamping the score at zero. Requires a revealed answer; guarded no-op
// otherwise.
func (s *Session) JudgeWrong() {
	s.mutateActive(models.StatusWrong, EventLetterJudged)
}

// mutateActive applies a judge or pass to the active letter and advances
// the turn, ending the session when no pending letter remains.
func (s *Session) mutateActive(target models.LetterStatus, evType EventType) {
	s.Mu.Lock()
	active := s.activeLetterLocked()
	if !s.Running || s.BlockedByTime || active == nil || active.Status != models.StatusPending {
		s.Mu.Unlock()
		return
	}
	if target != models.StatusPending && !s.AnswerRevealed {
		s.Mu.Unlock()
		return
	}

	switch target {
	case models.StatusCorrect:
		active.Status = models.StatusCorrect
		s.Score += s.PointsPerCorrect
	case models.StatusWrong:
		active.Status = models.StatusWrong
		if s.PenaltyPerWrong > 0 {
			s.Score -= s.PenaltyPerWrong
			if s.Score < 0 {
				s.Score = 0
			}
		}
	}

	idx := s.ActiveIndex
	score := s.Score
	seconds := s.TimeLeft

	next := s.findNextPendingLocked(s.ActiveIndex)
	var summary *Summary
	var nextLetter *models.Letter
	if next == -1 {
		summary = s.endLocked(EndAllDone)
	} else {
		nextLetter = s.enterLetterLocked(next)
	}
	s.Mu.Unlock()

	s.notify(Event{Type: evType, Letter: active, Index: idx, Score: score, SecondsLeft: seconds})
	if summary != nil {
		s.finishEnd(summary)
		return
	}
	s.notifyTurn(nextLetter, next)
	s.narrate(nextLetter.Question.Prompt)
}

// Previous moves the active turn backwards to the closest pending letter.
// Guarded no-op when none exists or the session is not playable.
func (s *Session) Previous() {
	s.Mu.Lock()
	if !s.Running || s.BlockedByTime {
		s.Mu.Unlock()
		return
	}
	prev := s.findPreviousPendingLocked(s.ActiveIndex)
	if prev == -1 {
		s.Mu.Unlock()
		return
	}
	letter := s.enterLetterLocked(prev)
	idx := prev
	s.Mu.Unlock()

	s.notifyTurn(letter, idx)
	s.narrate(letter.Question.Prompt)
}

// PauseClock freezes the countdown. Guarded no-op unless actively
// playing with a running, unpaused clock; idempotent against repeats.
func (s *Session) PauseClock() {
	s.Mu.Lock()
	if !s.Running || s.BlockedByTime || s.TimerPaused || !s.Clock.IsRunning() {
		s.Mu.Unlock()
		return
	}
	s.TimerPaused = true
	score := s.Score
	seconds := s.TimeLeft
	s.Mu.Unlock()

	s.Clock.Pause()
	s.notify(Event{Type: EventTimerPaused, Index: -1, Score: score, SecondsLeft: seconds})
}

// ResumeClock unfreezes the countdown. Guarded no-op unless paused.
func (s *Session) ResumeClock() {
	s.Mu.Lock()
	if !s.Running || s.BlockedByTime || !s.TimerPaused || !s.Clock.IsRunning() {
		s.Mu.Unlock()
		return
	}
	s.TimerPaused = false
	score := s.Score
	seconds := s.TimeLeft
	s.Mu.Unlock()

	s.Clock.Resume()
	s.notify(Event{Type: EventTimerResumed, Index: -1, Score: score, SecondsLeft: seconds})
}

// ResetClock re-arms the countdown to the configured duration. On a
// session that has letters but is no longer running (a time-up), this
// restarts play on the existing wheel: judged letters keep their status
// and only pending letters remain playable. With no wheel at all it just
// resets the displayed remaining time.
func (s *Session) ResetClock() {
	total := time.Duration(s.TotalSeconds) * time.Second

	s.Mu.Lock()
	if len(s.Letters) > 0 {
		s.BlockedByTime = false
		s.TimerPaused = false
		var revived *models.Letter
		revivedIdx := -1
		if !s.Running {
			for i, l := range s.Letters {
				if l.Status == models.StatusPending {
					s.Running = true
					s.EndReason = ""
					revived = s.enterLetterLocked(i)
					revivedIdx = i
					break
				}
			}
		}
		s.TimeLeft = s.TotalSeconds
		s.Mu.Unlock()

		if revived != nil {
			s.Logger.WithField("session", s.ID).Info("clock reset, resuming play on existing wheel")
			s.notifyTurn(revived, revivedIdx)
			s.narrate(revived.Question.Prompt)
		}
		s.Clock.Start(total, s.handleTick, s.handleExpire)
		return
	}
	s.TimeLeft = s.TotalSeconds
	s.Mu.Unlock()

	s.Clock.Stop()
	s.Clock.Reset(total)
}

// NewGame discards all wheel state and returns the session to idle.
// Always permitted; Start must be invoked again with a fresh game set.
func (s *Session) NewGame() {
	s.Mu.Lock()
	s.Letters = nil
	s.SelectedByLetter = nil
	s.PoolByLetter = nil
	s.ActiveIndex = -1
	s.Running = false
	s.BlockedByTime = false
	s.TimerPaused = false
	s.AnswerRevealed = false
	s.Score = 0
	s.TimeLeft = s.TotalSeconds
	s.EndReason = ""
	s.Mu.Unlock()

	s.Clock.Stop()
	if s.Narrator != nil {
		s.Narrator.Stop()
	}
}

// ActiveLetter returns the current turn's entry, or nil when no turn is
// active.
func (s *Session) ActiveLetter() *models.Letter {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.activeLetterLocked()
}

func (s *Session) activeLetterLocked() *models.Letter {
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Letters) {
		return nil
	}
	return s.Letters[s.ActiveIndex]
}

// enterLetterLocked makes index the active turn and clears the reveal
// flag. Assumes lock is held. Returns the entered letter.
func (s *Session) enterLetterLocked(index int) *models.Letter {
	s.ActiveIndex = index
	s.AnswerRevealed = false
	return s.Letters[index]
}

// findNextPendingLocked scans circularly forward from fromIndex for the
// next pending letter, visiting each index at most once. Returns -1 when
// none remains. Assumes lock is held.
func (s *Session) findNextPendingLocked(fromIndex int) int {
	n := len(s.Letters)
	if n == 0 {
		return -1
	}
	for offset := 1; offset <= n; offset++ {
		idx := ((fromIndex+offset)%n + n) % n
		if s.Letters[idx].Status == models.StatusPending {
			return idx
		}
	}
	return -1
}

// findPreviousPendingLocked is the backward counterpart of
// findNextPendingLocked. Assumes lock is held.
func (s *Session) findPreviousPendingLocked(fromIndex int) int {
	n := len(s.Letters)
	if n == 0 {
		return -1
	}
	for offset := 1; offset <= n; offset++ {
		idx := ((fromIndex-offset)%n + n) % n
		if s.Letters[idx].Status == models.StatusPending {
			return idx
		}
	}
	return -1
}

// endLocked performs the shared shutdown into an ended state and builds
// the immutable summary. Assumes lock is held; the clock is stopped and
// observers notified by the caller after release.
func (s *Session) endLocked(reason EndReason) *Summary {
	s.Running = false
	s.TimerPaused = false
	s.AnswerRevealed = false
	s.EndReason = reason
	return s.buildSummaryLocked(reason)
}

// finishEnd runs the post-lock side of session shutdown: clock and
// narration stopped, end event broadcast, OnGameEnd invoked once.
func (s *Session) finishEnd(summary *Summary) {
	s.Clock.Stop()
	if s.Narrator != nil {
		s.Narrator.Stop()
	}
	s.Logger.WithFields(logrus.Fields{
		"session": s.ID,
		"reason":  summary.Reason,
		"score":   summary.Score,
	}).Info("session ended")

	s.notify(Event{Type: EventSessionEnded, Index: -1, Score: summary.Score,
		SecondsLeft: summary.SecondsLeft, Reason: summary.Reason, Summary: summary})
	if s.OnGameEnd != nil {
		s.OnGameEnd(summary)
	}
}

// handleTick mirrors the clock's remaining time into the session.
func (s *Session) handleTick(remaining time.Duration) {
	seconds := int(math.Ceil(remaining.Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	s.Mu.Lock()
	if s.TimeLeft == seconds {
		s.Mu.Unlock()
		return
	}
	s.TimeLeft = seconds
	score := s.Score
	s.Mu.Unlock()

	s.notify(Event{Type: EventTimerTick, Index: -1, Score: score, SecondsLeft: seconds})
}

// handleExpire is the clock's terminal notification. It can interrupt
// any guarded action; once delivered, the session is permanently blocked
// by time and ends with reason TIME_UP.
func (s *Session) handleExpire() {
	s.Mu.Lock()
	if !s.Running {
		// Stale delivery after the session already ended.
		s.Mu.Unlock()
		return
	}
	s.TimeLeft = 0
	s.BlockedByTime = true
	summary := s.endLocked(EndTimeUp)
	s.Mu.Unlock()

	s.notify(Event{Type: EventTimerTick, Index: -1, Score: summary.Score, SecondsLeft: 0})
	s.finishEnd(summary)
}

func (s *Session) notify(ev Event) {
	if s.NotifyFn != nil {
		s.NotifyFn(ev)
	}
}

func (s *Session) notifyTurn(letter *models.Letter, index int) {
	s.Mu.Lock()
	score := s.Score
	seconds := s.TimeLeft
	s.Mu.Unlock()
	s.notify(Event{Type: EventTurnStarted, Letter: letter, Index: index, Score: score, SecondsLeft: seconds})
}

// narrate forwards text to the narrator, if any. Playback failures are
// the narrator's to log; they never reach the state machine.
func (s *Session) narrate(text string) {
	if s.Narrator != nil && text != "" {
		s.Narrator.Speak(text)
	}
}
