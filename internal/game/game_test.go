// internal/game/game_test.go
package game

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roscointegra/internal/models"
	"roscointegra/internal/timer"
)

// mockNotifier collects events instead of rendering them.
type mockNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (m *mockNotifier) notify(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

func (m *mockNotifier) byType(t EventType) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, ev := range m.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestSession builds a session with a fast clock and the scenario
// scoring: 10 points per correct, 5 penalty per wrong, 60s total.
func newTestSession(t *testing.T) (*Session, *mockNotifier) {
	t.Helper()
	clock := timer.New()
	clock.TickInterval = 10 * time.Millisecond
	s := NewSession(clock, testLogger())
	s.PointsPerCorrect = 10
	s.PenaltyPerWrong = 5
	s.TotalSeconds = 60
	mn := &mockNotifier{}
	s.NotifyFn = mn.notify
	t.Cleanup(clock.Stop)
	return s, mn
}

// buildTestSet creates a shuffle-off wheel with one question per letter.
func buildTestSet(letters ...string) *GameSet {
	qs := make([]models.Question, 0, len(letters))
	for _, l := range letters {
		qs = append(qs, models.Question{
			Letter: l,
			Type:   models.QuestionStartsWith,
			Prompt: "prompt " + l,
			Answer: "answer " + l,
		})
	}
	return BuildGameSet(letters, qs, false, nil)
}

func TestStartRequiresPendingLetter(t *testing.T) {
	s, _ := newTestSession(t)

	err := s.Start(nil)
	assert.ErrorIs(t, err, ErrNoPlayableLetters)

	// All letters disabled: order declares B but no question exists for it.
	set := BuildGameSet([]string{"B"}, nil, false, nil)
	err = s.Start(set)
	assert.ErrorIs(t, err, ErrNoPlayableLetters)
	assert.False(t, s.Running)
	assert.Equal(t, -1, s.ActiveIndex)
}

// TestFullGameScenario walks the three-letter reference game: wrong on A
// (clamped from -5), correct on B and C, ending AllDone at 67%.
func TestFullGameScenario(t *testing.T) {
	s, mn := newTestSession(t)

	var summary *Summary
	s.OnGameEnd = func(sum *Summary) { summary = sum }

	require.NoError(t, s.Start(buildTestSet("A", "B", "C")))
	require.Equal(t, "A", s.ActiveLetter().Letter)
	assert.Equal(t, 0, s.Score)

	s.Reveal()
	s.JudgeWrong()
	assert.Equal(t, 0, s.Score, "penalty on zero score clamps at zero")
	assert.Equal(t, "B", s.ActiveLetter().Letter)

	s.Reveal()
	s.JudgeCorrect()
	assert.Equal(t, 10, s.Score)
	assert.Equal(t, "C", s.ActiveLetter().Letter)

	s.Reveal()
	s.JudgeCorrect()
	assert.Equal(t, 20, s.Score)

	assert.False(t, s.Running)
	assert.Equal(t, EndAllDone, s.EndReason)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.Correct)
	assert.Equal(t, 1, summary.Wrong)
	assert.Equal(t, 0, summary.Pending)
	assert.Equal(t, 67, summary.Percent)
	assert.Equal(t, 20, summary.Score)
	assert.Equal(t, EndAllDone, summary.Reason)

	ended := mn.byType(EventSessionEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, summary, ended[0].Summary)
}

func TestJudgeRequiresReveal(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Start(buildTestSet("A", "B")))

	s.JudgeCorrect()
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, "A", s.ActiveLetter().Letter)
	assert.Equal(t, models.StatusPending, s.ActiveLetter().Status)
}

func TestJudgeIsTerminalOncePerLetter(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Start(buildTestSet("A")))

	s.Reveal()
	s.JudgeCorrect()
	assert.Equal(t, models.StatusCorrect, s.Letters[0].Status)
	assert.Equal(t, 10, s.Score)
	assert.False(t, s.Running)

	// Session ended; a spurious second judge must not change anything.
	s.JudgeCorrect()
	s.JudgeWrong()
	assert.Equal(t, models.StatusCorrect, s.Letters[0].Status)
	assert.Equal(t, 10, s.Score)
}

func TestPassKeepsLetterPending(t *testing.T) {
	s, mn := newTestSession(t)
	require.NoError(t, s.Start(buildTestSet("A", "B")))

	s.Pass()
	assert.Equal(t, models.StatusPending, s.Letters[0].Status)
	assert.Equal(t, "B", s.ActiveLetter().Letter)
	assert.Len(t, mn.byType(EventLetterPassed), 1)

	// With a single pending letter left, passing circles back to it.
	s.Reveal()
	s.JudgeCorrect()
	require.True(t, s.Running)
	require.Equal(t, "A", s.ActiveLetter().Letter)
	s.Pass()
	assert.Equal(t, "A", s.ActiveLetter().Letter)
	assert.True(t, s.Running)
}

func TestScoreNeverNegative(t *testing.T) {
	s, _ := newTestSession(t)
	s.PenaltyPerWrong = 100
	require.NoError(t, s.Start(buildTestSet("A", "B")))

	s.Reveal()
	s.JudgeWrong()
	assert.Equal(t, 0, s.Score)
}

func TestPauseResumeIdempotent(t *testing.T) {
	s, mn := newTestSession(t)
	require.NoError(t, s.Start(buildTestSet("A")))

	s.PauseClock()
	require.True(t, s.Clock.IsPaused())
	require.True(t, s.TimerPaused)

	// Second pause in a row is a no-op.
	s.PauseClock()
	assert.True(t, s.Clock.IsPaused())
	assert.Len(t, mn.byType(EventTimerPaused), 1)

	s.ResumeClock()
	require.False(t, s.Clock.IsPaused())
	s.ResumeClock()
	assert.False(t, s.Clock.IsPaused())
	assert.Len(t, mn.byType(EventTimerResumed), 1)
}

// TestExpiryInterruptsReveal covers the asynchronous time-up arriving
// while an answer is revealed but not yet judged: the session ends
// immediately, later judges are no-ops, and the letter counts as pending.
func TestExpiryInterruptsReveal(t *testing.T) {
	s, _ := newTestSession(t)

	var summary *Summary
	s.OnGameEnd = func(sum *Summary) { summary = sum }

	require.NoError(t, s.Start(buildTestSet("A", "B")))
	s.Reveal()
	require.True(t, s.AnswerRevealed)

	s.handleExpire()

	assert.False(t, s.Running)
	assert.True(t, s.BlockedByTime)
	assert.Equal(t, EndTimeUp, s.EndReason)
	assert.Equal(t, 0, s.TimeLeft)

	s.JudgeCorrect()
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, models.StatusPending, s.Letters[0].Status)

	require.NotNil(t, summary)
	assert.Equal(t, EndTimeUp, summary.Reason)
	assert.Equal(t, 2, summary.Pending)
	assert.Equal(t, 0, summary.Correct)

	// A stale second expiry must not end the session twice.
	endCount := 0
	s.OnGameEnd = func(*Summary) { endCount++ }
	s.handleExpire()
	assert.Equal(t, 0, endCount)
}

// TestAsyncExpiryEndsSessionFromClockGoroutine drives a real countdown
// to its deadline mid-reveal: the expiry arrives on the clock's loop
// goroutine, ends the session exactly once, and later actions no-op.
func TestAsyncExpiryEndsSessionFromClockGoroutine(t *testing.T) {
	s, mn := newTestSession(t)

	done := make(chan *Summary, 1)
	s.OnGameEnd = func(sum *Summary) { done <- sum }

	require.NoError(t, s.Start(buildTestSet("A", "B")))
	s.Reveal()

	// Re-arm the clock with a near-immediate deadline.
	s.Clock.Start(20*time.Millisecond, s.handleTick, s.handleExpire)

	var summary *Summary
	select {
	case summary = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expiry never reached the session")
	}
	assert.Equal(t, EndTimeUp, summary.Reason)
	assert.Equal(t, 2, summary.Pending)

	assert.False(t, s.Running)
	assert.True(t, s.BlockedByTime)
	s.JudgeCorrect()
	s.Pass()
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, models.StatusPending, s.Letters[0].Status)

	assert.Len(t, mn.byType(EventSessionEnded), 1)
}

// TestResetClockContinuesAfterTimeUp checks the recovery path: resetting
// the clock on a timed-out session resumes play on the same wheel with
// judged statuses intact.
func TestResetClockContinuesAfterTimeUp(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Start(buildTestSet("A", "B", "C")))

	s.Reveal()
	s.JudgeCorrect()
	s.handleExpire()
	require.False(t, s.Running)
	require.True(t, s.BlockedByTime)

	s.ResetClock()

	assert.True(t, s.Running)
	assert.False(t, s.BlockedByTime)
	assert.Equal(t, s.TotalSeconds, s.TimeLeft)
	assert.Equal(t, models.StatusCorrect, s.Letters[0].Status, "judged letters keep their status")
	assert.Equal(t, "B", s.ActiveLetter().Letter, "first pending letter becomes active")
}

func TestResetClockWithoutWheelOnlyResetsTime(t *testing.T) {
	s, _ := newTestSession(t)

	s.ResetClock()
	assert.False(t, s.Running)
	assert.Equal(t, s.TotalSeconds, s.TimeLeft)
	assert.False(t, s.Clock.IsRunning())
}

func TestNewGameDiscardsState(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Start(buildTestSet("A", "B")))
	s.Reveal()
	s.JudgeCorrect()

	s.NewGame()

	assert.Nil(t, s.Letters)
	assert.Equal(t, -1, s.ActiveIndex)
	assert.False(t, s.Running)
	assert.Equal(t, 0, s.Score)
	assert.False(t, s.Clock.IsRunning())

	// Guarded actions on an idle session are safe no-ops.
	s.Reveal()
	s.Pass()
	s.JudgeWrong()
	assert.Equal(t, 0, s.Score)
}

// TestForwardNavigationVisitsEachPendingOnce exercises the cycle
// property: advancing forward visits every pending letter exactly once
// before returning to the starting index.
func TestForwardNavigationVisitsEachPendingOnce(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Start(buildTestSet("A", "B", "C", "D", "E")))
	s.Mu.Lock()
	defer s.Mu.Unlock()

	// Fix a static wheel: B judged, D judged, rest pending.
	s.Letters[1].Status = models.StatusCorrect
	s.Letters[3].Status = models.StatusWrong

	start := 0
	visited := []int{}
	idx := start
	for {
		idx = s.findNextPendingLocked(idx)
		require.NotEqual(t, -1, idx)
		if idx == start {
			break
		}
		visited = append(visited, idx)
	}
	assert.Equal(t, []int{2, 4}, visited)
}

func TestBackwardNavigationMirrorsForward(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Start(buildTestSet("A", "B", "C")))
	s.Mu.Lock()
	forward := s.findNextPendingLocked(0)
	back := s.findPreviousPendingLocked(forward)
	s.Mu.Unlock()
	assert.Equal(t, 1, forward)
	assert.Equal(t, 0, back)
}

func TestNavigationReturnsSentinelWhenNothingPending(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Start(buildTestSet("A")))
	s.Mu.Lock()
	s.Letters[0].Status = models.StatusCorrect
	assert.Equal(t, -1, s.findNextPendingLocked(0))
	assert.Equal(t, -1, s.findPreviousPendingLocked(0))
	s.Mu.Unlock()
}

func TestPreviousMovesToEarlierPendingLetter(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Start(buildTestSet("A", "B", "C")))

	s.Pass()
	require.Equal(t, "B", s.ActiveLetter().Letter)
	s.Previous()
	assert.Equal(t, "A", s.ActiveLetter().Letter)
	assert.False(t, s.AnswerRevealed, "entering a letter clears the reveal flag")
}
