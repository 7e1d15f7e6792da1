// cmd/rosco/render.go
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"roscointegra/internal/game"
	"roscointegra/internal/models"
)

// renderer prints the wheel and session activity to the terminal. It
// observes the session through its event stream and never mutates it.
type renderer struct {
	session *game.Session

	pending  *color.Color
	correct  *color.Color
	wrong    *color.Color
	disabled *color.Color
	accent   *color.Color
}

func newRenderer(session *game.Session) *renderer {
	return &renderer{
		session:  session,
		pending:  color.New(color.FgCyan),
		correct:  color.New(color.FgGreen),
		wrong:    color.New(color.FgRed),
		disabled: color.New(color.Faint),
		accent:   color.New(color.FgYellow, color.Bold),
	}
}

func (r *renderer) handle(ev game.Event) {
	switch ev.Type {
	case game.EventTurnStarted:
		r.printWheel()
		r.accent.Printf("[%s] ", ev.Letter.Letter)
		fmt.Printf("%s  (time %s, score %d)\n", ev.Letter.Question.Prompt, game.FormatMMSS(ev.SecondsLeft), ev.Score)
	case game.EventAnswerRevealed:
		r.accent.Printf("answer: %s\n", ev.Letter.Question.Answer)
	case game.EventLetterJudged:
		if ev.Letter.Status == models.StatusCorrect {
			r.correct.Printf("%s correct, score %d\n", ev.Letter.Letter, ev.Score)
		} else {
			r.wrong.Printf("%s wrong, score %d\n", ev.Letter.Letter, ev.Score)
		}
	case game.EventLetterPassed:
		r.disabled.Printf("%s passed\n", ev.Letter.Letter)
	case game.EventTimerPaused:
		fmt.Printf("clock paused at %s\n", game.FormatMMSS(ev.SecondsLeft))
	case game.EventTimerResumed:
		fmt.Printf("clock resumed at %s\n", game.FormatMMSS(ev.SecondsLeft))
	case game.EventTimerTick:
		if ev.SecondsLeft > 0 && ev.SecondsLeft <= 10 {
			r.wrong.Printf("%d...\n", ev.SecondsLeft)
		}
	case game.EventSessionEnded:
		if ev.Reason == game.EndTimeUp {
			r.wrong.Println("time is up!")
		} else {
			r.correct.Println("wheel complete!")
		}
	}
}

// printWheel renders the letter ring on one line, bracketing the active
// letter.
func (r *renderer) printWheel() {
	r.session.Mu.Lock()
	letters := make([]models.Letter, len(r.session.Letters))
	for i, l := range r.session.Letters {
		letters[i] = *l
	}
	active := r.session.ActiveIndex
	r.session.Mu.Unlock()

	var sb strings.Builder
	for i, l := range letters {
		c := r.disabled
		switch l.Status {
		case models.StatusPending:
			c = r.pending
		case models.StatusCorrect:
			c = r.correct
		case models.StatusWrong:
			c = r.wrong
		}
		if i == active {
			sb.WriteString(c.Sprintf("[%s]", l.Letter))
		} else {
			sb.WriteString(c.Sprintf(" %s ", l.Letter))
		}
	}
	fmt.Println(sb.String())
}

func (r *renderer) printSummary(sum *game.Summary) {
	bold := color.New(color.Bold)
	bold.Println("game summary")
	reason := "all letters answered"
	if sum.Reason == game.EndTimeUp {
		reason = "time ran out"
	}
	fmt.Printf("  reason:   %s\n", reason)
	if sum.PlayerName != "" {
		fmt.Printf("  player:   %s\n", sum.PlayerName)
	}
	fmt.Printf("  score:    %d (%d%%)\n", sum.Score, sum.Percent)
	fmt.Printf("  correct:  %d  wrong: %d  passed: %d\n", sum.Correct, sum.Wrong, sum.Pending)
	fmt.Printf("  time:     %s used, %s left\n", sum.TimeUsed, sum.TimeLeft)
}
