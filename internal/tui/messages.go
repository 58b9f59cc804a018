package tui

import "github.com/screenline-dev/screenline/internal/interview"

// TurnMsg carries the result of one Advance call back to the model.
type TurnMsg struct {
	SessionID string
	Turn      interview.Turn
}

// chatLine is one rendered entry of the transcript.
type chatLine struct {
	Role interview.Role
	Text string
}
