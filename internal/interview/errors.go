package interview

import "fmt"

// ValidationError reports a malformed candidate-supplied field. It is
// recovered by re-asking and never ends the conversation.
type ValidationError struct {
	Field   string
	Message string // candidate-facing correction
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ProtocolError reports a broken session invariant. The machine fails
// closed on it: a fixed safe reply and no further mutation.
type ProtocolError struct {
	SessionID string
	Stage     Stage
	Reason    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation in session %s at %s: %s", e.SessionID, e.Stage, e.Reason)
}
