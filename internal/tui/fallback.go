package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/screenline-dev/screenline/internal/interview"
)

// exitWords end a line-based interview early.
var exitWords = map[string]bool{"exit": true, "quit": true, "bye": true}

// RunLines hosts one interview over plain line-based I/O, for pipes and
// terminals without TUI support. It returns when the session reaches a
// terminal stage, the candidate types an exit word, or in reaches EOF.
func RunLines(ctx context.Context, m *interview.Machine, in io.Reader, out io.Writer) (*interview.Session, error) {
	s := m.NewSession()
	if _, err := fmt.Fprintf(out, "%s\n\n> ", m.Start(s)); err != nil {
		return s, err
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		line := scanner.Text()
		if exitWords[strings.ToLower(strings.TrimSpace(line))] {
			_, err := fmt.Fprintln(out, "\nGoodbye. Nothing further will be recorded for this session.")
			return s, err
		}

		turn := m.Advance(ctx, s, line)
		if _, err := fmt.Fprintf(out, "\n%s\n", turn.Reply); err != nil {
			return s, err
		}
		if turn.Err != nil || turn.Stage.Terminal() {
			return s, nil
		}
		if _, err := fmt.Fprint(out, "\n> "); err != nil {
			return s, err
		}
	}
	if err := scanner.Err(); err != nil {
		return s, fmt.Errorf("reading input: %w", err)
	}
	return s, nil
}
