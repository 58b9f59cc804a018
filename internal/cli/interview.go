// interview.go implements the "screenline interview" command, a line-based
// host for pipes and plain terminals.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/screenline-dev/screenline/internal/tui"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run one interview on standard input and output",
	Long: `Run a single screening conversation line by line. Type "exit" to
leave early; nothing is saved unless the interview completes with consent.`,
	RunE: runInterview,
}

func runInterview(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer app.Close()

	s, err := tui.RunLines(cmd.Context(), app.machine, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	app.logger.Debug("interview ended", "session", s.ID, "stage", s.Stage)
	return nil
}
