// report.go implements the "screenline report" command for interview statistics.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/screenline-dev/screenline/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize interview outcomes",
	Long: `Display consent, completion and question-generation statistics
collected in .screenline/events.jsonl. The event log holds no candidate
details.`,
	RunE: runReport,
}

var sinceFlag time.Duration

func init() {
	reportCmd.Flags().DurationVar(&sinceFlag, "since", 0, "Only include events from this long ago, e.g. 168h (0 = whole log)")
}

func runReport(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	var since time.Time
	if sinceFlag > 0 {
		since = time.Now().Add(-sinceFlag)
	}

	r, err := report.GenerateReport(dir, since)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), report.FormatReport(r))
	return nil
}
