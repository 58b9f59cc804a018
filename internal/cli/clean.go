// clean.go implements the "screenline clean" command for record retention.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/screenline-dev/screenline/internal/cleanup"
	"github.com/screenline-dev/screenline/internal/log"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Apply the record retention policy",
	Long: `Anonymize candidate records older than store.retention_days
(default 365). Names, emails, phone numbers and tech stacks are replaced;
answers are kept.

Use --keep to delete all but the N most recent records instead.
Use --dry-run to preview what would change.`,
	RunE: runClean,
}

var (
	keepFlag   int
	dryRunFlag bool
)

func init() {
	cleanCmd.Flags().IntVar(&keepFlag, "keep", 0, "Delete all but the last N records (0 = use age-based anonymization)")
	cleanCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Preview what would change without modifying records")
}

func runClean(cmd *cobra.Command, args []string) error {
	dir, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(dir, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var pruned []string
	verb := "Anonymized"
	if keepFlag > 0 {
		pruned, err = cleanup.PruneKeepRecent(cmd.Context(), st, keepFlag, dryRunFlag)
		verb = "Deleted"
	} else {
		pruned, err = cleanup.PruneByAge(cmd.Context(), st, cfg.Store.RetentionDays, dryRunFlag)
	}
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(pruned) == 0 {
		fmt.Fprintln(out, "No records to clean up.")
		return nil
	}

	if dryRunFlag {
		verb = "Would " + strings.ToLower(strings.TrimSuffix(verb, "d"))
	}
	for _, id := range pruned {
		fmt.Fprintf(out, "  %s %s\n", verb, id)
	}
	fmt.Fprintf(out, "%s %d record(s).\n", verb, len(pruned))

	if !dryRunFlag && keepFlag == 0 {
		events, err := log.NewLogger(dir)
		if err == nil {
			err = events.Append(log.LogEvent{Event: log.EventRecordsAnonymized, Count: len(pruned)})
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to log cleanup: %v\n", err)
		}
	}

	return nil
}
