// candidates.go implements "screenline candidates" for browsing and
// removing saved records.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/screenline-dev/screenline/internal/log"
	"github.com/screenline-dev/screenline/internal/report"
	"github.com/screenline-dev/screenline/internal/store"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List, show or delete saved candidate records",
}

var candidatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved records, newest first",
	Args:  cobra.NoArgs,
	RunE:  runCandidatesList,
}

var candidatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one record as a transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandidatesShow,
}

var candidatesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one record permanently",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandidatesDelete,
}

var (
	limitFlag int
	writeFlag bool
)

func init() {
	candidatesListCmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum number of records to list (0 = all)")
	candidatesShowCmd.Flags().BoolVar(&writeFlag, "write", false, "Also write the transcript under "+log.DirName+"/transcripts/")

	candidatesCmd.AddCommand(candidatesListCmd)
	candidatesCmd.AddCommand(candidatesShowCmd)
	candidatesCmd.AddCommand(candidatesDeleteCmd)
}

// openRecords opens the configured store without an LLM gateway.
func openRecords() (string, store.Store, error) {
	dir, cfg, err := loadConfig()
	if err != nil {
		return "", nil, err
	}
	st, err := openStore(dir, cfg)
	if err != nil {
		return "", nil, err
	}
	return dir, st, nil
}

func runCandidatesList(cmd *cobra.Command, args []string) error {
	_, st, err := openRecords()
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.List(cmd.Context(), limitFlag)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No candidate records saved.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSAVED\tNAME\tEMAIL\tTECH STACK\tANSWERS")
	for _, s := range list {
		name := s.Name
		if s.Anonymized {
			name += " (anonymized)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), name, s.Email, s.TechStack, s.Answers)
	}
	return tw.Flush()
}

func runCandidatesShow(cmd *cobra.Command, args []string) error {
	dir, st, err := openRecords()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Get(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no record with id %s", args[0])
	}
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Transcript(rec))

	if writeFlag {
		path, err := report.WriteTranscript(filepath.Join(dir, log.DirName, "transcripts"), rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Transcript written to %s\n", path)
	}
	return nil
}

func runCandidatesDelete(cmd *cobra.Command, args []string) error {
	_, st, err := openRecords()
	if err != nil {
		return err
	}
	defer st.Close()

	err = st.Delete(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no record with id %s", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
