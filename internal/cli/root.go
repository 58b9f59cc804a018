// Package cli defines Cobra command definitions for the screenline CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/screenline-dev/screenline/internal/tui"
)

var (
	projectDir string
	noStore    bool
	version    = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "screenline",
	Short: "Conversational candidate screening assistant",
	Long: `Screenline runs a short hiring-assistant conversation: it asks for
consent, collects the candidate's contact details and tech stack, asks
generated technical questions, and saves the record only with consent.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand: chat UI on a terminal, help otherwise.
		if !tui.IsTTY() {
			return cmd.Help()
		}

		app, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer app.Close()

		title := fmt.Sprintf("%s · %s", app.cfg.Interview.Company, app.cfg.Interview.Interviewer)
		return tui.Run(tui.NewModel(app.machine, title))
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "dir", "", "Project directory holding .screenline/ (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "Keep records in memory only; nothing is written to disk")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(candidatesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(cleanCmd)
}
