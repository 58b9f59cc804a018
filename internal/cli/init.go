// init.go implements the "screenline init" command with optional --guided flag.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/screenline-dev/screenline/internal/config"
	"github.com/screenline-dev/screenline/internal/interview"
	"github.com/screenline-dev/screenline/internal/llm"
	"github.com/screenline-dev/screenline/internal/log"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize screenline in the current project",
	Long: `Create the .screenline/ directory with a default config.yaml and add
the record store, event log and transcripts to .gitignore.`,
	RunE: runInit,
}

var guidedFlag bool

func init() {
	initCmd.Flags().BoolVar(&guidedFlag, "guided", false, "Interactive prompts for configuration overrides")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	stateDir := filepath.Join(dir, log.DirName)
	if info, statErr := os.Stat(stateDir); statErr == nil && info.IsDir() {
		fmt.Fprintf(out, "Warning: %s/ directory already exists.\n", log.DirName)
		fmt.Fprint(out, "Reinitialize? [y/N]: ")
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Join(stateDir, "transcripts"), 0700); err != nil {
		return fmt.Errorf("creating %s: %w", log.DirName, err)
	}

	if err := ensureGitignore(dir); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to set up .gitignore: %v\n", err)
	}

	cfg := config.DefaultConfig()
	if guidedFlag {
		guidedOverrides(reader, out, cfg)
	}

	if err := config.WriteConfig(dir, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Screenline initialized")
	fmt.Fprintf(out, "  Company:     %s\n", cfg.Interview.Company)
	fmt.Fprintf(out, "  Interviewer: %s\n", cfg.Interview.Interviewer)
	fmt.Fprintf(out, "  Provider:    %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "  Fields:      %s\n", fieldKeys(cfg.Interview.RequiredFields))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration written to %s/config.yaml\n", log.DirName)
	fmt.Fprintln(out, "Put your API key in .env, then run: screenline interview")

	return nil
}

// guidedOverrides prompts for the settings most operators change.
func guidedOverrides(reader *bufio.Reader, out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "--- Guided Configuration ---")

	cfg.Interview.Company = ask(reader, out, "Company name", cfg.Interview.Company)
	cfg.Interview.Interviewer = ask(reader, out, "Interviewer name", cfg.Interview.Interviewer)
	cfg.Interview.PrivacyContact = ask(reader, out, "Privacy contact for consent withdrawal", cfg.Interview.PrivacyContact)

	providers := strings.Join([]string{llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderDeepSeek, llm.ProviderClaudeCLI}, "/")
	for {
		p := strings.ToLower(ask(reader, out, "LLM provider ("+providers+")", cfg.LLM.Provider))
		check := cfg.LLM
		check.Provider = p
		if check.Validate() == nil {
			if p != cfg.LLM.Provider {
				cfg.LLM.Model = ""
			}
			cfg.LLM.Provider = p
			break
		}
		fmt.Fprintf(out, "Unknown provider %q.\n", p)
	}

	for _, spec := range interview.OptionalFields() {
		answer := ask(reader, out, fmt.Sprintf("Also ask for %s? [y/N]", spec.Label), "n")
		if a := strings.ToLower(answer); a == "y" || a == "yes" {
			cfg.Interview.RequiredFields = insertBeforeTechStack(cfg.Interview.RequiredFields, spec)
		}
	}

	fmt.Fprintln(out, "--- End Guided Configuration ---")
	fmt.Fprintln(out)
}

// ask prints a prompt with a default and returns the trimmed answer, or
// the default when the answer is blank or input ended.
func ask(reader *bufio.Reader, out io.Writer, label, def string) string {
	fmt.Fprintf(out, "%s [%s]: ", label, def)
	line, _ := reader.ReadString('\n')
	if line = strings.TrimSpace(line); line == "" {
		return def
	}
	return line
}

// insertBeforeTechStack keeps the tech stack last so questions are
// generated right after it is collected.
func insertBeforeTechStack(fields []interview.FieldSpec, spec interview.FieldSpec) []interview.FieldSpec {
	for i, f := range fields {
		if f.Kind == interview.KindTechStack {
			out := append([]interview.FieldSpec(nil), fields[:i]...)
			out = append(out, spec)
			return append(out, fields[i:]...)
		}
	}
	return append(fields, spec)
}

func fieldKeys(fields []interview.FieldSpec) string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return strings.Join(keys, ", ")
}

// ensureGitignore creates or appends to .gitignore with entries that must
// never be committed. Only entries not already present are added.
func ensureGitignore(dir string) error {
	gitignorePath := filepath.Join(dir, ".gitignore")

	requiredEntries := []string{
		// Secrets
		".env",
		".env.*",
		// OS files
		".DS_Store",
		"Thumbs.db",
		// Candidate data and runtime (config.yaml IS committed)
		log.DirName + "/candidates.db",
		log.DirName + "/events.jsonl",
		log.DirName + "/screenline.log",
		log.DirName + "/transcripts/",
	}

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}

	var missing []string
	for _, entry := range requiredEntries {
		if !strings.Contains(existing, entry) {
			missing = append(missing, entry)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	var toAppend strings.Builder
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		toAppend.WriteString("\n")
	}
	if existing != "" {
		toAppend.WriteString("\n# Added by screenline init\n")
	}
	for _, entry := range missing {
		toAppend.WriteString(entry + "\n")
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening .gitignore: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(toAppend.String()); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	return nil
}
