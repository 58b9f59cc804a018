// Package report builds summaries of interview activity from the event log
// and readable transcripts of stored candidate records.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/screenline-dev/screenline/internal/log"
	"github.com/screenline-dev/screenline/internal/store"
)

// Report holds aggregated statistics over the event log.
type Report struct {
	Sessions         int
	ConsentGiven     int
	Declined         int
	DefaultDeclined  int // declined after unrecognized replies
	Completed        int
	Saved            int
	SaveFailures     int
	Fallbacks        int
	Retries          int
	Rejections       map[string]int // per field key
	ProtocolFailures int
	Anonymized       int
	AvgDuration      time.Duration
	First            time.Time
	Last             time.Time
}

// GenerateReport reads the event log under projectRoot and summarizes the
// events logged at or after since. A zero since covers the whole log; a
// missing log yields an empty report.
func GenerateReport(projectRoot string, since time.Time) (*Report, error) {
	logger, err := log.NewLogger(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	events, err := logger.ReadSince(since)
	if err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}
	return Summarize(events), nil
}

// Summarize counts events by kind.
func Summarize(events []log.LogEvent) *Report {
	r := &Report{Rejections: make(map[string]int)}

	var total time.Duration
	for _, e := range events {
		if !e.Time.IsZero() {
			if r.First.IsZero() || e.Time.Before(r.First) {
				r.First = e.Time
			}
			if e.Time.After(r.Last) {
				r.Last = e.Time
			}
		}

		switch e.Event {
		case log.EventSessionStarted:
			r.Sessions++
		case log.EventConsentGiven:
			r.ConsentGiven++
		case log.EventConsentDeclined:
			r.Declined++
			if e.Reason == "unrecognized" {
				r.DefaultDeclined++
			}
		case log.EventInterviewCompleted:
			r.Completed++
			total += time.Duration(e.DurationMs) * time.Millisecond
		case log.EventRecordSaved:
			r.Saved++
		case log.EventRecordSaveFailed:
			r.SaveFailures++
		case log.EventQuestionsFallback:
			r.Fallbacks++
		case log.EventGenerationRetry:
			r.Retries++
		case log.EventFieldRejected:
			r.Rejections[e.Field]++
		case log.EventProtocolViolation:
			r.ProtocolFailures++
		case log.EventRecordsAnonymized:
			r.Anonymized += e.Count
		}
	}

	if r.Completed > 0 {
		r.AvgDuration = total / time.Duration(r.Completed)
	}
	return r
}

// ConsentRate is the share of answered consent requests that were accepted.
func (r *Report) ConsentRate() float64 {
	answered := r.ConsentGiven + r.Declined
	if answered == 0 {
		return 0
	}
	return float64(r.ConsentGiven) / float64(answered)
}

// FormatReport produces a terminal-friendly, human-readable summary string.
func FormatReport(r *Report) string {
	var b strings.Builder

	b.WriteString("========================================\n")
	b.WriteString("  Screenline Interview Report\n")
	b.WriteString("========================================\n")
	b.WriteString("\n")

	if r.Sessions == 0 {
		b.WriteString("No interview sessions recorded yet.\n")
		b.WriteString("========================================\n")
		return b.String()
	}

	if !r.First.IsZero() {
		fmt.Fprintf(&b, "Period:      %s to %s\n", r.First.Format("2006-01-02"), r.Last.Format("2006-01-02"))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Sessions:    %d started\n", r.Sessions)
	fmt.Fprintf(&b, "  Consented: %d (%.0f%%)\n", r.ConsentGiven, r.ConsentRate()*100)
	fmt.Fprintf(&b, "  Declined:  %d", r.Declined)
	if r.DefaultDeclined > 0 {
		fmt.Fprintf(&b, " (%d unrecognized)", r.DefaultDeclined)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Completed: %d\n", r.Completed)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Records:     %d saved\n", r.Saved)
	if r.SaveFailures > 0 {
		fmt.Fprintf(&b, "  Failed:    %d\n", r.SaveFailures)
	}
	if r.Anonymized > 0 {
		fmt.Fprintf(&b, "  Anonymized: %d\n", r.Anonymized)
	}
	b.WriteString("\n")

	if r.Fallbacks > 0 || r.Retries > 0 {
		fmt.Fprintf(&b, "Questions:   %d generation retries, %d static fallbacks\n", r.Retries, r.Fallbacks)
		b.WriteString("\n")
	}

	if len(r.Rejections) > 0 {
		b.WriteString("Rejected input:\n")
		keys := make([]string, 0, len(r.Rejections))
		for k := range r.Rejections {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  - %s: %d\n", k, r.Rejections[k])
		}
		b.WriteString("\n")
	}

	if r.ProtocolFailures > 0 {
		fmt.Fprintf(&b, "Errors:      %d sessions failed closed\n", r.ProtocolFailures)
	}
	if r.AvgDuration > 0 {
		fmt.Fprintf(&b, "Avg length:  %s\n", formatDuration(r.AvgDuration))
	}

	b.WriteString("========================================\n")

	return b.String()
}

// Transcript renders a stored record as markdown.
func Transcript(rec *store.CandidateRecord) string {
	var b strings.Builder

	name := rec.CandidateInfo[store.FieldName]
	if name == "" {
		name = "Candidate"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "- Record: %s\n", rec.ID)
	fmt.Fprintf(&b, "- Session: %s\n", rec.SessionID)
	fmt.Fprintf(&b, "- Interviewed: %s\n", rec.Timestamp.Format(time.RFC3339))
	if !rec.ConsentAt.IsZero() {
		fmt.Fprintf(&b, "- Consent given: %s\n", rec.ConsentAt.Format(time.RFC3339))
	}
	if rec.Anonymized {
		b.WriteString("- Anonymized: yes\n")
	}

	b.WriteString("\n## Candidate details\n\n")
	keys := make([]string, 0, len(rec.CandidateInfo))
	for k := range rec.CandidateInfo {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return fieldOrder(keys[i], keys[j]) })
	for _, k := range keys {
		fmt.Fprintf(&b, "- **%s**: %s\n", strings.ReplaceAll(k, "_", " "), rec.CandidateInfo[k])
	}

	b.WriteString("\n## Technical questions\n")
	if len(rec.Answers) == 0 {
		b.WriteString("\nNo answers recorded.\n")
	}
	for i, qa := range rec.Answers {
		fmt.Fprintf(&b, "\n### %d. %s\n\n", i+1, qa.Question)
		if qa.Tech != "" {
			fmt.Fprintf(&b, "*Topic: %s*\n\n", qa.Tech)
		}
		fmt.Fprintf(&b, "%s\n", qa.Answer)
	}

	return b.String()
}

// WriteTranscript writes the transcript to {dir}/{record id}.md and returns
// the path. Creates dir if it does not exist.
func WriteTranscript(dir string, rec *store.CandidateRecord) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating transcript directory: %w", err)
	}

	path := filepath.Join(dir, rec.ID+".md")
	if err := os.WriteFile(path, []byte(Transcript(rec)), 0600); err != nil {
		return "", fmt.Errorf("writing transcript file: %w", err)
	}

	return path, nil
}

var knownFieldRank = map[string]int{
	store.FieldName:      0,
	store.FieldEmail:     1,
	store.FieldPhone:     2,
	store.FieldTechStack: 3,
}

// fieldOrder puts the standard fields first, then the rest alphabetically.
func fieldOrder(a, b string) bool {
	ra, okA := knownFieldRank[a]
	rb, okB := knownFieldRank[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA:
		return true
	case okB:
		return false
	}
	return a < b
}

// formatDuration produces a human-readable duration string such as "5m 32s"
// or "1h 12m 5s". Sub-second durations are shown as "< 1s".
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1s"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
