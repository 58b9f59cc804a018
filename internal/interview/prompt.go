// prompt.go renders the LLM prompts from embedded templates.
package interview

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/screenline-dev/screenline/prompts"
)

// historyLine is one rendered history entry.
type historyLine struct {
	Speaker string
	Text    string
}

// infoLine is one collected field in display form.
type infoLine struct {
	Label string
	Value string
}

// PromptBuilder renders deterministic prompts from session data. Only the
// last Window exchanges of history are embedded.
type PromptBuilder struct {
	Company     string
	Interviewer string
	Window      int

	tmpl *template.Template
}

// NewPromptBuilder parses the embedded prompt templates.
func NewPromptBuilder(company, interviewer string, window int) *PromptBuilder {
	// Templates are embedded at compile time; parse failure is a bug.
	tmpl := template.Must(template.New("info_gathering").Parse(prompts.InfoGatheringTemplate))
	template.Must(tmpl.New("question_generation").Parse(prompts.QuestionGenerationTemplate))
	template.Must(tmpl.New("question_generation_simple").Parse(prompts.SimpleQuestionGenerationTemplate))
	template.Must(tmpl.New("acknowledgment").Parse(prompts.AcknowledgmentTemplate))

	return &PromptBuilder{
		Company:     company,
		Interviewer: interviewer,
		Window:      window,
		tmpl:        tmpl,
	}
}

// InfoGathering builds the prompt that phrases an acknowledgement after the
// field labelled justFilled. Values are listed in fields order.
func (b *PromptBuilder) InfoGathering(fields []FieldExtractor, info map[string]string, justFilled string, history []Message) string {
	var lines []infoLine
	for _, f := range fields {
		if v, ok := info[f.Key()]; ok {
			lines = append(lines, infoLine{Label: f.Label(), Value: v})
		}
	}
	return b.render("info_gathering", map[string]any{
		"Company":     b.Company,
		"Interviewer": b.Interviewer,
		"Info":        lines,
		"JustFilled":  justFilled,
		"History":     b.recent(history),
	})
}

// QuestionGeneration builds the full question-generation prompt.
func (b *PromptBuilder) QuestionGeneration(techStack string, techs []string, perTech int, history []Message) string {
	return b.render("question_generation", map[string]any{
		"Company":     b.Company,
		"Interviewer": b.Interviewer,
		"TechStack":   techStack,
		"Techs":       techs,
		"PerTech":     perTech,
		"Count":       perTech * len(techs),
		"History":     b.recent(history),
	})
}

// SimpleQuestionGeneration builds the reduced prompt used on retry. It
// carries no history.
func (b *PromptBuilder) SimpleQuestionGeneration(techStack string, count int) string {
	return b.render("question_generation_simple", map[string]any{
		"TechStack": techStack,
		"Count":     count,
	})
}

// FollowupAcknowledgment builds the prompt that phrases a reaction to the
// candidate's answer to question.
func (b *PromptBuilder) FollowupAcknowledgment(question, lastAnswer string, history []Message) string {
	return b.render("acknowledgment", map[string]any{
		"Company":     b.Company,
		"Interviewer": b.Interviewer,
		"Question":    question,
		"Answer":      lastAnswer,
		"History":     b.recent(history),
	})
}

// recent returns the last Window exchanges (two messages each).
func (b *PromptBuilder) recent(history []Message) []historyLine {
	if b.Window <= 0 || len(history) == 0 {
		return nil
	}
	start := len(history) - 2*b.Window
	if start < 0 {
		start = 0
	}

	lines := make([]historyLine, 0, len(history)-start)
	for _, m := range history[start:] {
		speaker := "Candidate"
		if m.Role == RoleBot {
			speaker = b.Interviewer
		}
		lines = append(lines, historyLine{Speaker: speaker, Text: strings.TrimSpace(m.Text)})
	}
	return lines
}

func (b *PromptBuilder) render(name string, data any) string {
	var buf bytes.Buffer
	if err := b.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Sprintf("ERROR: failed to execute %s template: %v", name, err)
	}
	return buf.String()
}
