package interview

import (
	"fmt"
	"regexp"
	"strings"
)

// generalTech stands in when a tech stack yields no usable entries.
const generalTech = "general"

var techSeparator = regexp.MustCompile(`(?i)\s*(?:,|;|\n|\band\b|&)\s*`)

// splitTechList splits free text into trimmed, non-empty entries.
func splitTechList(s string) []string {
	var out []string
	for _, part := range techSeparator.Split(s, -1) {
		part = strings.Trim(strings.TrimSpace(part), ".")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseTechStack returns up to max lower-cased, de-duplicated technologies
// from a tech stack answer, or ["general"] if none are found.
func ParseTechStack(techStack string, max int) []string {
	seen := make(map[string]bool)
	var techs []string
	for _, t := range splitTechList(techStack) {
		t = strings.ToLower(t)
		if seen[t] {
			continue
		}
		seen[t] = true
		techs = append(techs, t)
		if max > 0 && len(techs) == max {
			break
		}
	}
	if len(techs) == 0 {
		return []string{generalTech}
	}
	return techs
}

var (
	listMarker   = regexp.MustCompile(`^\s*(?:\d+\s*[.):]|[-*•]|[Qq]\d+\s*[.):])\s*`)
	markdownBold = regexp.MustCompile(`\*\*|__`)
)

// ParseQuestions extracts discrete questions from a model response. It
// accepts numbered, bulleted and "Q1:" lines, or bare lines ending in '?'.
// Headings and preamble lines ending in ':' are dropped.
func ParseQuestions(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(markdownBold.ReplaceAllString(line, ""))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		marked := listMarker.MatchString(line)
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		line = strings.Trim(line, `"`)
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		if !marked && !strings.HasSuffix(line, "?") {
			continue
		}
		questions = append(questions, line)
	}
	return questions
}

var fallbackTemplates = []string{
	"Can you explain the core principles or concepts of %s?",
	"What are the main advantages and limitations of %s compared to alternatives?",
	"How would you describe the architecture or structure of a typical %s application?",
	"What are some best practices you follow when working with %s?",
	"What is a challenging problem you have solved using %s, and how did you approach it?",
}

// FallbackQuestions returns perTech static questions for each technology.
func FallbackQuestions(techs []string, perTech int) []string {
	items := fallbackItems(techs, perTech)
	questions := make([]string, len(items))
	for i, it := range items {
		questions[i] = it.text
	}
	return questions
}

// queuedQuestion is a question with the technology it targets; tech is
// empty when unknown.
type queuedQuestion struct {
	text string
	tech string
}

// fallbackItems builds the static questions grouped by technology.
func fallbackItems(techs []string, perTech int) []queuedQuestion {
	if perTech <= 0 {
		perTech = 1
	}
	if perTech > len(fallbackTemplates) {
		perTech = len(fallbackTemplates)
	}
	if len(techs) == 0 {
		techs = []string{generalTech}
	}

	items := make([]queuedQuestion, 0, len(techs)*perTech)
	for _, tech := range techs {
		name, tag := tech, tech
		if tech == generalTech {
			name, tag = "your primary technologies", ""
		}
		for i := 0; i < perTech; i++ {
			items = append(items, queuedQuestion{text: fmt.Sprintf(fallbackTemplates[i], name), tech: tag})
		}
	}
	return items
}

// topUp appends static questions to generated until it holds limit
// entries. Technologies are visited round-robin so a short response does
// not leave the later ones uncovered; questions already present are skipped.
func topUp(generated []queuedQuestion, techs []string, perTech, limit int) []queuedQuestion {
	if len(generated) >= limit {
		return generated
	}
	seen := make(map[string]bool, limit)
	for _, q := range generated {
		seen[strings.ToLower(q.text)] = true
	}

	static := fallbackItems(techs, perTech)
	groups := max(len(techs), 1)
	per := len(static) / groups
	out := generated
	for i := 0; i < per && len(out) < limit; i++ {
		for g := 0; g < groups && len(out) < limit; g++ {
			q := static[g*per+i]
			if seen[strings.ToLower(q.text)] {
				continue
			}
			seen[strings.ToLower(q.text)] = true
			out = append(out, q)
		}
	}
	return out
}
