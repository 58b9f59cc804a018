package interview

import (
	"strings"
	"unicode"
)

type consentAnswer int

const (
	consentUnknown consentAnswer = iota
	consentYes
	consentNo
)

// DefaultAffirmative and DefaultNegative are the consent phrase sets used
// when none are configured.
var (
	DefaultAffirmative = []string{"yes", "y", "yeah", "yep", "sure", "okay", "ok", "agree", "i agree", "consent", "i consent", "i do"}
	DefaultNegative    = []string{"no", "n", "nope", "nah", "disagree", "i disagree", "do not consent", "i do not consent", "i don't consent", "decline"}
)

// consentMatcher classifies consent replies against phrase sets.
type consentMatcher struct {
	yes map[string]bool
	no  map[string]bool
}

func newConsentMatcher(affirmative, negative []string) consentMatcher {
	build := func(phrases []string) map[string]bool {
		set := make(map[string]bool, len(phrases))
		for _, p := range phrases {
			if p = normalizeConsent(p); p != "" {
				set[p] = true
			}
		}
		return set
	}
	return consentMatcher{yes: build(affirmative), no: build(negative)}
}

// qualifiers make an affirmative lead-in conditional ("sure, but don't
// store anything"); such replies are asked again.
var qualifiers = map[string]bool{
	"not": true, "don't": true, "dont": true, "never": true, "but": true,
	"however": true, "unless": true, "without": true, "except": true,
}

// classify matches the whole normalized reply first. Otherwise any negative
// phrase anywhere in the reply declines, and an affirmative first word
// ("yes, go ahead") consents only when nothing qualifies it. Negative wins
// ties.
func (m consentMatcher) classify(reply string) consentAnswer {
	norm := normalizeConsent(reply)
	if norm == "" {
		return consentUnknown
	}
	if m.no[norm] {
		return consentNo
	}
	if m.yes[norm] {
		return consentYes
	}

	words := strings.Fields(norm)
	for phrase := range m.no {
		if containsWords(words, strings.Fields(phrase)) {
			return consentNo
		}
	}
	if !m.yes[words[0]] {
		return consentUnknown
	}
	for _, w := range words[1:] {
		if qualifiers[w] {
			return consentUnknown
		}
	}
	return consentYes
}

// containsWords reports whether phrase occurs in words as a contiguous
// whole-word sequence.
func containsWords(words, phrase []string) bool {
	if len(phrase) == 0 {
		return false
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		match := true
		for j, p := range phrase {
			if words[i+j] != p {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// normalizeConsent lower-cases, drops punctuation other than apostrophes
// and collapses whitespace.
func normalizeConsent(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) && r != '\'' {
			return ' '
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
