package interview

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/screenline-dev/screenline/internal/validate"
)

// Field kinds accepted in FieldSpec.Kind.
const (
	KindName      = "name"
	KindEmail     = "email"
	KindPhone     = "phone"
	KindText      = "text"
	KindTechStack = "tech_stack"
)

// FieldSpec configures one required candidate field.
type FieldSpec struct {
	Key    string `yaml:"key" mapstructure:"key"`
	Kind   string `yaml:"kind" mapstructure:"kind"`
	Label  string `yaml:"label,omitempty" mapstructure:"label"`
	Prompt string `yaml:"prompt,omitempty" mapstructure:"prompt"`
}

// FieldExtractor pulls one validated value out of a free-text reply.
type FieldExtractor interface {
	Key() string
	Label() string
	Prompt() string
	// Extract returns the normalized value or a *ValidationError.
	Extract(raw string) (string, error)
}

// DefaultFields is the field order used when none is configured.
func DefaultFields() []FieldSpec {
	return []FieldSpec{
		{Key: "name", Kind: KindName},
		{Key: "email", Kind: KindEmail},
		{Key: "phone", Kind: KindPhone},
		{Key: "tech_stack", Kind: KindTechStack},
	}
}

// OptionalFields lists the extra fields an operator can add to the flow.
func OptionalFields() []FieldSpec {
	return []FieldSpec{
		{Key: "experience", Kind: KindText, Label: "years of experience", Prompt: "How many years of professional experience do you have in software development?"},
		{Key: "position", Kind: KindText, Label: "desired position", Prompt: "What position are you applying for?"},
		{Key: "location", Kind: KindText, Label: "current location", Prompt: "What is your current location?"},
	}
}

var defaultPrompts = map[string]string{
	KindName:      "What is your full name?",
	KindEmail:     "What is your email address?",
	KindPhone:     "What is your phone number where we can reach you?",
	KindText:      "Could you tell me your %s?",
	KindTechStack: "Please list your tech stack (programming languages, frameworks, databases and tools you're proficient in), separated by commas. For example: Python, React, MongoDB.",
}

var defaultLabels = map[string]string{
	KindName:      "full name",
	KindEmail:     "email address",
	KindPhone:     "phone number",
	KindTechStack: "tech stack",
}

// BuildFields turns specs into extractors, rejecting unknown kinds and
// duplicate keys.
func BuildFields(specs []FieldSpec, phone validate.PhoneRule) ([]FieldExtractor, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no required fields configured")
	}

	seen := make(map[string]bool, len(specs))
	fields := make([]FieldExtractor, 0, len(specs))
	for _, spec := range specs {
		if spec.Key == "" {
			return nil, fmt.Errorf("field with kind %q has no key", spec.Kind)
		}
		if seen[spec.Key] {
			return nil, fmt.Errorf("duplicate field key %q", spec.Key)
		}
		seen[spec.Key] = true

		base := baseField{key: spec.Key, label: spec.Label, prompt: spec.Prompt}
		if base.label == "" {
			base.label = defaultLabels[spec.Kind]
			if base.label == "" {
				base.label = strings.ReplaceAll(spec.Key, "_", " ")
			}
		}
		if base.prompt == "" {
			base.prompt = defaultPrompts[spec.Kind]
			if spec.Kind == KindText {
				base.prompt = fmt.Sprintf(base.prompt, base.label)
			}
		}

		switch spec.Kind {
		case KindName:
			fields = append(fields, nameField{base})
		case KindEmail:
			fields = append(fields, emailField{base})
		case KindPhone:
			fields = append(fields, phoneField{baseField: base, rule: phone})
		case KindText:
			fields = append(fields, textField{base})
		case KindTechStack:
			fields = append(fields, techStackField{base})
		default:
			return nil, fmt.Errorf("field %q: unknown kind %q", spec.Key, spec.Kind)
		}
	}
	return fields, nil
}

type baseField struct {
	key    string
	label  string
	prompt string
}

func (b baseField) Key() string    { return b.key }
func (b baseField) Label() string  { return b.label }
func (b baseField) Prompt() string { return b.prompt }

func (b baseField) invalid(msg string) error {
	return &ValidationError{Field: b.key, Message: msg}
}

type nameField struct{ baseField }

var nameLeadIns = []string{"my name is ", "my full name is ", "name is ", "i'm ", "i am ", "it's ", "this is ", "call me "}

func (f nameField) Extract(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, lead := range nameLeadIns {
		if len(s) > len(lead) && strings.EqualFold(s[:len(lead)], lead) {
			s = strings.TrimSpace(s[len(lead):])
			break
		}
	}
	s = strings.Join(strings.Fields(strings.TrimRight(s, ".!")), " ")

	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			return "", f.invalid("Names can't contain digits. Could you tell me your full name?")
		case r == ' ' || r == '-' || r == '\'' || r == '.':
		default:
			return "", f.invalid("That doesn't look like a name. Could you tell me your full name?")
		}
	}
	if letters < 2 {
		return "", f.invalid("I didn't catch your name. Could you tell me your full name?")
	}
	if len(s) > 100 {
		return "", f.invalid("That name is longer than I can store. Could you give a shorter form?")
	}
	return s, nil
}

type emailField struct{ baseField }

func (f emailField) Extract(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimRight(s, ".")
	if !validate.Email(s) {
		return "", f.invalid("That doesn't appear to be a valid email address. Please use the format name@example.com.")
	}
	return s, nil
}

type phoneField struct {
	baseField
	rule validate.PhoneRule
}

func (f phoneField) Extract(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !f.rule.Valid(s) {
		return "", f.invalid("That doesn't appear to be a valid phone number. Please use digits, optionally with spaces, dashes or a leading +.")
	}
	return s, nil
}

type textField struct{ baseField }

func (f textField) Extract(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", f.invalid(fmt.Sprintf("Please tell me your %s.", f.label))
	}
	if len(s) > 500 {
		return "", f.invalid("That's a bit long. Could you summarize it in a sentence?")
	}
	return s, nil
}

type techStackField struct{ baseField }

func (f techStackField) Extract(raw string) (string, error) {
	s := strings.Join(strings.Fields(raw), " ")
	if len(splitTechList(s)) == 0 {
		return "", f.invalid("Please list at least one technology, separated by commas. For example: Python, React, MongoDB.")
	}
	return s, nil
}
