package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenline-dev/screenline/internal/validate"
)

func defaultExtractors(t *testing.T) map[string]FieldExtractor {
	t.Helper()
	fields, err := BuildFields(DefaultFields(), validate.DefaultPhoneRule)
	require.NoError(t, err)
	out := make(map[string]FieldExtractor, len(fields))
	for _, f := range fields {
		out[f.Key()] = f
	}
	return out
}

func TestFieldExtractors(t *testing.T) {
	fields := defaultExtractors(t)

	tests := []struct {
		field   string
		input   string
		want    string
		wantErr bool
	}{
		{"name", "Jane Doe", "Jane Doe", false},
		{"name", "my name is Jane Doe.", "Jane Doe", false},
		{"name", "I'm   Seán O'Neill", "Seán O'Neill", false},
		{"name", "Call me Jean-Luc", "Jean-Luc", false},
		{"name", "R2D2", "", true},
		{"name", "J", "", true},
		{"name", "jane@example.com", "", true},
		{"email", "Jane@Example.com", "jane@example.com", false},
		{"email", "jane@example.com.", "jane@example.com", false},
		{"email", "jane", "", true},
		{"email", "jane@", "", true},
		{"phone", "555-0100", "555-0100", false},
		{"phone", "+1 (555) 010-0100", "+1 (555) 010-0100", false},
		{"phone", "12345", "", true},
		{"phone", "call me", "", true},
		{"tech_stack", "Python,   Go", "Python, Go", false},
		{"tech_stack", " , ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.input, func(t *testing.T) {
			got, err := fields[tt.field].Extract(tt.input)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.field, verr.Field)
				assert.NotEmpty(t, verr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildFieldsDefaults(t *testing.T) {
	fields, err := BuildFields(append(DefaultFields(), OptionalFields()...), validate.DefaultPhoneRule)
	require.NoError(t, err)
	require.Len(t, fields, 7)

	assert.Equal(t, "full name", fields[0].Label())
	assert.Equal(t, "What is your full name?", fields[0].Prompt())
	assert.Equal(t, "years of experience", fields[4].Label())
	assert.Contains(t, fields[4].Prompt(), "years of professional experience")

	custom, err := BuildFields([]FieldSpec{{Key: "github_handle", Kind: KindText}}, validate.PhoneRule{})
	require.NoError(t, err)
	assert.Equal(t, "github handle", custom[0].Label())
	assert.Equal(t, "Could you tell me your github handle?", custom[0].Prompt())
}

func TestBuildFieldsErrors(t *testing.T) {
	_, err := BuildFields(nil, validate.DefaultPhoneRule)
	assert.Error(t, err)

	_, err = BuildFields([]FieldSpec{{Kind: KindText}}, validate.DefaultPhoneRule)
	assert.Error(t, err)

	_, err = BuildFields([]FieldSpec{{Key: "age", Kind: "number"}}, validate.DefaultPhoneRule)
	assert.ErrorContains(t, err, "unknown kind")
}

func TestConsentClassify(t *testing.T) {
	m := newConsentMatcher(DefaultAffirmative, DefaultNegative)

	tests := []struct {
		reply string
		want  consentAnswer
	}{
		{"yes", consentYes},
		{"YES!", consentYes},
		{"  Sure.  ", consentYes},
		{"yes, go ahead", consentYes},
		{"I agree", consentYes},
		{"no", consentNo},
		{"No thanks", consentNo},
		{"I don't consent", consentNo},
		{"I do not consent.", consentNo},
		{"i do", consentYes},
		{"yes I do not consent", consentNo},
		{"ok no", consentNo},
		{"Sure, but please don't store anything", consentUnknown},
		{"yes, unless you share it", consentUnknown},
		{"yes please", consentYes},
		{"Well, no.", consentNo},
		{"maybe", consentUnknown},
		{"what data?", consentUnknown},
		{"", consentUnknown},
		{"...", consentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			assert.Equal(t, tt.want, m.classify(tt.reply))
		})
	}
}

func TestConsentCustomPhrases(t *testing.T) {
	m := newConsentMatcher([]string{"oui", "ja"}, []string{"non", "nein"})

	assert.Equal(t, consentYes, m.classify("Oui"))
	assert.Equal(t, consentNo, m.classify("nein danke"))
	assert.Equal(t, consentUnknown, m.classify("yes"))
}
