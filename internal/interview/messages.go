package interview

import (
	"fmt"
	"strings"
)

// Fixed candidate-facing texts. Anything the LLM phrases has a static
// counterpart here so the conversation never depends on the gateway.

const consentRequestTmpl = `Hi there, welcome to the technical screening at %[1]s! I'm %[2]s, your AI interviewer.

Before we start, we need your permission to store the information you share today. This includes:
- Your name, email and phone number
- Your professional experience and skills
- Your answers to technical questions

Your data is stored securely, kept for at most %[3]d months, and you can request access, correction or deletion at any time. We do not share it with third parties without your consent.

Do you consent to %[1]s storing this information? Please reply with 'yes' or 'no'.`

const consentGivenTmpl = `Thank you for your consent. You can withdraw it at any time by contacting %[1]s.

Here is how this works: first I'll collect some basic information, then I'll ask a few theoretical technical questions (no coding required).`

const consentDeclinedTmpl = `Understood. Without your consent %[1]s cannot store any of your information, so we won't continue with the interview. Nothing you have said has been saved. Thank you for your time.`

const (
	consentQuestionMsg = "Do you consent to us storing your interview information? Please reply with 'yes' or 'no'."
	consentRepromptMsg = "Sorry, I didn't catch that. " + consentQuestionMsg
)

const consentDefaultDeclinedTmpl = `I wasn't able to confirm your consent, so to be safe we won't store anything or continue with the interview. If you'd like to try again, please start a new session. Thank you for your time.`

const completedNoticeTmpl = `That was the last question. Thank you for taking the time to interview with %[1]s today.

As you've consented, %[1]s will store your responses for evaluation in accordance with our privacy policy. Our team will review them and be in touch within a few business days.

%[2]s
AI Technical Interviewer, %[1]s`

const saveFailedMsg = `Unfortunately we ran into a problem saving your responses. Our team has been notified; we apologize for the inconvenience.`

const (
	closedCompletedMsg = "This interview has ended. Thank you again for your time. Please start a new session if you'd like to interview again."
	closedDeclinedMsg  = "This session has ended and none of your information was stored. Please start a new session if you change your mind."
	emptyInputMsg      = "I didn't receive your response. Could you please answer again?"
	protocolFailureMsg = "Sorry, something went wrong on our side and this session can't continue. Please start a new session."
	questionsIntroMsg  = "Thanks, that's everything I need about you. Let's move on to a few technical questions about your stack. There are no coding exercises, just explain in your own words."
)

// fieldAcknowledgments are the static acknowledgements after each field.
var fieldAcknowledgments = map[string]string{
	"name":       "Thanks {name}.",
	"email":      "Got it.",
	"phone":      "Thanks for providing your contact information.",
	"experience": "Thank you for sharing your experience.",
	"position":   "I see you're interested in that role.",
	"location":   "Thank you for letting me know your location.",
	"tech_stack": "Thanks for sharing your tech stack.",
}

// answerAcknowledgments rotate between technical questions.
var answerAcknowledgments = []string{
	"Thank you for sharing that.",
	"That's helpful to understand your background.",
	"I appreciate the detailed response.",
	"Great, that gives me a good picture of your experience.",
	"Thank you for the thorough explanation.",
}

// texts holds the company-specific renderings of the fixed messages.
type texts struct {
	consentRequest  string
	consentGiven    string
	consentDeclined string
	defaultDeclined string
	completed       string
}

// newTexts renders the fixed texts. Without a privacy contact the consent
// confirmation points at the company's recruiting team.
func newTexts(company, interviewer, privacyContact string, retentionMonths int) texts {
	contact := strings.TrimSpace(privacyContact)
	if contact == "" {
		contact = "the " + company + " recruiting team"
	}
	return texts{
		consentRequest:  fmt.Sprintf(consentRequestTmpl, company, interviewer, retentionMonths),
		consentGiven:    fmt.Sprintf(consentGivenTmpl, contact),
		consentDeclined: fmt.Sprintf(consentDeclinedTmpl, company),
		defaultDeclined: consentDefaultDeclinedTmpl,
		completed:       fmt.Sprintf(completedNoticeTmpl, company, interviewer),
	}
}

// staticFieldAck returns the fixed acknowledgement after key was filled.
func staticFieldAck(key string, info map[string]string) string {
	ack, ok := fieldAcknowledgments[key]
	if !ok {
		return "Thank you."
	}
	if strings.Contains(ack, "{name}") {
		first := firstName(info["name"])
		if first == "" {
			return "Thank you."
		}
		ack = strings.ReplaceAll(ack, "{name}", first)
	}
	return ack
}

// staticAnswerAck picks an acknowledgement deterministically by answer count.
func staticAnswerAck(answered int) string {
	return answerAcknowledgments[answered%len(answerAcknowledgments)]
}

func firstName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// joinParagraphs joins the non-empty parts with blank lines.
func joinParagraphs(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
