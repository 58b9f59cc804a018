package prompts

import _ "embed"

//go:embed interview/info_gathering.md.tmpl
var InfoGatheringTemplate string

//go:embed interview/question_generation.md.tmpl
var QuestionGenerationTemplate string

//go:embed interview/question_generation_simple.md.tmpl
var SimpleQuestionGenerationTemplate string

//go:embed interview/acknowledgment.md.tmpl
var AcknowledgmentTemplate string
