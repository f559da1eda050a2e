package qgen

import "strings"

// HighlightToken marks the answer span in the prompt.
const HighlightToken = "<hl>"

// BuildPrompt returns the input the question model was trained on:
//
//	generate question: {context} <hl> {answer} <hl>
func BuildPrompt(context, answer string) string {
	return "generate question: " + context + " " + HighlightToken + " " + answer + " " + HighlightToken
}

// AnswerInContext reports whether answer occurs in context. Generation does
// not require it; callers use it to show a notice.
func AnswerInContext(context, answer string) bool {
	return answer != "" && strings.Contains(context, answer)
}
