package components

import (
	"strconv"
	"strings"

	"github.com/abhisek/qgen/internal/ui/theme"
)

// RenderQuestions renders questions as a numbered list, one per line,
// numbered from 1 in the order given.
func RenderQuestions(questions []string, styled bool) string {
	var b strings.Builder
	for i, q := range questions {
		num := strconv.Itoa(i+1) + ". "
		if styled {
			num = theme.QuestionNumber.Render(num)
			q = theme.Question.Render(q)
		}
		b.WriteString(num)
		b.WriteString(q)
		b.WriteByte('\n')
	}
	return b.String()
}
