package qgen

import (
	"regexp"
	"strings"
)

// controlTokenRe matches the tokenizer's special tokens.
var controlTokenRe = regexp.MustCompile(`</?s>|<pad>|<unk>|<hl>|<extra_id_\d+>`)

// cleanSequence strips control tokens and surrounding whitespace from a
// decoded sequence. Whitespace left behind by a removed token is collapsed.
func cleanSequence(s string) string {
	if controlTokenRe.MatchString(s) {
		s = strings.Join(strings.Fields(controlTokenRe.ReplaceAllString(s, " ")), " ")
	}
	return strings.TrimSpace(s)
}

// hasControlToken reports whether s still contains a control token.
func hasControlToken(s string) bool {
	return controlTokenRe.MatchString(s)
}
