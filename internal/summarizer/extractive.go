// Package summarizer holds the local extractive summarizer used as the last
// step of the summarization fallback chain.
package summarizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxSentences = 4

// keywords mark sentences that usually carry the substance of a denial notice.
var keywords = []string{
	"denied", "denial", "reason", "not covered", "medically necessary", "medical necessity",
	"authorization", "cpt", "icd", "code", "amount", "$", "appeal", "deadline", "days",
	"out-of-network", "experimental", "policy",
}

// Extract builds a summary from the leading sentence plus the next sentences
// that mention a denial keyword, in document order, capped at maxChars. It
// returns "" only for blank input.
func Extract(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = 600
	}
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}

	picked := []string{sentences[0]}
	for _, s := range sentences[1:] {
		if len(picked) >= maxSentences {
			break
		}
		if hasKeyword(s) {
			picked = append(picked, s)
		}
	}

	var b strings.Builder
	for _, s := range picked {
		if b.Len() > 0 {
			if b.Len()+1+len(s) > maxChars {
				break
			}
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return truncate(b.String(), maxChars)
}

func splitSentences(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		var cur strings.Builder
		runes := []rune(line)
		for i, r := range runes {
			cur.WriteRune(r)
			end := r == '.' || r == '!' || r == '?'
			if end && (i == len(runes)-1 || unicode.IsSpace(runes[i+1])) {
				if s := collapseSpace(cur.String()); s != "" {
					out = append(out, s)
				}
				cur.Reset()
			}
		}
		if s := collapseSpace(cur.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most maxChars bytes on a rune boundary, appending "...".
func truncate(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}
	cut := maxChars - 3
	if cut < 1 {
		cut = 1
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
