package claimtext

import (
	"strings"
	"unicode/utf8"

	"claimequity/internal/domain"
)

// Features derives keyword signals from claim text.
func Features(text string) domain.ClaimFeatures {
	lower := strings.ToLower(text)
	return domain.ClaimFeatures{
		TextLength:   utf8.RuneCountInString(text),
		HasICDCode:   flag(strings.Contains(lower, "icd") || strings.Contains(text, "E11") || strings.Contains(text, "I10")),
		HasPriorAuth: flag(strings.Contains(lower, "prior auth") || strings.Contains(lower, "authorization")),
		HasDenial:    flag(strings.Contains(lower, "denied") || strings.Contains(lower, "denial")),
		HasAppeal:    flag(strings.Contains(lower, "appeal")),
	}
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
