package appeal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Placeholders used when a letter field is not supplied.
const (
	PlaceholderName      = "[Your Name]"
	PlaceholderInsurer   = "[Insurance Company]"
	PlaceholderPolicy    = "[Policy Number]"
	placeholderClaimText = "the enclosed claim documentation"
)

const letterTemplate = `{{.Date}}

{{.Insurer}}
Claims Appeals Department

Re: Appeal of Claim Denial
Policy Number: {{.Policy}}
Member: {{.Name}}

Dear {{.Insurer}} Appeals Reviewer,

{{.Draft}}
{{- if .Rationale}}

Basis for Reconsideration:
{{range .Rationale}}
{{.}}
{{end}}
{{- end}}
{{- if .Notes}}

Supporting details:
"{{.Notes}}"
{{- end}}

Please reconsider this denial and respond in writing within the time required by my plan and applicable law. I am available to provide any additional information needed.

Sincerely,
{{.Name}}
`

var letterTmpl = template.Must(template.New("letter").Parse(letterTemplate))

// LetterFields are the inputs to Format.
type LetterFields struct {
	PatientName      string
	InsuranceCompany string
	PolicyNumber     string
	Draft            string
	Rationale        []string
	Notes            string
	Date             time.Time
}

type letterData struct {
	Date      string
	Name      string
	Insurer   string
	Policy    string
	Draft     string
	Rationale []string
	Notes     string
}

// Format renders a complete letter. Missing name, insurer or policy number
// become bracketed placeholders; notes are quoted verbatim.
func Format(f LetterFields) (string, error) {
	date := f.Date
	if date.IsZero() {
		date = time.Now()
	}

	data := letterData{
		Date:      date.Format("January 2, 2006"),
		Name:      orPlaceholder(f.PatientName, PlaceholderName),
		Insurer:   orPlaceholder(f.InsuranceCompany, PlaceholderInsurer),
		Policy:    orPlaceholder(f.PolicyNumber, PlaceholderPolicy),
		Draft:     strings.TrimSpace(f.Draft),
		Rationale: f.Rationale,
		Notes:     strings.TrimSpace(f.Notes),
	}

	var buf bytes.Buffer
	if err := letterTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering appeal letter: %w", err)
	}
	return buf.String(), nil
}

// DraftPrompt builds the generation prompt from whichever of claim text and
// notes is present, combining both when available.
func DraftPrompt(claimText, notes string, maxChars int) string {
	claimText = strings.TrimSpace(claimText)
	notes = strings.TrimSpace(notes)
	if maxChars > 0 {
		if r := []rune(claimText); len(r) > maxChars {
			claimText = string(r[:maxChars])
		}
	}

	var b strings.Builder
	b.WriteString("Act as a healthcare insurance claim agent. Write the body of a professional appeal letter arguing for reversal of this claim denial. ")
	b.WriteString("Do not include a salutation, signature or placeholders; those are added separately.\n\n")
	if claimText != "" {
		b.WriteString("Claim:\n")
		b.WriteString(claimText)
		b.WriteString("\n\n")
	} else {
		b.WriteString("Claim: " + placeholderClaimText + "\n\n")
	}
	if notes != "" {
		b.WriteString("Additional notes from the patient:\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}
	return b.String()
}

func orPlaceholder(v, placeholder string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return placeholder
}
