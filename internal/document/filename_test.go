package document

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"Acme Inc.":             "Proposal for Acme Inc.docx",
		"Johnson & Sons, LLC":   "Proposal for Johnson & Sons, LLC.docx",
		"../../etc/passwd":      "Proposal for etc passwd.docx",
		`C:\Users\evil`:         "Proposal for C Users evil.docx",
		"Bad<>:\"|?*Name":       "Proposal for Bad Name.docx",
		"  Müller   GmbH  ":     "Proposal for Müller GmbH.docx",
		"":                      "Proposal for Client.docx",
		"...":                   "Proposal for Client.docx",
		"O'Brien (Holdings)":    "Proposal for O'Brien (Holdings).docx",
		"line\nbreak\ttab\x00z": "Proposal for line break tab z.docx",
	}
	for in, want := range cases {
		assert.Equal(t, want, FileName(in), "input %q", in)
	}
}

func TestSanitizeName_Length(t *testing.T) {
	long := strings.Repeat("ab ", 100)
	got := SanitizeName(long)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), maxNameRunes)
	assert.False(t, strings.HasSuffix(got, " "))
}
