// Package redact provides utilities for redacting sensitive information
// from strings before they are logged or returned in error responses.
// The main concern in this application is card numbers, which must never
// reach the logs, but generic credential patterns are scrubbed too.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCardPlaceholder       = "[REDACTED_CARD]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

// Precompiled regex patterns
var (
	// Primary account numbers: any 13-19 digit run, covering the test
	// card numbers and anything shaped like a real PAN.
	cardNumberRegex = regexp.MustCompile(`\b\d{13,19}\b`)

	// Credentials and tokens
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)
	apiKeyRegex   = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	patterns = []*regexp.Regexp{
		cardNumberRegex, passwordRegex, apiKeyRegex,
	}

	patternPlaceholders = map[*regexp.Regexp]string{
		cardNumberRegex: RedactedCardPlaceholder,
		passwordRegex:   RedactedCredentialPlaceholder,
		apiKeyRegex:     RedactedCredentialPlaceholder,
	}
)

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pattern := range patterns {
		placeholder := RedactionPlaceholder
		if ph, ok := patternPlaceholders[pattern]; ok {
			placeholder = ph
		}
		result = pattern.ReplaceAllString(result, placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
