// Package redact provides utilities for scrubbing sensitive information
// from strings before they are logged. Store and driver errors can carry
// connection strings, SQL fragments, or bearer tokens; this package keeps
// them out of log output.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
)

// Precompiled regex patterns
var (
	// Database connection strings with embedded credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|db|database)://[^@\s]+@`)

	// Secrets passed as key=value or key: value
	secretRegex = regexp.MustCompile(`(?i)(password|secret|token|key)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// Standard three-part base64url-encoded JWT format
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// SQL statements leaked from driver errors
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE)[\s\w,*()$]+(?:FROM|INTO|SET)[\s\w,*()='"$]+`,
	)

	patternPlaceholders = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{dbConnRegex, RedactedCredentialPlaceholder},
		{secretRegex, RedactedCredentialPlaceholder},
		{jwtTokenRegex, RedactedJWTPlaceholder},
		{sqlRegex, RedactedSQLPlaceholder},
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pp := range patternPlaceholders {
		result = pp.pattern.ReplaceAllString(result, pp.placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
