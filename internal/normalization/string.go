package normalization

import "strings"

// ParseInputString lowercases and trims user-provided identifiers
// (emails, usernames) before validation and lookups.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimInputString trims without lowercasing, for display fields
// like recipe names where case is user-meaningful.
func TrimInputString(input string) string {
	return strings.TrimSpace(input)
}
