package utils

import "strings"

// NormalizeQuestion prepares question text for the task-lookup fallback:
// trimmed, lowercased, inner whitespace collapsed. Clients occasionally send
// the question back with stray spacing, so matching is tolerant.
func NormalizeQuestion(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(q))), " ")
}

// NormalizeUserID canonicalizes the email used as the stats document key.
func NormalizeUserID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
