package domain

import "strings"

// NormalizeTitle trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for operational-item titles and other user-entered labels.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
