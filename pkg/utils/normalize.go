package utils

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile("[^a-z0-9]+")

// NormalizeKey lowercases a header or label and strips everything that is not
// a letter or digit, so "Ticket_ID", "ticket id" and "TicketID" all compare
// equal.
func NormalizeKey(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// HeaderFromLabel derives a sheet column header from a display label,
// e.g. "Ticket Title" -> "Ticket_Title".
func HeaderFromLabel(label string) string {
	return strings.ReplaceAll(strings.TrimSpace(label), " ", "_")
}
