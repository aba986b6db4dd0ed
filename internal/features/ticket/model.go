package ticket

import (
	"fmt"
	"strings"
	"time"
)

// TicketsSheet is the sheet ticket records live in.
const TicketsSheet = "Tickets"

const (
	StatusOpen     = "Open"
	StatusClaimed  = "Claimed"
	StatusResolved = "Resolved"
	StatusClosed   = "Closed"
)

// Ticket is a typed record translated from a Tickets sheet row through the
// field mapping engine. Timestamps stay strings because the sheet stores
// them as text cells.
type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Submitter   string    `json:"submitter"`
	Assignee    string    `json:"assignee"`
	Comments    []Comment `json:"comments"`
	Created     string    `json:"created"`
	Updated     string    `json:"updated"`
}

// Comment is one entry in a ticket's running thread. The whole thread lives
// in a single mapped cell, one line per comment.
type Comment struct {
	At     string `json:"at"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

func validStatus(s string) bool {
	switch s {
	case StatusOpen, StatusClaimed, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// encodeComments renders the thread into its cell form:
// one "timestamp|author|text" line per comment.
func encodeComments(comments []Comment) string {
	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		text := strings.ReplaceAll(c.Text, "\n", " ")
		lines = append(lines, fmt.Sprintf("%s|%s|%s", c.At, c.Author, text))
	}
	return strings.Join(lines, "\n")
}

func decodeComments(cell string) []Comment {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var comments []Comment
	for _, line := range strings.Split(cell, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		c := Comment{}
		switch len(parts) {
		case 3:
			c.At, c.Author, c.Text = parts[0], parts[1], parts[2]
		case 2:
			c.Author, c.Text = parts[0], parts[1]
		default:
			c.Text = parts[0]
		}
		comments = append(comments, c)
	}
	return comments
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
