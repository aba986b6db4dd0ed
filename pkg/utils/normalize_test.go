package utils

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Snake case header", "Ticket_ID", "ticketid"},
		{"Spaced label", "Ticket ID", "ticketid"},
		{"Camel case", "TicketID", "ticketid"},
		{"Mixed punctuation", "E-Mail (Work)", "emailwork"},
		{"Already normalized", "status", "status"},
		{"Only punctuation", "___", ""},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.in); got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeKeyEquivalence(t *testing.T) {
	// Headers that should all collide onto the same key
	variants := []string{"Ticket_ID", "ticket id", "TicketID", "TICKET-ID"}
	first := NormalizeKey(variants[0])
	for _, v := range variants[1:] {
		if NormalizeKey(v) != first {
			t.Errorf("NormalizeKey(%q) = %q, want %q", v, NormalizeKey(v), first)
		}
	}
}

func TestHeaderFromLabel(t *testing.T) {
	if got := HeaderFromLabel("Ticket Title"); got != "Ticket_Title" {
		t.Errorf("HeaderFromLabel() = %q, want %q", got, "Ticket_Title")
	}
	if got := HeaderFromLabel("  Status  "); got != "Status" {
		t.Errorf("HeaderFromLabel() = %q, want %q", got, "Status")
	}
}
