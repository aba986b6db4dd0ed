package ticket

import (
	"strings"

	"go-helpdesk/internal/bridge"
)

// fieldHeaders maps each ticket AppField id to its sheet column, per the
// current mapping set. Unmapped fields translate to empty values on read and
// are skipped on write.
type fieldHeaders map[string]string

func rowToTicket(row bridge.Row, headers fieldHeaders) Ticket {
	get := func(fieldID string) string {
		h := headers[fieldID]
		if h == "" {
			return ""
		}
		return strings.TrimSpace(row[h])
	}

	return Ticket{
		ID:          get("ticket.id"),
		Title:       get("ticket.title"),
		Description: get("ticket.description"),
		Status:      get("ticket.status"),
		Priority:    get("ticket.priority"),
		Category:    get("ticket.category"),
		Location:    get("ticket.location"),
		Submitter:   get("ticket.submitter"),
		Assignee:    get("ticket.assignee"),
		Comments:    decodeComments(get("ticket.comments")),
		Created:     get("ticket.created"),
		Updated:     get("ticket.updated"),
	}
}

func ticketToRow(t Ticket, headers fieldHeaders) bridge.Row {
	row := bridge.Row{}
	set := func(fieldID, value string) {
		if h := headers[fieldID]; h != "" {
			row[h] = value
		}
	}

	set("ticket.id", t.ID)
	set("ticket.title", t.Title)
	set("ticket.description", t.Description)
	set("ticket.status", t.Status)
	set("ticket.priority", t.Priority)
	set("ticket.category", t.Category)
	set("ticket.location", t.Location)
	set("ticket.submitter", t.Submitter)
	set("ticket.assignee", t.Assignee)
	set("ticket.comments", encodeComments(t.Comments))
	set("ticket.created", t.Created)
	set("ticket.updated", t.Updated)
	return row
}
