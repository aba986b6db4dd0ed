package mapping

import "strings"

// AppField is one catalog entry: a valid target an administrator may bind a
// sheet column to. The catalog is static and read-only at runtime; the
// category is the id prefix before the first dot.
type AppField struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Category returns the id prefix before the first dot.
func (f AppField) Category() string {
	if i := strings.Index(f.ID, "."); i > 0 {
		return f.ID[:i]
	}
	return f.ID
}

// IDSuffix returns the id part after the category dot, used by the
// auto-matcher.
func (f AppField) IDSuffix() string {
	if i := strings.Index(f.ID, "."); i > 0 {
		return f.ID[i+1:]
	}
	return f.ID
}

var appFields = []AppField{
	{"ticket.id", "Ticket ID", "Unique ticket identifier"},
	{"ticket.title", "Ticket Title", "Short summary entered by the submitter"},
	{"ticket.description", "Description", "Full problem description"},
	{"ticket.status", "Status", "Workflow status (Open, Claimed, Resolved, Closed)"},
	{"ticket.priority", "Priority", "Triage priority"},
	{"ticket.category", "Category", "IT or Facilities category"},
	{"ticket.location", "Location", "Room or building"},
	{"ticket.submitter", "Submitter Email", "Email of the person who filed the ticket"},
	{"ticket.assignee", "Assignee", "Email of the staff member working the ticket"},
	{"ticket.comments", "Comments", "Running comment thread"},
	{"ticket.created", "Created At", "Submission timestamp"},
	{"ticket.updated", "Updated At", "Last change timestamp"},

	{"user.email", "Email", "Login identity and ticket attribution key"},
	{"user.name", "Full Name", "Display name"},
	{"user.role", "Role", "Primary role name"},
	{"user.extra_roles", "Additional Roles", "Comma-delimited extra role names"},
	{"user.access_code", "Access Code", "Login access code"},

	{"asset.id", "Asset ID", "Unique asset identifier"},
	{"asset.name", "Asset Name", "Human-readable asset name"},
	{"asset.tag", "Asset Tag", "Physical inventory tag"},
	{"asset.location", "Asset Location", "Where the asset lives"},
	{"asset.status", "Asset Status", "In service, in repair, retired"},
	{"asset.last_service", "Last Service", "Most recent maintenance date"},

	{"vendor.id", "Vendor ID", "Unique vendor identifier"},
	{"vendor.name", "Vendor Name", "Company name"},
	{"vendor.contact", "Vendor Contact", "Contact email"},
	{"vendor.bid_amount", "Bid Amount", "Current bid amount"},
	{"vendor.bid_status", "Bid Status", "Open, awarded, declined"},
}

var appFieldIndex = func() map[string]AppField {
	idx := make(map[string]AppField, len(appFields))
	for _, f := range appFields {
		idx[f.ID] = f
	}
	return idx
}()

// criticalFields are relied on structurally by the ticket and user logic.
// Remapping or deleting one of these requires explicit confirmation and is
// never silent.
var criticalFields = map[string]bool{
	"ticket.id":       true,
	"ticket.comments": true,
	"user.email":      true,
	"user.role":       true,
}

// AppFields returns the full catalog.
func AppFields() []AppField {
	return append([]AppField(nil), appFields...)
}

// AppFieldByID looks up a catalog entry.
func AppFieldByID(id string) (AppField, bool) {
	f, ok := appFieldIndex[id]
	return f, ok
}

// IsCritical reports whether the given AppField id is on the critical
// allow-list.
func IsCritical(fieldID string) bool {
	return criticalFields[fieldID]
}

// Categories returns the distinct AppField categories in catalog order.
func Categories() []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range appFields {
		c := f.Category()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// FieldsByCategory narrows the catalog to one category. A pure filter for the
// selection UI; no persisted state.
func FieldsByCategory(category string) []AppField {
	var out []AppField
	for _, f := range appFields {
		if f.Category() == category {
			out = append(out, f)
		}
	}
	return out
}
