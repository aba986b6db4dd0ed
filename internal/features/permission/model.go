package permission

// Permission is an atomic capability identifier from the static catalog.
type Permission string

// Category groups permissions for the role editor UI.
type Category string

const (
	CategoryTickets   Category = "Tickets"
	CategoryTasks     Category = "Tasks"
	CategoryAssets    Category = "Assets"
	CategoryInventory Category = "Inventory"
	CategoryVendors   Category = "Vendors"
	CategoryPeople    Category = "People"
	CategoryDocs      Category = "Docs & SOPs"
	CategorySystem    Category = "System"
)

// Ticket capabilities
const (
	SubmitTickets       Permission = "SUBMIT_TICKETS"
	ViewAllTickets      Permission = "VIEW_ALL_TICKETS"
	ViewAssignedTickets Permission = "VIEW_ASSIGNED_TICKETS"
	ClaimTickets        Permission = "CLAIM_TICKETS"
	AssignTickets       Permission = "ASSIGN_TICKETS"
	ApproveTickets      Permission = "APPROVE_TICKETS"
	CloseTickets        Permission = "CLOSE_TICKETS"
	CommentTickets      Permission = "COMMENT_TICKETS"
)

// Task capabilities
const (
	ViewTasks   Permission = "VIEW_TASKS"
	ManageTasks Permission = "MANAGE_TASKS"
)

// Asset and inventory capabilities
const (
	ViewAssets      Permission = "VIEW_ASSETS"
	ManageAssets    Permission = "MANAGE_ASSETS"
	LogMaintenance  Permission = "LOG_MAINTENANCE"
	ViewInventory   Permission = "VIEW_INVENTORY"
	ManageInventory Permission = "MANAGE_INVENTORY"
)

// Vendor capabilities
const (
	ViewVendors   Permission = "VIEW_VENDORS"
	ManageVendors Permission = "MANAGE_VENDORS"
	SubmitBids    Permission = "SUBMIT_BIDS"
	AwardBids     Permission = "AWARD_BIDS"
)

// People capabilities
const (
	ViewUsers   Permission = "VIEW_USERS"
	ManageUsers Permission = "MANAGE_USERS"
	ManageRoles Permission = "MANAGE_ROLES"
)

// Docs capabilities
const (
	ViewDocs   Permission = "VIEW_DOCS"
	ManageDocs Permission = "MANAGE_DOCS"
)

// System capabilities
const (
	ManageFieldMappings Permission = "MANAGE_FIELD_MAPPINGS"
	ViewAuditLog        Permission = "VIEW_AUDIT_LOG"
	ManageSettings      Permission = "MANAGE_SETTINGS"
)

// Def is one catalog entry. The catalog is static configuration, not
// user-editable.
type Def struct {
	ID          Permission `json:"id"`
	Category    Category   `json:"category"`
	Description string     `json:"description"`
}

var catalog = []Def{
	{SubmitTickets, CategoryTickets, "Submit new help-desk tickets"},
	{ViewAllTickets, CategoryTickets, "See every ticket regardless of assignee"},
	{ViewAssignedTickets, CategoryTickets, "See tickets assigned to yourself"},
	{ClaimTickets, CategoryTickets, "Claim unassigned tickets"},
	{AssignTickets, CategoryTickets, "Assign tickets to other staff"},
	{ApproveTickets, CategoryTickets, "Approve tickets that require sign-off"},
	{CloseTickets, CategoryTickets, "Close resolved tickets"},
	{CommentTickets, CategoryTickets, "Add comments to tickets"},
	{ViewTasks, CategoryTasks, "See maintenance tasks"},
	{ManageTasks, CategoryTasks, "Create and edit maintenance tasks"},
	{ViewAssets, CategoryAssets, "See the asset register"},
	{ManageAssets, CategoryAssets, "Create and edit assets"},
	{LogMaintenance, CategoryAssets, "Record maintenance performed on an asset"},
	{ViewInventory, CategoryInventory, "See stock levels"},
	{ManageInventory, CategoryInventory, "Adjust stock levels"},
	{ViewVendors, CategoryVendors, "See the vendor directory"},
	{ManageVendors, CategoryVendors, "Create and edit vendors"},
	{SubmitBids, CategoryVendors, "Submit a bid on open work"},
	{AwardBids, CategoryVendors, "Award a bid to a vendor"},
	{ViewUsers, CategoryPeople, "See the user directory"},
	{ManageUsers, CategoryPeople, "Edit users and their role assignments"},
	{ManageRoles, CategoryPeople, "Define and edit roles"},
	{ViewDocs, CategoryDocs, "Read documentation and SOPs"},
	{ManageDocs, CategoryDocs, "Edit documentation and SOPs"},
	{ManageFieldMappings, CategorySystem, "Administer spreadsheet field mappings"},
	{ViewAuditLog, CategorySystem, "Read the audit trail"},
	{ManageSettings, CategorySystem, "Change system settings"},
}

var catalogIndex = func() map[Permission]Def {
	idx := make(map[Permission]Def, len(catalog))
	for _, d := range catalog {
		idx[d.ID] = d
	}
	return idx
}()

// Catalog returns every defined permission.
func Catalog() []Def {
	return append([]Def(nil), catalog...)
}

// IsKnown reports whether p is part of the catalog.
func IsKnown(p Permission) bool {
	_, ok := catalogIndex[p]
	return ok
}

// Categories returns the catalog categories in display order.
func Categories() []Category {
	return []Category{
		CategoryTickets, CategoryTasks, CategoryAssets, CategoryInventory,
		CategoryVendors, CategoryPeople, CategoryDocs, CategorySystem,
	}
}

// ByCategory filters the catalog down to one category.
func ByCategory(c Category) []Def {
	var out []Def
	for _, d := range catalog {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Toggle returns a new permission set with p added if absent and removed if
// present. It never mutates its input; toggling twice returns an equivalent
// set.
func Toggle(set []Permission, p Permission) []Permission {
	out := make([]Permission, 0, len(set)+1)
	found := false
	for _, existing := range set {
		if existing == p {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, p)
	}
	return out
}
