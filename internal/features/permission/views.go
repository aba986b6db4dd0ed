package permission

// ViewRule ties one dashboard view to the capabilities that reveal it. A view
// is visible when the user holds ANY of the listed permissions, so adding or
// changing a view's visibility is a data change here, not a conditional in a
// screen.
type ViewRule struct {
	View  string       `json:"view"`
	AnyOf []Permission `json:"any_of"`
}

var viewRules = []ViewRule{
	{"submit", []Permission{SubmitTickets}},
	{"triage", []Permission{ViewAllTickets, AssignTickets}},
	{"my-queue", []Permission{ViewAssignedTickets, ClaimTickets}},
	{"approvals", []Permission{ApproveTickets}},
	{"operations", []Permission{ManageAssets, ManageInventory}},
	{"tasks", []Permission{ViewTasks, ManageTasks}},
	{"vendors", []Permission{ViewVendors, SubmitBids}},
	{"docs", []Permission{ViewDocs}},
	{"people", []Permission{ViewUsers, ManageUsers}},
	{"roles", []Permission{ManageRoles}},
	{"field-mappings", []Permission{ManageFieldMappings}},
	{"audit", []Permission{ViewAuditLog}},
	{"settings", []Permission{ManageSettings}},
}

// ViewRules returns the visibility table.
func ViewRules() []ViewRule {
	return append([]ViewRule(nil), viewRules...)
}

// CanSeeView reports whether the capability predicate reveals one view.
// Unknown views are never visible.
func CanSeeView(view string, has func(Permission) bool) bool {
	for _, rule := range viewRules {
		if rule.View != view {
			continue
		}
		for _, p := range rule.AnyOf {
			if has(p) {
				return true
			}
		}
		return false
	}
	return false
}

// VisibleViews evaluates the rule table against a capability predicate and
// returns the views the caller may see, in table order.
func VisibleViews(has func(Permission) bool) []string {
	var views []string
	for _, rule := range viewRules {
		for _, p := range rule.AnyOf {
			if has(p) {
				views = append(views, rule.View)
				break
			}
		}
	}
	return views
}
