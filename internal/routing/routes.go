// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package routing

// # Dashboard Menus

// MenuItem is one entry of the dashboard shell's sidebar.
type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

// # Subtree Descriptors

// Capabilities enumerates what feature operations a subtree exposes.
//
// The original portal encoded this in scattered role checks; keeping it on
// the descriptor gives every role one row to read and one row to change.
type Capabilities struct {
	// SubmitComplaint allows filing a new grievance.
	SubmitComplaint bool `json:"submit_complaint"`

	// UpdateStatus allows moving a complaint through its workflow.
	UpdateStatus bool `json:"update_status"`

	// ViewStats exposes the aggregate dashboard counters.
	ViewStats bool `json:"view_stats"`

	// ManageUsers exposes account administration endpoints.
	ManageUsers bool `json:"manage_users"`
}

// Subtree describes one role-specific route subtree of the portal.
//
// Subtrees are fixed at build time. The router never computes them.
type Subtree struct {
	// Prefix is the path prefix the subtree is mounted under (e.g. "/officer").
	Prefix string

	// Allowed is the role allow-list guarding the subtree.
	Allowed []Role

	// Menu is the sidebar item set the dashboard shell renders.
	Menu []MenuItem

	// Caps lists the feature operations available inside the subtree.
	Caps Capabilities
}

// subtrees maps each role to its home subtree.
//
// Allow-lists follow the portal policy: a subtree admits its own role plus
// the supervisory admin and superadmin accounts; the admin subtrees admit
// only themselves.
var subtrees = map[Role]Subtree{
	RolePublic: {
		Prefix:  "/public",
		Allowed: []Role{RolePublic, RoleAdmin, RoleSuperAdmin},
		Menu: []MenuItem{
			{Label: "Dashboard", Path: "/public/shell", Icon: "home"},
			{Label: "New Complaint", Path: "/public/complaints", Icon: "plus"},
			{Label: "My Complaints", Path: "/public/complaints", Icon: "list"},
			{Label: "Profile", Path: "/public/profile", Icon: "user"},
		},
		Caps: Capabilities{SubmitComplaint: true},
	},
	RoleOfficer: {
		Prefix:  "/officer",
		Allowed: []Role{RoleOfficer, RoleAdmin, RoleSuperAdmin},
		Menu: []MenuItem{
			{Label: "Dashboard", Path: "/officer/shell", Icon: "home"},
			{Label: "Assigned Complaints", Path: "/officer/complaints", Icon: "list"},
			{Label: "Profile", Path: "/officer/profile", Icon: "user"},
		},
		Caps: Capabilities{UpdateStatus: true},
	},
	RoleDM: {
		Prefix:  "/dm",
		Allowed: []Role{RoleDM, RoleAdmin, RoleSuperAdmin},
		Menu: []MenuItem{
			{Label: "Dashboard", Path: "/dm/shell", Icon: "home"},
			{Label: "District Docket", Path: "/dm/complaints", Icon: "list"},
			{Label: "Statistics", Path: "/dm/stats", Icon: "chart"},
			{Label: "Profile", Path: "/dm/profile", Icon: "user"},
		},
		Caps: Capabilities{UpdateStatus: true, ViewStats: true},
	},
	RoleDepartment: {
		Prefix:  "/department",
		Allowed: []Role{RoleDepartment, RoleAdmin, RoleSuperAdmin},
		Menu: []MenuItem{
			{Label: "Dashboard", Path: "/department/shell", Icon: "home"},
			{Label: "Forwarded Complaints", Path: "/department/complaints", Icon: "list"},
			{Label: "Profile", Path: "/department/profile", Icon: "user"},
		},
		Caps: Capabilities{UpdateStatus: true},
	},
	RoleAdmin: {
		Prefix:  "/admin",
		Allowed: []Role{RoleAdmin, RoleSuperAdmin},
		Menu: []MenuItem{
			{Label: "Dashboard", Path: "/admin/shell", Icon: "home"},
			{Label: "All Complaints", Path: "/admin/complaints", Icon: "list"},
			{Label: "Statistics", Path: "/admin/stats", Icon: "chart"},
			{Label: "Users", Path: "/admin/users", Icon: "users"},
			{Label: "Profile", Path: "/admin/profile", Icon: "user"},
		},
		Caps: Capabilities{UpdateStatus: true, ViewStats: true, ManageUsers: true},
	},
	RoleSuperAdmin: {
		Prefix:  "/superadmin",
		Allowed: []Role{RoleSuperAdmin},
		Menu: []MenuItem{
			{Label: "Dashboard", Path: "/superadmin/shell", Icon: "home"},
			{Label: "All Complaints", Path: "/superadmin/complaints", Icon: "list"},
			{Label: "Statistics", Path: "/superadmin/stats", Icon: "chart"},
			{Label: "Users & Admins", Path: "/superadmin/users", Icon: "users"},
			{Label: "Profile", Path: "/superadmin/profile", Icon: "user"},
		},
		Caps: Capabilities{UpdateStatus: true, ViewStats: true, ManageUsers: true},
	},
}

// # Lookups

// SubtreeFor returns the route subtree owned by the given role.
//
// Unknown roles fall back to the public subtree, matching the original
// portal's behavior of defaulting to the public menu set.
func SubtreeFor(role Role) Subtree {
	if subtree, ok := subtrees[role]; ok {
		return subtree
	}
	return subtrees[RolePublic]
}

// Subtrees returns every descriptor, used by the server to mount routes.
func Subtrees() []Subtree {
	list := make([]Subtree, 0, len(AllRoles))
	for _, role := range AllRoles {
		list = append(list, subtrees[role])
	}
	return list
}

// HomeFor returns the path a freshly authenticated session navigates to.
func HomeFor(role Role) string {
	return SubtreeFor(role).Prefix + "/shell"
}

// MenuFor returns the sidebar menu for the given role string.
//
// The raw string form exists because the dashboard shell receives the role
// straight from the profile record; parsing failures select the public set.
func MenuFor(raw string) []MenuItem {
	role, ok := Parse(raw)
	if !ok {
		return subtrees[RolePublic].Menu
	}
	return SubtreeFor(role).Menu
}
