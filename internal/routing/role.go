// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

/*
Package routing implements the role-gated route surface of the portal.

It defines the typed role enumeration, the static allow-lists for each route
subtree, the per-role dashboard menus, and the guard decision that either
admits a request or redirects it.

# Architecture

Everything in this package is a pure lookup: the role-to-subtree mapping is
fixed at build time, roles never change within a session, and the guard takes
a session snapshot rather than touching shared state. All temporal behavior
(resume, logout) lives in the session package.
*/
package routing

// # Roles

// Role is the authorization category assigned to a portal account.
type Role string

const (
	// RolePublic is a citizen filing and tracking their own grievances.
	RolePublic Role = "public"

	// RoleOfficer is a field officer handling assigned complaints.
	RoleOfficer Role = "officer"

	// RoleDM is the district magistrate overseeing a district's docket.
	RoleDM Role = "dm"

	// RoleDepartment is a line-department desk resolving forwarded complaints.
	RoleDepartment Role = "department"

	// RoleAdmin administers users and complaint routing portal-wide.
	RoleAdmin Role = "admin"

	// RoleSuperAdmin has unrestricted access including admin management.
	RoleSuperAdmin Role = "superadmin"
)

// AllRoles lists every role the portal knows, in privilege order.
//
// Tests assert that every entry here has a subtree and a menu, giving the
// lookup tables an exhaustiveness guarantee.
var AllRoles = []Role{
	RolePublic,
	RoleOfficer,
	RoleDM,
	RoleDepartment,
	RoleAdmin,
	RoleSuperAdmin,
}

// Parse maps a backend role string to a typed [Role].
// The boolean is false for unknown or empty strings.
func Parse(raw string) (Role, bool) {
	role := Role(raw)
	switch role {
	case RolePublic, RoleOfficer, RoleDM, RoleDepartment, RoleAdmin, RoleSuperAdmin:
		return role, true
	}
	return "", false
}

// In reports whether the role is a member of the given allow-list.
func (r Role) In(allowed []Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}
