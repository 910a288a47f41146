// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package routing

import "github.com/sjdportal/darbar/internal/platform/constants"

// # Guard Decision

// Visitor is the guard's view of the current session: whether a user is
// present at all, and their raw role string.
type Visitor struct {
	Present bool
	Role    string
}

// Decision is the outcome of a guard evaluation.
type Decision int

const (
	// DecisionAllow admits the request into the protected subtree.
	DecisionAllow Decision = iota

	// DecisionLogin redirects to the login entry point.
	DecisionLogin

	// DecisionHome redirects to the public home.
	DecisionHome
)

// Target returns the redirect path for a non-allow decision.
// It returns "" for [DecisionAllow].
func (d Decision) Target() string {
	switch d {
	case DecisionLogin:
		return constants.PathLogin
	case DecisionHome:
		return constants.PathHome
	}
	return ""
}

/*
Decide evaluates the guard policy for a protected subtree.

Policy, in order:
 1. No user: redirect to login.
 2. User present but role missing or unknown: redirect to login. This is
    defensive; a confirmed profile always carries a role.
 3. Allow-list non-empty and role not a member: redirect to the public home.
 4. Otherwise: admit.

Parameters:
  - visitor: Visitor (session snapshot)
  - allowed: []Role (the subtree's static allow-list)

Returns:
  - Decision: Allow, or the redirect to issue
*/
func Decide(visitor Visitor, allowed []Role) Decision {
	if !visitor.Present {
		return DecisionLogin
	}

	role, ok := Parse(visitor.Role)
	if !ok {
		return DecisionLogin
	}

	if len(allowed) > 0 && !role.In(allowed) {
		return DecisionHome
	}

	return DecisionAllow
}
