// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package portal

import (
	"net/http"

	"github.com/sjdportal/darbar/internal/platform/constants"
	"github.com/sjdportal/darbar/internal/platform/ctxutil"
	"github.com/sjdportal/darbar/internal/platform/respond"
	"github.com/sjdportal/darbar/internal/platform/sec"
	"github.com/sjdportal/darbar/internal/routing"
	sessionpkg "github.com/sjdportal/darbar/internal/session"
)

/*
Guard returns the route-guard middleware for a subtree's role allow-list.

Description: Resolves the visitor from the binding cookie plus the live
gateway session, then applies [routing.Decide]. Anonymous visitors are
redirected to the login page; authenticated visitors whose role is outside
the allow-list are redirected to the public home. An allowed request counts
as user activity and resets the inactivity window.

The session is authoritative: a syntactically valid cookie minted before a
logout carries a stale generation and is treated as anonymous.
*/
func (handler *Handler) Guard(allowed []routing.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			visitor, claims := handler.resolveVisitor(request)

			decision := routing.Decide(visitor, allowed)
			if decision != routing.DecisionAllow {
				respond.Redirect(writer, request, decision.Target())
				return
			}

			handler.session.Touch()
			next.ServeHTTP(writer, request.WithContext(
				ctxutil.WithIdentity(request.Context(), claims),
			))
		})
	}
}

// resolveVisitor derives the guard's view of the caller. A visitor is
// present only when every binding holds: a verifiable cookie, a current
// generation, and a session that has a confirmed profile.
func (handler *Handler) resolveVisitor(request *http.Request) (routing.Visitor, *sec.Claims) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return routing.Visitor{}, nil
	}

	claims, err := handler.cookies.Verify(cookie.Value)
	if err != nil {
		return routing.Visitor{}, nil
	}
	if claims.Generation != handler.session.Generation() {
		return routing.Visitor{}, nil
	}
	if handler.session.State() != sessionpkg.StateAuthenticated {
		return routing.Visitor{}, nil
	}

	user := handler.session.User()
	if user == nil || user.Email != claims.Subject {
		return routing.Visitor{}, nil
	}

	return routing.Visitor{Present: true, Role: user.Role}, claims
}
