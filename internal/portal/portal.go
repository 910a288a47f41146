// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

/*
Package portal provides the HTTP delivery layer of the grievance gateway.

It implements the browser-facing surface: authentication entry points, the
role-scoped dashboard subtrees, and the complaint workflow, all mediated
through the single gateway [session.Session] and the upstream
[backend.Client].

# Architecture

The handler acts as a thin mediation layer between the browser and the
backend API:
  - Protocol: Standard RESTful JSON interface.
  - Security: Mints and verifies the browser-binding session cookie.
  - Access: Every subtree is fenced by the role allow-list in
    [routing.Subtree].

This layer is strictly responsible for transport concerns (status codes,
cookies, redirects, JSON).
*/
package portal

import (
	"log/slog"

	"github.com/sjdportal/darbar/internal/backend"
	"github.com/sjdportal/darbar/internal/platform/sec"
	"github.com/sjdportal/darbar/internal/session"
)

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldPhone       = "phone"
	FieldToken       = "token"
	FieldSubject     = "subject"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldDistrict    = "district"
	FieldStatus      = "status"
	FieldAddress     = "address"
)

// # Complaint Workflow States

const (
	StatusPending    = "pending"
	StatusInProgress = "inProgress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
)

// # Definitions & Constructors

// Handler implements the portal's HTTP endpoints.
type Handler struct {
	session *session.Session
	client  *backend.Client
	cookies *sec.CookieService
	log     *slog.Logger
}

// NewHandler constructs a new [Handler] with its collaborators.
func NewHandler(sess *session.Session, client *backend.Client, cookies *sec.CookieService, logger *slog.Logger) *Handler {
	return &Handler{
		session: sess,
		client:  client,
		cookies: cookies,
		log:     logger,
	}
}
