// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package portal

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sjdportal/darbar/internal/platform/apperr"
	"github.com/sjdportal/darbar/internal/platform/constants"
	requestutil "github.com/sjdportal/darbar/internal/platform/request"
	"github.com/sjdportal/darbar/internal/platform/respond"
	"github.com/sjdportal/darbar/internal/platform/validate"
	"github.com/sjdportal/darbar/internal/routing"
)

// SubtreeRoutes returns a [chi.Router] for one role subtree, fenced by the
// subtree's allow-list and populated from its capabilities. Every subtree
// serves the shell descriptor and the profile pages; the complaint and
// statistics endpoints appear only where the capability grants them.
func (handler *Handler) SubtreeRoutes(subtree routing.Subtree) chi.Router {
	router := chi.NewRouter()
	router.Use(handler.Guard(subtree.Allowed))

	router.Get("/shell", handler.shell)
	router.Get("/profile", handler.profile)
	router.Put("/profile", handler.updateProfile)

	router.Get("/complaints", handler.listComplaints)
	router.Get("/complaints/{id}", handler.complaintDetail)

	if subtree.Caps.SubmitComplaint {
		router.Post("/complaints", handler.submitComplaint)
	}
	if subtree.Caps.UpdateStatus {
		router.Put("/complaints/{id}/status", handler.updateComplaintStatus)
	}
	if subtree.Caps.ViewStats {
		router.Get("/stats", handler.stats)
	}

	return router
}

// # Shell & Landing

type shellDescriptor struct {
	Prefix       string               `json:"prefix"`
	Role         string               `json:"role"`
	Menu         []routing.MenuItem   `json:"menu"`
	Capabilities routing.Capabilities `json:"capabilities"`
	User         shellUser            `json:"user"`
}

type shellUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	District string `json:"district,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

/*
Shell serves the dashboard-shell descriptor for the mounted subtree.

GET <subtree>/shell

Description: Everything the dashboard chrome needs in one response: the
sidebar menu, the capability flags driving which widgets render, and the
header's user summary. The menu always comes from the visitor's own role,
so a superadmin browsing /admin still sees the superadmin sidebar.

Response:
  - 200: shellDescriptor
*/
func (handler *Handler) shell(writer http.ResponseWriter, request *http.Request) {
	user := handler.session.User()
	if user == nil {
		respond.Error(writer, request, apperr.Unauthorized("No active session"))
		return
	}

	role, _ := routing.Parse(user.Role)
	subtree := routing.SubtreeFor(role)
	respond.OK(writer, shellDescriptor{
		Prefix:       subtree.Prefix,
		Role:         user.Role,
		Menu:         subtree.Menu,
		Capabilities: subtree.Caps,
		User: shellUser{
			Name:     user.FullName(),
			Email:    user.Email,
			District: user.District,
			Photo:    user.PhotoURL(handler.client.UploadsURL()),
		},
	})
}

/*
PublicHome serves the portal landing descriptor.

GET /

Description: The only page served without a session. Anonymous visitors get
the public menu; an authenticated visitor additionally gets the redirect
target for their role home.
*/
func (handler *Handler) PublicHome(writer http.ResponseWriter, request *http.Request) {
	payload := map[string]any{
		"name": constants.AppName,
		"menu": routing.SubtreeFor(routing.RolePublic).Menu,
	}

	if user := handler.session.User(); user != nil {
		role, _ := routing.Parse(user.Role)
		payload["redirect"] = routing.HomeFor(role)
	}

	respond.OK(writer, payload)
}

// NotFoundRedirect sends any unmatched path to the public home, mirroring a
// catch-all route.
func (handler *Handler) NotFoundRedirect(writer http.ResponseWriter, request *http.Request) {
	respond.Redirect(writer, request, constants.PathHome)
}

// # Profile Pages

type profileUpdateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	District  string `json:"district"`
}

/*
Profile serves the authenticated user's profile.

GET <subtree>/profile

Response:
  - 200: backend.Profile with the photo resolved to an absolute URL
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	user := handler.session.User()
	if user == nil {
		respond.Error(writer, request, apperr.Unauthorized("No active session"))
		return
	}

	user.Photo = user.PhotoURL(handler.client.UploadsURL())
	respond.OK(writer, user)
}

/*
UpdateProfile edits the authenticated user's profile.

PUT <subtree>/profile

Description: Applies the editable fields over the confirmed profile and
forwards the result upstream, then re-syncs the session from the backend's
authoritative copy.

Request:
  - Body: profileUpdateRequest (FirstName, LastName, Phone, Address, District)

Response:
  - 200: backend.Profile: The updated profile
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	user := handler.session.User()
	if user == nil {
		respond.Error(writer, request, apperr.Unauthorized("No active session"))
		return
	}

	var input profileUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		Phone(FieldPhone, input.Phone)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Phone = input.Phone
	user.Address = input.Address
	user.District = input.District

	updated, err := handler.client.UpdateProfile(request.Context(), user)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.session.RefreshUser(request.Context()); err != nil {
		// The update itself succeeded; the session re-sync is best effort.
		handler.log.Warn("profile_resync_failed", slog.Any("error", err))
	}

	respond.OK(writer, updated)
}
