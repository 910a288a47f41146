// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

/*
Package backend is the typed HTTP client for the external grievance REST API.

The backend is an external collaborator: it owns every record (users,
complaints, statistics) and performs the authoritative validation. This
package only shapes requests, attaches the bearer credential, and decodes
responses into the gateway's view of the data.

# Architecture

  - Client: One method per REST endpoint, context on every call.
  - Transport: An http.RoundTripper that injects the Authorization header and
    observes every response for authentication rejection (the response
    interceptor of the portal).
  - Models: The wire shapes, field names matching the backend's JSON.
*/
package backend

import "strings"

// # Profile

// Profile is the authenticated user record returned by GET /auth/profile.
//
// Field names mirror the backend's JSON. Free-form profile fields beyond
// these are not semantically constrained by the gateway.
type Profile struct {
	ID         string `json:"_id,omitempty"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	Photo      string `json:"photo,omitempty"`
	IsVerified bool   `json:"isVerified"`
	Address    string `json:"address,omitempty"`
	District   string `json:"district,omitempty"`
	Department string `json:"department,omitempty"`
}

// FullName joins the name parts for display headers.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PhotoURL resolves the relative photo path against the uploads base URL.
// It returns "" when no photo is set and passes absolute URLs through.
func (p *Profile) PhotoURL(uploadsBase string) string {
	if p.Photo == "" {
		return ""
	}
	if strings.HasPrefix(p.Photo, "http://") || strings.HasPrefix(p.Photo, "https://") {
		return p.Photo
	}
	return strings.TrimRight(uploadsBase, "/") + "/" + strings.TrimLeft(p.Photo, "/")
}

// # Auth Payloads

// LoginInput carries the credentials for POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput carries the registration payload, forwarded verbatim.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Address   string `json:"address,omitempty"`
	District  string `json:"district,omitempty"`
}

// # Complaints

// Complaint is a grievance record as served by the backend.
type Complaint struct {
	ID          string `json:"_id"`
	Reference   string `json:"reference,omitempty"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category"`
	District    string `json:"district"`
	Status      string `json:"status"`
	CreatedBy   string `json:"createdBy,omitempty"`
	AssignedTo  string `json:"assignedTo,omitempty"`
	Remark      string `json:"remark,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// ComplaintInput is the submission payload for POST /complaints.
//
// ClientReference is generated by the gateway so a retried submission can be
// recognized by the backend.
type ComplaintInput struct {
	Subject         string `json:"subject"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	District        string `json:"district"`
	Phone           string `json:"phone"`
	ClientReference string `json:"clientReference"`
}

// StatusUpdateInput moves a complaint through its workflow.
type StatusUpdateInput struct {
	Status string `json:"status"`
	Remark string `json:"remark,omitempty"`
}

// ComplaintPage is one page of a complaint listing.
type ComplaintPage struct {
	Complaints []Complaint `json:"complaints"`
	Total      int         `json:"total"`
}

// # Statistics

// StatsSummary is the aggregate counter block for dashboard headers.
type StatsSummary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Rejected   int `json:"rejected"`
}

// # Wire Envelopes

// loginResponse is the body of a successful POST /auth/login.
type loginResponse struct {
	Token string `json:"token"`
}

// errorResponse is the backend's error body. Older deployments use "error",
// newer ones "message"; accept either.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
