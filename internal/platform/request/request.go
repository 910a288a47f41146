// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sjdportal/darbar/internal/platform/apperr"
	"github.com/sjdportal/darbar/internal/platform/ctxutil"
	"github.com/sjdportal/darbar/internal/platform/sec"
	"github.com/sjdportal/darbar/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Identity extracts the verified session cookie claims from the request context.

Returns nil if the request carries no valid binding.
*/
func Identity(request *http.Request) *sec.Claims {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request carries a verified browser binding.

Returns:
  - *sec.Claims: The verified claims
  - error: apperr.Unauthorized if the binding is absent
*/
func RequiredIdentity(request *http.Request) (*sec.Claims, error) {
	claims := ctxutil.GetIdentity(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}
