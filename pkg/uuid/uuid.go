// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

// Package uuid provides time-ordered unique identifiers for the gateway.
//
// It wraps the standard UUID library to specifically generate Version 7
// values, which sort naturally by creation time. The gateway uses them for
// request correlation IDs and client-side complaint references.
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	return id.String()
}
