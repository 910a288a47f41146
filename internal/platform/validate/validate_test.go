// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjdportal/darbar/internal/platform/apperr"
	"github.com/sjdportal/darbar/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "subject", "Street light broken", false},
		{"empty_string", "subject", "", true},
		{"whitespace_only", "subject", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "citizen@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "citizen@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Phone checks the Indian mobile number rule, including the
optional +91 and leading-zero prefixes.
*/
func TestValidator_Phone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		isValid bool
	}{
		{"bare_ten_digits", "9876543210", true},
		{"with_country_code", "+919876543210", true},
		{"with_leading_zero", "09876543210", true},
		{"with_spaces", "98765 43210", true},
		{"starts_below_six", "5876543210", false},
		{"too_short", "987654321", false},
		{"alphabetic", "98765abcde", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Phone("phone", tt.phone)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_OneOf checks the allowed-set rule used for workflow statuses.
*/
func TestValidator_OneOf(t *testing.T) {
	statuses := []string{"pending", "inProgress", "resolved", "rejected"}

	v := &validate.Validator{}
	v.OneOf("status", "resolved", statuses...)
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.OneOf("status", "closed", statuses...)
	assert.True(t, v.HasErrors())
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("subject", "Water supply disruption").
		MinLen("subject", "Water supply disruption", 3).
		MaxLen("subject", "Water supply disruption", 200).
		Email("email", "citizen@sjdportal.in").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("subject", "").        // Fails
		MinLen("password", "a", 8).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
