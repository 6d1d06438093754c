// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/repairment/internal/platform/apperr"
	"github.com/taibuivan/repairment/internal/platform/validate"
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
		{"valid_string", "name", "Dragana", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
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
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
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
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("username", "tai").
		MinLen("username", "tai", 3).
		MaxLen("username", "tai", 10).
		Email("email", "tai@repairment.rs").
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
		Required("username", "").       // Fails
		MinLen("username", "a", 5).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_Formats covers the account and ticket field rules.
*/
func TestValidator_Formats(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(v *validate.Validator)
		isValid bool
	}{
		{"personal_number_ok", func(v *validate.Validator) { v.PersonalNumber("personalNumber", "19900101-0017") }, true},
		{"personal_number_checksum", func(v *validate.Validator) { v.PersonalNumber("personalNumber", "19900101-0018") }, false},
		{"personal_number_date", func(v *validate.Validator) { v.PersonalNumber("personalNumber", "19901301-0017") }, false},
		{"personal_number_layout", func(v *validate.Validator) { v.PersonalNumber("personalNumber", "199001010017") }, false},
		{"alpha_ok", func(v *validate.Validator) { v.Alpha("firstname", "Åsa") }, true},
		{"alpha_apostrophe", func(v *validate.Validator) { v.Alpha("lastname", "O'Neil") }, true},
		{"alpha_digit", func(v *validate.Validator) { v.Alpha("firstname", "Ana1") }, false},
		{"phone_ok", func(v *validate.Validator) { v.Phone("mobileNumber", "+381 64 123-4567") }, true},
		{"phone_letters", func(v *validate.Validator) { v.Phone("mobileNumber", "call me") }, false},
		{"username_ok", func(v *validate.Validator) { v.Username("username", "User1111") }, true},
		{"username_space", func(v *validate.Validator) { v.Username("username", "User 1111") }, false},
		{"positive_ok", func(v *validate.Validator) { v.Positive("categoryId", 1) }, true},
		{"positive_zero", func(v *validate.Validator) { v.Positive("categoryId", 0) }, false},
		{"positive_amount_below", func(v *validate.Validator) { v.PositiveAmount("price", -0.5) }, false},
		{"positive_amount", func(v *validate.Validator) { v.PositiveAmount("price", 0.5) }, true},
		{"positive_amount_zero", func(v *validate.Validator) { v.PositiveAmount("price", 0) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			tt.apply(v)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}
