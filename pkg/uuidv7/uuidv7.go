// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 generates time-ordered identifiers for request correlation.
//
// Time ordering keeps log lines of one request close to each other when a
// log store sorts by id.
package uuidv7

import "github.com/google/uuid"

// New returns a UUIDv7 string. If the clock-based generator fails it falls
// back to a random UUIDv4, so callers always get an id.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// IsValid reports whether s parses as any UUID.
func IsValid(s string) bool {
	return uuid.Validate(s) == nil
}
