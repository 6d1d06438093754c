// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements customer accounts and cookie-bound sessions.

It defines the account entities stored across person, contact_info and
login_info, the signup and login rules, and the HTTP endpoints that issue and
clear the session cookie.

# Architecture

This layer owns account identity only. Authorization of every other route is
decided by the role gates in [sec] from the identity carried by the cookie.
*/
package auth

import (
	"errors"

	"github.com/taibuivan/repairment/internal/platform/sec"
)

// # Domain Entities

// Account is the login record of a person.
type Account struct {
	PersonID     int64    `db:"person_id"`
	Username     string   `db:"username"`
	PasswordHash string   `db:"password"`
	Role         sec.Role `db:"role_id"`
}

// NewAccount is everything persisted when a customer signs up.
type NewAccount struct {
	Firstname      string
	Lastname       string
	PersonalNumber string
	Email          string
	MobileNumber   string
	Username       string
	PasswordHash   string
	Role           sec.Role
}

// ErrAccountNotFound is returned when no login record matches a username.
var ErrAccountNotFound = errors.New("auth: account not found")

// # Field Identifiers

// Field names for validation and JSON payloads in the account domain.
const (
	FieldFirstname      = "firstname"
	FieldLastname       = "lastname"
	FieldPersonalNumber = "personalNumber"
	FieldEmail          = "email"
	FieldMobileNumber   = "mobileNumber"
	FieldUsername       = "username"
	FieldPassword       = "password"
)

// Length limits of the account columns.
const (
	maxNameLength     = 64
	maxEmailLength    = 254
	maxUsernameLength = 32
	minUsernameLength = 3
	minPasswordLength = 6
	maxPasswordLength = 128
)
