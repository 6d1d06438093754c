// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// StatusCode is the outcome of an account operation (login, signup) that is
// carried next to the identity it produced.
type StatusCode int

const (
	StatusOK                         StatusCode = 0
	StatusLoginFailure               StatusCode = 1
	StatusEmailAlreadyInUse          StatusCode = 2
	StatusUsernameAlreadyInUse       StatusCode = 3
	StatusPersonalNumberAlreadyInUse StatusCode = 4
	StatusInvalidUsername            StatusCode = 5
)

// String returns the machine-readable name of the status.
func (s StatusCode) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusLoginFailure:
		return "LoginFailure"
	case StatusEmailAlreadyInUse:
		return "EmailAlreadyInUse"
	case StatusUsernameAlreadyInUse:
		return "UsernameAlreadyInUse"
	case StatusPersonalNumberAlreadyInUse:
		return "PersonalNumberAlreadyInUse"
	case StatusInvalidUsername:
		return "InvalidUsername"
	default:
		return "Unknown"
	}
}

// Identity is the authenticated account decoded from a session token.
//
// It is rebuilt on every request and never mutated.
type Identity struct {
	Username string     `json:"username"`
	Role     Role       `json:"role"`
	Status   StatusCode `json:"status"`
}
