// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role represents the authorization level granted to an account.
//
// The integers are persisted in the person.role_id column and shared with
// existing clients. Never renumber them.
type Role int

const (
	// Not a role at all: failed logins and rejected signups carry it.
	RoleInvalid Role = 0

	// Manages categories and every ticket
	RoleAdministrator Role = 1

	// Prices and triages customer tickets
	RoleWorker Role = 2

	// Default role for customers who sign up
	RoleUser Role = 3
)

// String returns the role name used in logs.
func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleWorker:
		return "worker"
	case RoleUser:
		return "user"
	default:
		return "invalid"
	}
}

// # Role Gates

// Gate is a fixed set of acceptable roles.
//
// A nil identity never passes. The session gate additionally admits any
// verified identity, whatever its role.
type Gate struct {
	name       string
	roles      []Role
	anyRoleSet bool
}

var (
	// GateUser admits customers only.
	GateUser = Gate{name: "user", roles: []Role{RoleUser}}

	// GateWorker admits workers only.
	GateWorker = Gate{name: "worker", roles: []Role{RoleWorker}}

	// GateAdministrator admits administrators only.
	GateAdministrator = Gate{name: "administrator", roles: []Role{RoleAdministrator}}

	// GateStaff admits workers and administrators.
	GateStaff = Gate{name: "staff", roles: []Role{RoleWorker, RoleAdministrator}}

	// GateMember admits any authenticated account.
	GateMember = Gate{name: "member", roles: []Role{RoleUser, RoleWorker, RoleAdministrator}}

	// GateSession admits any valid session cookie regardless of role.
	GateSession = Gate{name: "session", anyRoleSet: true}
)

// Name identifies the gate in logs and metrics.
func (g Gate) Name() string {
	return g.name
}

// Allows reports whether role is a member of the gate's set.
func (g Gate) Allows(role Role) bool {
	if g.anyRoleSet {
		return true
	}
	for _, allowed := range g.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Admit returns identity when its role passes the gate and nil otherwise.
// An absent identity and a wrong role are indistinguishable to the caller.
func (g Gate) Admit(identity *Identity) *Identity {
	if identity == nil || !g.Allows(identity.Role) {
		return nil
	}
	return identity
}
