// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ticket implements repair applications ("tickets"): registration by
customers, the filtered triage list for staff, and the pricing and status
workflow that follows.

# Architecture

  - Filter: [RawFilter] is what arrives on the wire, [Filter] holds explicit
    optionals. Only [Filter.Params] knows the database sentinels.
  - Query engine: one parameterized statement whose predicates switch
    themselves off when their parameter is the sentinel.
  - Registration: role, owner, category and duplicate checks in a fixed
    order, first failure wins, all inside one transaction.
*/
package ticket

import (
	"database/sql"
	"encoding/json"
)

// # Registration Codes

// RegistrationCode is the business outcome of a registration attempt.
//
// The integers are part of the public API; clients switch on them.
type RegistrationCode int

const (
	RegistrationOK                 RegistrationCode = 0
	RegistrationInvalidUsername    RegistrationCode = 1
	RegistrationInvalidRole        RegistrationCode = 2
	RegistrationInvalidCategoryID  RegistrationCode = 3
	RegistrationAlreadyExistTicket RegistrationCode = 4
)

// String returns the machine-readable name of the code.
func (c RegistrationCode) String() string {
	switch c {
	case RegistrationOK:
		return "OK"
	case RegistrationInvalidUsername:
		return "InvalidUsername"
	case RegistrationInvalidRole:
		return "InvalidRole"
	case RegistrationInvalidCategoryID:
		return "InvalidCategoryId"
	case RegistrationAlreadyExistTicket:
		return "AlreadyExistApplication"
	default:
		return "Unknown"
	}
}

// Registration is the result of [Service.Register]. ApplicationID is the new
// ticket on success, the existing ticket for a duplicate, and 0 otherwise.
type Registration struct {
	ApplicationID int64            `json:"applicationId"`
	ErrorCode     RegistrationCode `json:"errorCode"`
}

// NewTicket is what a customer submits.
type NewTicket struct {
	OwnerUsername      string
	CategoryID         int64
	ProblemDescription string
}

// # Projections

// ListItem is one row of the staff triage list. Price and status are only
// filtered on, never displayed here.
type ListItem struct {
	ApplicationID      int64  `db:"application_id"       json:"applicationId"`
	Firstname          string `db:"first_name"           json:"firstName"`
	Lastname           string `db:"last_name"            json:"lastName"`
	DateOfRegistration string `db:"date_of_registration" json:"dateOfRegistration"`
	TimeOfRegistration string `db:"time_of_registration" json:"timeOfRegistration"`
}

// PersonalItem is one row of a customer's own ticket list.
type PersonalItem struct {
	ApplicationID       int64  `db:"application_id"       json:"applicationId"`
	CategoryID          int64  `db:"category_id"          json:"categoryId"`
	CategoryDescription string `db:"category_description" json:"categoryDescription"`
	DateOfRegistration  string `db:"date_of_registration" json:"dateOfRegistration"`
	TimeOfRegistration  string `db:"time_of_registration" json:"timeOfRegistration"`
}

// Details is the full view of one ticket.
type Details struct {
	ApplicationID               int64    `db:"application_id"                json:"applicationId"`
	OwnerUsername               string   `db:"owner_username"                json:"-"`
	Firstname                   string   `db:"first_name"                    json:"firstname"`
	Lastname                    string   `db:"last_name"                     json:"lastname"`
	CategoryDescription         string   `db:"category_description"          json:"categoryDescription"`
	CategoryID                  int64    `db:"category_id"                   json:"categoryId"`
	ProblemDescription          string   `db:"problem_description"           json:"problemDescription"`
	DateOfRegistration          string   `db:"date_of_registration"          json:"dateOfRegistration"`
	TimeOfRegistration          string   `db:"time_of_registration"          json:"timeOfRegistration"`
	SuggestedPriceByWorker      float64  `db:"suggested_price"               json:"suggestedPriceByWorker"`
	PriceApprovalByUser         Approval `db:"price_approval"                json:"priceApprovalByUser"`
	ReparationStatusID          int64    `db:"reparation_status_id"          json:"reparationStatusId"`
	ReparationStatusDescription string   `db:"reparation_status_description" json:"reparationStatusDescription"`
}

// Status is one entry of the reparation_status table.
type Status struct {
	ID          int64  `db:"id"          json:"reparationStatusId"`
	Description string `db:"description" json:"reparationStatusDescription"`
}

// # Value Types

// undefined is how the API renders a value nobody has set yet.
const undefined = "Undefined"

// Approval is the customer's answer to the suggested price. NULL means the
// customer has not answered.
type Approval struct {
	sql.NullBool
}

// MarshalJSON renders an unanswered approval as "Undefined".
func (a Approval) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return json.Marshal(undefined)
	}
	return json.Marshal(a.Bool)
}
