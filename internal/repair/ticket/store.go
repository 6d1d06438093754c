// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ticket

import (
	"context"
	"errors"
)

var (
	// ErrTicketNotFound is returned when no ticket has the requested id.
	ErrTicketNotFound = errors.New("ticket: not found")

	// ErrUnknownStatus is returned when a status id is not in reparation_status.
	ErrUnknownStatus = errors.New("ticket: unknown reparation status")
)

// # Ticket Data Access

// Repository defines the data access contract for tickets.
type Repository interface {

	/*
		Search runs the triage statement for filter, restricted to tickets
		owned by customers, newest first.

		Parameters:
		  - context: context.Context
		  - filter: Filter

		Returns:
		  - []ListItem: Matching projections (never nil)
		  - error: Database failures
	*/
	Search(context context.Context, filter Filter) ([]ListItem, error)

	/*
		Register resolves the owner and category, then inserts the ticket
		unless the same owner already filed the same description in the same
		category.

		Parameters:
		  - context: context.Context
		  - ticket: NewTicket

		Returns:
		  - Registration: New id, or the failing rule with the existing id for duplicates
		  - error: Database failures
	*/
	Register(context context.Context, ticket NewTicket) (Registration, error)

	/*
		ListByOwner returns the tickets filed by username, newest first.
	*/
	ListByOwner(context context.Context, username string) ([]PersonalItem, error)

	/*
		FindByID returns the full view of a ticket.

		Returns:
		  - *Details: Hydrated projection
		  - error: ErrTicketNotFound or database failures
	*/
	FindByID(context context.Context, id int64) (*Details, error)

	/*
		ListStatuses returns every reparation status ordered by id.
	*/
	ListStatuses(context context.Context) ([]Status, error)

	/*
		SetSuggestedPrice stores a worker's price and clears the customer's approval.

		Returns:
		  - error: ErrTicketNotFound or database failures
	*/
	SetSuggestedPrice(context context.Context, id int64, price float64) error

	/*
		SetApproval stores the customer's answer to the suggested price.

		Returns:
		  - error: ErrTicketNotFound or database failures
	*/
	SetApproval(context context.Context, id int64, approved bool) error

	/*
		SetStatus moves a ticket to another reparation status.

		Returns:
		  - error: ErrTicketNotFound, ErrUnknownStatus or database failures
	*/
	SetStatus(context context.Context, id int64, statusID int64) error
}
