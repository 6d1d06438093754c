// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ticket

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/taibuivan/repairment/internal/platform/apperr"
	"github.com/taibuivan/repairment/internal/platform/ctxutil"
	"github.com/taibuivan/repairment/internal/platform/sec"
	"github.com/taibuivan/repairment/internal/platform/validate"
)

// Field names for validation and JSON payloads in the ticket domain.
const (
	FieldCategoryID         = "categoryId"
	FieldProblemDescription = "problemDescription"
	FieldSuggestedPrice     = "suggestedPrice"
	FieldApproved           = "approved"
	FieldStatusID           = "reparationStatusId"
)

const maxDescriptionLength = 2000

// Service implements the ticket use cases.
type Service struct {
	repository Repository
	sanitizer  *bluemonday.Policy
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{
		repository: repository,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// # Triage

/*
Search normalizes raw and runs the triage statement.

Description: Normalization never fails. A filter with unparseable values
still reaches the statement, whose guard makes it match nothing.

Parameters:
  - context: context.Context
  - raw: RawFilter

Returns:
  - []ListItem: Matching tickets, newest first
  - err: Infrastructure failures
*/
func (service *Service) Search(context context.Context, raw RawFilter) ([]ListItem, error) {
	filter := Normalize(raw)

	if filter.Unsatisfiable() {
		ctxutil.GetLogger(context).DebugContext(context, "ticket_filter_unsatisfiable",
			slog.Any("rejected", filter.Rejected),
		)
	}

	items, err := service.repository.Search(context, filter)
	if err != nil {
		return nil, fmt.Errorf("ticket_service_search_failed: %w", err)
	}
	return items, nil
}

// # Registration

/*
Register files a new ticket for identity.

Description: Rules are checked in a fixed order and the first failure wins:
role (no query issued), owner, category, duplicate. Failures are returned as
values, never as errors.

Parameters:
  - context: context.Context
  - identity: *sec.Identity (may be nil)
  - categoryID: int64
  - problemDescription: string

Returns:
  - Registration: Outcome code and ticket id
  - err: Validation or infrastructure failures
*/
func (service *Service) Register(context context.Context, identity *sec.Identity, categoryID int64, problemDescription string) (Registration, error) {
	if identity == nil || identity.Role != sec.RoleUser {
		return Registration{ErrorCode: RegistrationInvalidRole}, nil
	}

	description := service.sanitize(problemDescription)

	validator := &validate.Validator{}
	validator.Positive(FieldCategoryID, categoryID).
		Required(FieldProblemDescription, description).
		MaxLen(FieldProblemDescription, description, maxDescriptionLength)

	if err := validator.Err(); err != nil {
		return Registration{}, err
	}

	registration, err := service.repository.Register(context, NewTicket{
		OwnerUsername:      identity.Username,
		CategoryID:         categoryID,
		ProblemDescription: description,
	})
	if err != nil {
		return Registration{}, fmt.Errorf("ticket_service_register_failed: %w", err)
	}

	return registration, nil
}

// maxSanitizePasses bounds the strip/unescape loop in sanitize.
const maxSanitizePasses = 8

// sanitize strips markup and surrounding whitespace from free text.
//
// Unescaping can reveal markup that was sent entity-encoded, so stripping is
// repeated until the text is stable. Text that never settles is stored in
// its escaped form.
func (service *Service) sanitize(text string) string {
	current := text
	for range maxSanitizePasses {
		stripped := service.sanitizer.Sanitize(current)
		next := html.UnescapeString(stripped)
		if next == current {
			return strings.TrimSpace(next)
		}
		current = next
	}
	return strings.TrimSpace(service.sanitizer.Sanitize(current))
}

// # Views

/*
Mine returns the tickets filed by identity.
*/
func (service *Service) Mine(context context.Context, identity *sec.Identity) ([]PersonalItem, error) {
	items, err := service.repository.ListByOwner(context, identity.Username)
	if err != nil {
		return nil, fmt.Errorf("ticket_service_list_mine_failed: %w", err)
	}
	return items, nil
}

/*
Details returns one ticket. Customers only see their own tickets; anybody
else's ticket is reported as not found.

Returns:
  - *Details: Hydrated projection
  - err: NotFound or infrastructure failures
*/
func (service *Service) Details(context context.Context, identity *sec.Identity, id int64) (*Details, error) {
	details, err := service.repository.FindByID(context, id)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return nil, apperr.NotFound("Application")
		}
		return nil, fmt.Errorf("ticket_service_details_failed: %w", err)
	}

	if identity.Role == sec.RoleUser && details.OwnerUsername != identity.Username {
		return nil, apperr.NotFound("Application")
	}

	return details, nil
}

/*
Statuses returns the reparation statuses.
*/
func (service *Service) Statuses(context context.Context) ([]Status, error) {
	statuses, err := service.repository.ListStatuses(context)
	if err != nil {
		return nil, fmt.Errorf("ticket_service_statuses_failed: %w", err)
	}
	return statuses, nil
}

// # Workflow

/*
SuggestPrice stores a worker's price. Any earlier approval is cleared.

A stored price of 0 means the ticket has not been priced yet, so the price
must be strictly positive.
*/
func (service *Service) SuggestPrice(context context.Context, id int64, price float64) error {
	validator := &validate.Validator{}
	if err := validator.PositiveAmount(FieldSuggestedPrice, price).Err(); err != nil {
		return err
	}

	if err := service.repository.SetSuggestedPrice(context, id, price); err != nil {
		return service.mapWriteError(err, "ticket_service_suggest_price_failed")
	}
	return nil
}

/*
Approve records the owner's answer to the suggested price.

Returns:
  - err: NotFound for foreign tickets, PRICE_NOT_SUGGESTED before a worker priced it
*/
func (service *Service) Approve(context context.Context, identity *sec.Identity, id int64, approved bool) error {
	details, err := service.Details(context, identity, id)
	if err != nil {
		return err
	}

	if details.SuggestedPriceByWorker <= 0 {
		return apperr.BusinessRule("PRICE_NOT_SUGGESTED", "No price has been suggested for this application yet", nil)
	}

	if err := service.repository.SetApproval(context, id, approved); err != nil {
		return service.mapWriteError(err, "ticket_service_approve_failed")
	}
	return nil
}

/*
ChangeStatus moves a ticket to another reparation status.
*/
func (service *Service) ChangeStatus(context context.Context, id int64, statusID int64) error {
	if err := service.repository.SetStatus(context, id, statusID); err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			return validate.RequiredError(FieldStatusID, "Unknown reparation status")
		}
		return service.mapWriteError(err, "ticket_service_change_status_failed")
	}
	return nil
}

func (service *Service) mapWriteError(err error, action string) error {
	if errors.Is(err, ErrTicketNotFound) {
		return apperr.NotFound("Application")
	}
	return fmt.Errorf("%s: %w", action, err)
}
