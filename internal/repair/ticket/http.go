// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ticket

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/repairment/internal/platform/apperr"
	"github.com/taibuivan/repairment/internal/platform/middleware"
	requestutil "github.com/taibuivan/repairment/internal/platform/request"
	"github.com/taibuivan/repairment/internal/platform/respond"
	"github.com/taibuivan/repairment/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements the ticket HTTP endpoints.
type Handler struct {
	ticketService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{ticketService: service}
}

// Routes returns a [chi.Router] configured with ticket routes.
//
// # Endpoints
//   - GET  /                : Staff triage list, filtered by query parameters.
//   - POST /                : Customer registration.
//   - GET  /mine            : The caller's own tickets.
//   - GET  /{id}            : Ticket details.
//   - PUT  /{id}/price      : Worker price suggestion.
//   - PUT  /{id}/approval   : Customer answer to the price.
//   - PUT  /{id}/status     : Staff status change.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequireGate(sec.GateStaff)).Get("/", handler.search)
	router.With(middleware.RequireGate(sec.GateUser)).Post("/", handler.register)
	router.With(middleware.RequireGate(sec.GateUser)).Get("/mine", handler.mine)

	router.Route("/{id}", func(router chi.Router) {
		router.With(middleware.RequireGate(sec.GateMember)).Get("/", handler.details)
		router.With(middleware.RequireGate(sec.GateWorker)).Put("/price", handler.suggestPrice)
		router.With(middleware.RequireGate(sec.GateUser)).Put("/approval", handler.approve)
		router.With(middleware.RequireGate(sec.GateStaff)).Put("/status", handler.changeStatus)
	})

	return router
}

// StatusRoutes returns a [chi.Router] serving the reparation status list.
func (handler *Handler) StatusRoutes() chi.Router {
	router := chi.NewRouter()
	router.With(middleware.RequireGate(sec.GateStaff)).Get("/", handler.statuses)
	return router
}

// # Request Payloads

type registerRequest struct {
	CategoryID         int64  `json:"categoryId"`
	ProblemDescription string `json:"problemDescription"`
}

type priceRequest struct {
	SuggestedPrice float64 `json:"suggestedPrice"`
}

type approvalRequest struct {
	Approved *bool `json:"approved"`
}

type statusRequest struct {
	ReparationStatusID *int64 `json:"reparationStatusId"`
}

// registrationErrorCodes maps failed outcomes onto API error codes.
var registrationErrorCodes = map[RegistrationCode]string{
	RegistrationInvalidUsername:    "INVALID_USERNAME",
	RegistrationInvalidRole:        "INVALID_ROLE",
	RegistrationInvalidCategoryID:  "INVALID_CATEGORY_ID",
	RegistrationAlreadyExistTicket: "ALREADY_EXIST_APPLICATION",
}

/*
Search returns the staff triage list.

GET /api/v1/service/applications?applicationId=&categoryId=&firstname=&lastname=
&dateOfRegistrationFrom=&dateOfRegistrationTo=&suggestedPriceFrom=&suggestedPriceTo=&reparationStatusId=

Response:
  - 200: []ListItem (empty when nothing matches or a value cannot be parsed)
  - 503: Database unreachable
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.ticketService.Search(request.Context(), RawFilterFromQuery(request.URL.Query()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}

/*
Register files a ticket for the caller.

POST /api/v1/service/applications

Response:
  - 200: Registration {applicationId, errorCode: 0}
  - 400: Business rule failure, Registration carried in data
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	registration, err := handler.ticketService.Register(request.Context(), requestutil.Identity(request), input.CategoryID, input.ProblemDescription)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if registration.ErrorCode != RegistrationOK {
		code := registrationErrorCodes[registration.ErrorCode]
		respond.Error(writer, request, apperr.BusinessRule(code, "Application was not registered: "+registration.ErrorCode.String(), registration))
		return
	}

	respond.OK(writer, registration)
}

/*
Mine lists the caller's own tickets.

GET /api/v1/service/applications/mine
*/
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := handler.ticketService.Mine(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}

/*
Details returns one ticket.

GET /api/v1/service/applications/{id}

Response:
  - 200: Details
  - 404: Unknown id, or another customer's ticket
*/
func (handler *Handler) details(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	details, err := handler.ticketService.Details(request.Context(), identity, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, details)
}

/*
Statuses lists the reparation statuses.

GET /api/v1/service/statuses
*/
func (handler *Handler) statuses(writer http.ResponseWriter, request *http.Request) {
	statuses, err := handler.ticketService.Statuses(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, statuses)
}

/*
SuggestPrice stores the worker's price.

PUT /api/v1/service/applications/{id}/price

Response:
  - 204: No Content
  - 400: Negative price
  - 404: Unknown id
*/
func (handler *Handler) suggestPrice(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input priceRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.ticketService.SuggestPrice(request.Context(), id, input.SuggestedPrice); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
Approve stores the customer's answer to the suggested price.

PUT /api/v1/service/applications/{id}/approval
*/
func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input approvalRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Approved == nil {
		respond.Error(writer, request, apperr.ValidationError("Validation failed", apperr.FieldError{Field: FieldApproved, Message: "This field is required"}))
		return
	}

	if err := handler.ticketService.Approve(request.Context(), identity, id, *input.Approved); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
ChangeStatus moves the ticket to another reparation status.

PUT /api/v1/service/applications/{id}/status
*/
func (handler *Handler) changeStatus(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.ReparationStatusID == nil {
		respond.Error(writer, request, apperr.ValidationError("Validation failed", apperr.FieldError{Field: FieldStatusID, Message: "This field is required"}))
		return
	}

	if err := handler.ticketService.ChangeStatus(request.Context(), id, *input.ReparationStatusID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
