// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/repairment/internal/platform/apperr"
	"github.com/taibuivan/repairment/internal/platform/middleware"
	requestutil "github.com/taibuivan/repairment/internal/platform/request"
	"github.com/taibuivan/repairment/internal/platform/respond"
	"github.com/taibuivan/repairment/internal/platform/sec"
	"github.com/taibuivan/repairment/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the account HTTP endpoints.
//
// Every successful response carries the identity and a freshly issued
// session cookie; every login failure clears the cookie.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with account routes.
//
// # Endpoints
//   - POST /login   : Verifies credentials and sets the session cookie.
//   - POST /signup  : Creates a customer account and sets the session cookie.
//   - GET  /session : Returns the cookie's identity and refreshes its expiry.
//   - POST /logout  : Clears the session cookie.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/signup", handler.signup)
	router.Post("/logout", handler.logout)
	router.With(middleware.RequireGate(sec.GateSession)).Get("/session", handler.session)

	return router
}

// # Request Payloads

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupRequest struct {
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	PersonalNumber string `json:"personalNumber"`
	Email          string `json:"email"`
	MobileNumber   string `json:"mobileNumber"`
	Username       string `json:"username"`
	Password       string `json:"password"`
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/user/login

Response:
  - 200: Identity {username, role, status}
  - 400: Validation failure
  - 401: Wrong username or password (cookie cleared)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusUnauthorized {
			middleware.ClearAuthCookie(writer)
		}
		respond.Error(writer, request, err)
		return
	}

	middleware.SetAuthCookie(writer, session.Token, session.TTL)
	respond.OK(writer, session.Identity)
}

/*
Signup creates a customer account.

POST /api/v1/user/signup

Response:
  - 200: Identity {username, role: User, status: OK}
  - 400: Validation failure or EMAIL/USERNAME/PERSONAL_NUMBER already in use
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFirstname, input.Firstname).
		Alpha(FieldFirstname, input.Firstname).
		MaxLen(FieldFirstname, input.Firstname, maxNameLength).
		Required(FieldLastname, input.Lastname).
		Alpha(FieldLastname, input.Lastname).
		MaxLen(FieldLastname, input.Lastname, maxNameLength).
		PersonalNumber(FieldPersonalNumber, input.PersonalNumber).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, maxEmailLength).
		Phone(FieldMobileNumber, input.MobileNumber).
		Username(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, minUsernameLength).
		MaxLen(FieldUsername, input.Username, maxUsernameLength).
		MinLen(FieldPassword, input.Password, minPasswordLength).
		MaxLen(FieldPassword, input.Password, maxPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Signup(request.Context(), SignupInput{
		Firstname:      input.Firstname,
		Lastname:       input.Lastname,
		PersonalNumber: input.PersonalNumber,
		Email:          input.Email,
		MobileNumber:   input.MobileNumber,
		Username:       input.Username,
		Password:       input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	middleware.SetAuthCookie(writer, session.Token, session.TTL)
	respond.OK(writer, session.Identity)
}

/*
Session returns the identity of the current cookie and slides its expiry.

GET /api/v1/user/session

Response:
  - 200: Identity
  - 401: Missing or invalid cookie
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Refresh(*identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	middleware.SetAuthCookie(writer, session.Token, session.TTL)
	respond.OK(writer, session.Identity)
}

/*
Logout clears the session cookie. Tokens are stateless, so nothing is revoked server-side.

POST /api/v1/user/logout

Response:
  - 204: No Content
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	middleware.ClearAuthCookie(writer)
	respond.NoContent(writer)
}
