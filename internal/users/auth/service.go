// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/repairment/internal/platform/apperr"
	"github.com/taibuivan/repairment/internal/platform/sec"
)

// # Contracts & Types

// TokenIssuer signs session tokens for verified identities.
type TokenIssuer interface {
	Issue(identity sec.Identity) (string, error)
	TTL() time.Duration
}

// Session is an identity together with the signed token carrying it.
type Session struct {
	Identity sec.Identity
	Token    string
	TTL      time.Duration
}

// Service implements the account use cases.
type Service struct {
	accountRepository AccountRepository
	tokenIssuer       TokenIssuer
	globalSalt        string
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(accounts AccountRepository, tokens TokenIssuer, globalSalt string) *Service {
	return &Service{
		accountRepository: accounts,
		tokenIssuer:       tokens,
		globalSalt:        globalSalt,
	}
}

// Machine-readable codes of rejected signups.
var signupErrorCodes = map[sec.StatusCode]string{
	sec.StatusEmailAlreadyInUse:          "EMAIL_ALREADY_IN_USE",
	sec.StatusUsernameAlreadyInUse:       "USERNAME_ALREADY_IN_USE",
	sec.StatusPersonalNumberAlreadyInUse: "PERSONAL_NUMBER_ALREADY_IN_USE",
}

// # Authentication Flow

/*
Login verifies credentials and issues a session.

Description: Unknown usernames and wrong passwords are indistinguishable; both
return 401 carrying an identity with RoleInvalid and StatusLoginFailure.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - *Session: Identity and signed token
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, username, password string) (*Session, error) {
	account, err := service.accountRepository.FindByUsername(context, username)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	// Hash even for unknown accounts so both paths take the same time
	if account == nil {
		_ = sec.HashPassword(service.globalSalt, username, password)
		return nil, loginFailure(username)
	}

	if !sec.CheckPassword(service.globalSalt, account.Username, password, account.PasswordHash) {
		return nil, loginFailure(username)
	}

	return service.issue(sec.Identity{Username: account.Username, Role: account.Role, Status: sec.StatusOK})
}

// SignupInput holds the data required to enroll a new customer.
type SignupInput struct {
	Firstname      string
	Lastname       string
	PersonalNumber string
	Email          string
	MobileNumber   string
	Username       string
	Password       string
}

/*
Signup creates a customer account and signs it in.

Description: Every signup gets the User role. Email, username and personal
number are checked for uniqueness in that order; the first conflict is
returned as a 400 carrying the identity with the matching status.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *Session: Identity and signed token
  - err: Business-rule rejection or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*Session, error) {
	account := NewAccount{
		Firstname:      norm.NFC.String(strings.TrimSpace(input.Firstname)),
		Lastname:       norm.NFC.String(strings.TrimSpace(input.Lastname)),
		PersonalNumber: input.PersonalNumber,
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		MobileNumber:   strings.TrimSpace(input.MobileNumber),
		Username:       input.Username,
		PasswordHash:   sec.HashPassword(service.globalSalt, input.Username, input.Password),
		Role:           sec.RoleUser,
	}

	status, err := service.accountRepository.Create(context, account)
	if err != nil {
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	if status != sec.StatusOK {
		return nil, apperr.BusinessRule(signupErrorCodes[status], "Signup rejected: "+status.String(), sec.Identity{
			Username: input.Username,
			Role:     sec.RoleInvalid,
			Status:   status,
		})
	}

	return service.issue(sec.Identity{Username: account.Username, Role: account.Role, Status: sec.StatusOK})
}

/*
Refresh re-issues a session for an identity that already holds a valid token.

Parameters:
  - identity: sec.Identity

Returns:
  - *Session: Same identity with a new expiry
  - err: Signing failures
*/
func (service *Service) Refresh(identity sec.Identity) (*Session, error) {
	return service.issue(identity)
}

func (service *Service) issue(identity sec.Identity) (*Session, error) {
	token, err := service.tokenIssuer.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_token_failed: %w", err)
	}
	return &Session{Identity: identity, Token: token, TTL: service.tokenIssuer.TTL()}, nil
}

func loginFailure(username string) *apperr.AppError {
	appError := apperr.Unauthorized("Invalid username or password")
	appError.Data = sec.Identity{Username: username, Role: sec.RoleInvalid, Status: sec.StatusLoginFailure}
	return appError
}
