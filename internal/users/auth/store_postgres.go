// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/taibuivan/repairment/internal/platform/dberr"
	"github.com/taibuivan/repairment/internal/platform/sec"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] on top of sqlx.
type PostgresAccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(db *sqlx.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// Unique constraints that a concurrent signup can trip after the checks passed.
var signupConstraints = map[string]sec.StatusCode{
	"contact_info_email_key":     sec.StatusEmailAlreadyInUse,
	"login_info_username_key":    sec.StatusUsernameAlreadyInUse,
	"person_personal_number_key": sec.StatusPersonalNumberAlreadyInUse,
}

/*
FindByUsername retrieves the login record and role of username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *Account: Hydrated account entity
  - error: ErrAccountNotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*Account, error) {
	const query = `
		SELECT login_info.person_id, login_info.username, login_info.password, person.role_id
		FROM login_info
		INNER JOIN person ON person.id = login_info.person_id
		WHERE login_info.username = $1`

	account := &Account{}
	if err := repository.db.GetContext(context, account, query, username); err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrAccountNotFound
		}
		return nil, dberr.Wrap(err, "postgres_account_repo_find_by_username_failed")
	}

	return account, nil
}

/*
Create runs the signup checks and inserts person, contact_info and login_info
in one transaction.

Description: The three rows are written by a single CTE statement so that a
person never exists without its login record.

Parameters:
  - context: context.Context
  - account: NewAccount

Returns:
  - sec.StatusCode: StatusOK or the first uniqueness rule that failed
  - error: Database errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account NewAccount) (sec.StatusCode, error) {
	checks := []struct {
		query  string
		value  string
		status sec.StatusCode
	}{
		{`SELECT EXISTS (SELECT 1 FROM contact_info WHERE email = $1)`, account.Email, sec.StatusEmailAlreadyInUse},
		{`SELECT EXISTS (SELECT 1 FROM login_info WHERE username = $1)`, account.Username, sec.StatusUsernameAlreadyInUse},
		{`SELECT EXISTS (SELECT 1 FROM person WHERE personal_number = $1)`, account.PersonalNumber, sec.StatusPersonalNumberAlreadyInUse},
	}

	const insertQuery = `
		WITH new_person AS (
			INSERT INTO person (first_name, last_name, personal_number, role_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		), new_contact AS (
			INSERT INTO contact_info (email, mobile_number, person_id)
			SELECT $5, $6, id FROM new_person
		)
		INSERT INTO login_info (username, password, person_id)
		SELECT $7, $8, id FROM new_person`

	tx, err := repository.db.BeginTxx(context, nil)
	if err != nil {
		return sec.StatusOK, dberr.Wrap(err, "postgres_account_repo_begin_failed")
	}
	defer func() { _ = tx.Rollback() }()

	// 1. Uniqueness checks, first failure wins
	for _, check := range checks {
		var exists bool
		if err := tx.GetContext(context, &exists, check.query, check.value); err != nil {
			return sec.StatusOK, dberr.Wrap(err, "postgres_account_repo_signup_check_failed")
		}
		if exists {
			return check.status, nil
		}
	}

	// 2. Insert all three rows
	_, err = tx.ExecContext(context, insertQuery,
		account.Firstname,
		account.Lastname,
		account.PersonalNumber,
		int64(account.Role),
		account.Email,
		account.MobileNumber,
		account.Username,
		account.PasswordHash,
	)
	if err != nil {
		if status, found := signupConstraints[dberr.ConstraintName(err)]; found && dberr.IsUniqueViolation(err) {
			return status, nil
		}
		return sec.StatusOK, dberr.Wrap(err, "postgres_account_repo_signup_insert_failed")
	}

	if err := tx.Commit(); err != nil {
		return sec.StatusOK, dberr.Wrap(err, "postgres_account_repo_commit_failed")
	}

	return sec.StatusOK, nil
}
