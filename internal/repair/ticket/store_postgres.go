// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ticket

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/taibuivan/repairment/internal/platform/dberr"
	"github.com/taibuivan/repairment/internal/platform/sec"
)

// # Ticket Repository

// PostgresRepository implements [Repository] on top of sqlx.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Shared date and time projections of application.date_of_registration.
const (
	dateColumn = `to_char(application.date_of_registration, 'YYYY-MM-DD') AS date_of_registration`
	timeColumn = `to_char(application.date_of_registration, 'HH24:MI:SS') AS time_of_registration`
)

// searchQuery is the triage statement. Each predicate is switched off by its
// sentinel, so one plan serves every combination of active filters.
//
// $1..$9 follow [Params.Args]; $10 is the unsatisfiable guard; $11 the owner role.
var searchQuery = fmt.Sprintf(`
	SELECT application.id AS application_id,
	       person.first_name,
	       person.last_name,
	       %[1]s,
	       %[2]s
	FROM application
	INNER JOIN person ON person.id = application.person_id
	INNER JOIN category_relation ON category_relation.id = application.category_relation_id
	WHERE person.role_id = $11::int
	  AND NOT $10::boolean
	  AND ($1::bigint = %[3]d OR application.id = $1)
	  AND ($2::bigint = %[3]d OR category_relation.category_id = $2)
	  AND ($3::text = '%[4]s' OR person.first_name = $3)
	  AND ($4::text = '%[4]s' OR person.last_name = $4)
	  AND ($5::date = DATE '%[5]s' OR application.date_of_registration::date >= $5::date)
	  AND ($6::date = DATE '%[5]s' OR application.date_of_registration::date <= $6::date)
	  AND ($7::float8 = %[3]d OR application.suggested_price >= $7)
	  AND ($8::float8 = %[3]d OR application.suggested_price <= $8)
	  AND ($9::bigint = %[3]d OR application.reparation_status_id = $9)
	ORDER BY application.date_of_registration DESC, application.id DESC`,
	dateColumn, timeColumn, wildcardNumber, wildcardText, wildcardDate)

/*
Search executes the triage statement in a read-only transaction.

Parameters:
  - context: context.Context
  - filter: Filter

Returns:
  - []ListItem: Matching projections (never nil)
  - error: 503 when the database is unreachable, 500 otherwise
*/
func (repository *PostgresRepository) Search(context context.Context, filter Filter) ([]ListItem, error) {
	tx, err := repository.db.BeginTxx(context, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_ticket_repo_begin_failed")
	}
	defer func() { _ = tx.Rollback() }()

	args := append(filter.Params().Args(), int64(sec.RoleUser))

	items := []ListItem{}
	if err := tx.SelectContext(context, &items, searchQuery, args...); err != nil {
		return nil, dberr.Wrap(err, "postgres_ticket_repo_search_failed")
	}

	if err := tx.Commit(); err != nil {
		return nil, dberr.Wrap(err, "postgres_ticket_repo_commit_failed")
	}

	return items, nil
}

/*
Register runs the owner, category and duplicate checks and the insert in one transaction.

Description: Uniqueness of (person, category relation, description) is a
unique index over the description's md5. The insert skips conflicting rows,
so an insert that returns nothing is the duplicate signal even when two
submissions race.

Parameters:
  - context: context.Context
  - ticket: NewTicket

Returns:
  - Registration: Outcome code and ticket id
  - error: Database failures
*/
func (repository *PostgresRepository) Register(context context.Context, ticket NewTicket) (Registration, error) {
	const ownerQuery = `SELECT person_id FROM login_info WHERE username = $1`

	const categoryQuery = `
		SELECT id FROM category_relation
		WHERE category_id = $1
		ORDER BY id
		LIMIT 1`

	const insertQuery = `
		INSERT INTO application (date_of_registration, problem_description, category_relation_id, person_id)
		VALUES (NOW(), $1, $2, $3)
		ON CONFLICT (person_id, category_relation_id, md5(problem_description)) DO NOTHING
		RETURNING id`

	tx, err := repository.db.BeginTxx(context, nil)
	if err != nil {
		return Registration{}, dberr.Wrap(err, "postgres_ticket_repo_begin_failed")
	}
	defer func() { _ = tx.Rollback() }()

	// 1. Owner
	var personID int64
	if err := tx.GetContext(context, &personID, ownerQuery, ticket.OwnerUsername); err != nil {
		if dberr.IsNoRows(err) {
			return Registration{ErrorCode: RegistrationInvalidUsername}, nil
		}
		return Registration{}, dberr.Wrap(err, "postgres_ticket_repo_owner_failed")
	}

	// 2. Category
	var relationID int64
	if err := tx.GetContext(context, &relationID, categoryQuery, ticket.CategoryID); err != nil {
		if dberr.IsNoRows(err) {
			return Registration{ErrorCode: RegistrationInvalidCategoryID}, nil
		}
		return Registration{}, dberr.Wrap(err, "postgres_ticket_repo_category_failed")
	}

	// 3. Insert, or detect the duplicate
	var applicationID int64
	err = tx.GetContext(context, &applicationID, insertQuery, ticket.ProblemDescription, relationID, personID)
	switch {
	case err == nil:
	case dberr.IsNoRows(err):
		existingID, err := repository.findDuplicate(context, tx, personID, relationID, ticket.ProblemDescription)
		if err != nil {
			return Registration{}, err
		}
		return Registration{ApplicationID: existingID, ErrorCode: RegistrationAlreadyExistTicket}, nil
	case dberr.IsUniqueViolation(err):
		// The transaction is aborted; look the winner up on a fresh connection.
		_ = tx.Rollback()
		existingID, err := repository.findDuplicate(context, repository.db, personID, relationID, ticket.ProblemDescription)
		if err != nil {
			return Registration{}, err
		}
		return Registration{ApplicationID: existingID, ErrorCode: RegistrationAlreadyExistTicket}, nil
	default:
		return Registration{}, dberr.Wrap(err, "postgres_ticket_repo_insert_failed")
	}

	if err := tx.Commit(); err != nil {
		return Registration{}, dberr.Wrap(err, "postgres_ticket_repo_commit_failed")
	}

	return Registration{ApplicationID: applicationID, ErrorCode: RegistrationOK}, nil
}

func (repository *PostgresRepository) findDuplicate(context context.Context, queryer sqlx.QueryerContext, personID, relationID int64, description string) (int64, error) {
	const query = `
		SELECT id FROM application
		WHERE person_id = $1 AND category_relation_id = $2 AND md5(problem_description) = md5($3::text)`

	var id int64
	if err := sqlx.GetContext(context, queryer, &id, query, personID, relationID, description); err != nil {
		return 0, dberr.Wrap(err, "postgres_ticket_repo_duplicate_failed")
	}
	return id, nil
}

/*
ListByOwner returns the tickets filed by username, newest first.
*/
func (repository *PostgresRepository) ListByOwner(context context.Context, username string) ([]PersonalItem, error) {
	query := `
		SELECT application.id AS application_id,
		       category_relation.category_id,
		       category.description AS category_description,
		       ` + dateColumn + `,
		       ` + timeColumn + `
		FROM application
		INNER JOIN login_info ON login_info.person_id = application.person_id
		INNER JOIN category_relation ON category_relation.id = application.category_relation_id
		INNER JOIN category ON category.id = category_relation.category_id
		WHERE login_info.username = $1
		ORDER BY application.date_of_registration DESC, application.id DESC`

	items := []PersonalItem{}
	if err := repository.db.SelectContext(context, &items, query, username); err != nil {
		return nil, dberr.Wrap(err, "postgres_ticket_repo_list_by_owner_failed")
	}
	return items, nil
}

/*
FindByID returns the full view of one ticket, including its owner's username.
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Details, error) {
	query := `
		SELECT application.id AS application_id,
		       login_info.username AS owner_username,
		       person.first_name,
		       person.last_name,
		       category.description AS category_description,
		       category_relation.category_id,
		       application.problem_description,
		       ` + dateColumn + `,
		       ` + timeColumn + `,
		       application.suggested_price::float8 AS suggested_price,
		       application.price_approval,
		       application.reparation_status_id,
		       reparation_status.description AS reparation_status_description
		FROM application
		INNER JOIN person ON person.id = application.person_id
		INNER JOIN login_info ON login_info.person_id = person.id
		INNER JOIN category_relation ON category_relation.id = application.category_relation_id
		INNER JOIN category ON category.id = category_relation.category_id
		INNER JOIN reparation_status ON reparation_status.id = application.reparation_status_id
		WHERE application.id = $1`

	details := &Details{}
	if err := repository.db.GetContext(context, details, query, id); err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrTicketNotFound
		}
		return nil, dberr.Wrap(err, "postgres_ticket_repo_find_by_id_failed")
	}
	return details, nil
}

/*
ListStatuses returns every reparation status ordered by id.
*/
func (repository *PostgresRepository) ListStatuses(context context.Context) ([]Status, error) {
	const query = `SELECT id, description FROM reparation_status ORDER BY id`

	statuses := []Status{}
	if err := repository.db.SelectContext(context, &statuses, query); err != nil {
		return nil, dberr.Wrap(err, "postgres_ticket_repo_list_statuses_failed")
	}
	return statuses, nil
}

/*
SetSuggestedPrice stores the price and resets the approval to unanswered.
*/
func (repository *PostgresRepository) SetSuggestedPrice(context context.Context, id int64, price float64) error {
	const query = `
		UPDATE application
		SET suggested_price = $2, price_approval = NULL
		WHERE id = $1`

	return repository.execOne(context, "postgres_ticket_repo_set_price_failed", query, id, price)
}

/*
SetApproval stores the customer's answer.
*/
func (repository *PostgresRepository) SetApproval(context context.Context, id int64, approved bool) error {
	const query = `UPDATE application SET price_approval = $2 WHERE id = $1`

	return repository.execOne(context, "postgres_ticket_repo_set_approval_failed", query, id, approved)
}

/*
SetStatus moves the ticket to statusID.
*/
func (repository *PostgresRepository) SetStatus(context context.Context, id int64, statusID int64) error {
	const query = `UPDATE application SET reparation_status_id = $2 WHERE id = $1`

	err := repository.execOne(context, "postgres_ticket_repo_set_status_failed", query, id, statusID)
	if dberr.IsForeignKeyViolation(err) {
		return ErrUnknownStatus
	}
	return err
}

// execOne runs an update that must touch exactly one ticket.
func (repository *PostgresRepository) execOne(context context.Context, action, query string, args ...any) error {
	result, err := repository.db.ExecContext(context, query, args...)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return err
		}
		return dberr.Wrap(err, action)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if affected == 0 {
		return ErrTicketNotFound
	}
	return nil
}
