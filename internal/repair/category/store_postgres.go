// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/repairment/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListRoots(context context.Context) ([]Category, error) {
	const query = `
		SELECT category_relation.id,
		       category.id,
		       category.description,
		       category_relation.parent_category_id
		FROM category_relation
		INNER JOIN category ON category.id = category_relation.category_id
		WHERE category_relation.parent_category_id = $1
		ORDER BY category.id`

	rows, err := repository.db.Query(context, query, RootParentID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_root_categories")
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.RelationID, &c.ID, &c.Description, &c.ParentID); err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_root_categories")
	}

	return categories, nil
}

/*
Create inserts the category and its relation to the parent in one transaction.

Returns:
  - *Category: The stored entry
  - error: ErrParentNotFound, Conflict for a duplicate description, or database failures
*/
func (repository *PostgresRepository) Create(context context.Context, category NewCategory) (*Category, error) {
	const parentQuery = `SELECT EXISTS (SELECT 1 FROM category WHERE id = $1)`
	const categoryQuery = `INSERT INTO category (description) VALUES ($1) RETURNING id`
	const relationQuery = `
		INSERT INTO category_relation (category_id, parent_category_id)
		VALUES ($1, $2)
		RETURNING id`

	tx, err := repository.db.BeginTx(context, pgx.TxOptions{})
	if err != nil {
		return nil, dberr.Wrap(err, "begin_create_category")
	}
	defer func() { _ = tx.Rollback(context) }()

	if category.ParentID != RootParentID {
		var exists bool
		if err := tx.QueryRow(context, parentQuery, category.ParentID).Scan(&exists); err != nil {
			return nil, dberr.Wrap(err, "check_parent_category")
		}
		if !exists {
			return nil, ErrParentNotFound
		}
	}

	created := &Category{Description: category.Description, ParentID: category.ParentID}
	if err := tx.QueryRow(context, categoryQuery, category.Description).Scan(&created.ID); err != nil {
		return nil, dberr.Wrap(err, "insert_category")
	}
	if err := tx.QueryRow(context, relationQuery, created.ID, category.ParentID).Scan(&created.RelationID); err != nil {
		return nil, dberr.Wrap(err, "insert_category_relation")
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_create_category")
	}
	return created, nil
}
