// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/repairment/internal/platform/apperr"
	"github.com/taibuivan/repairment/internal/platform/dberr"
)

/*
TestWrap maps driver errors onto client-facing statuses.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no_rows", fmt.Errorf("select: %w", sql.ErrNoRows), http.StatusNotFound},
		{"statement_timeout", &pgconn.PgError{Code: pgerrcode.QueryCanceled}, http.StatusServiceUnavailable},
		{"connection_failure", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, http.StatusServiceUnavailable},
		{"too_many_connections", &pgconn.PgError{Code: pgerrcode.TooManyConnections}, http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, http.StatusConflict},
		{"syntax", &pgconn.PgError{Code: pgerrcode.SyntaxError}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appError := apperr.As(dberr.Wrap(tt.err, "test_action"))
			require.NotNil(t, appError)
			assert.Equal(t, tt.status, appError.HTTPStatus)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

/*
TestWrap_HidesCause ensures the SQL error text never reaches the client message.
*/
func TestWrap_HidesCause(t *testing.T) {
	cause := &pgconn.PgError{Code: pgerrcode.UndefinedColumn, Message: `column "secret" does not exist`}

	appError := apperr.As(dberr.Wrap(cause, "load_ticket"))
	require.NotNil(t, appError)

	assert.NotContains(t, appError.Message, "secret")
	assert.ErrorIs(t, appError, cause)
}
