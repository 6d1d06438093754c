// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/repairment/internal/platform/constants"
	"github.com/taibuivan/repairment/internal/platform/middleware"
	"github.com/taibuivan/repairment/internal/platform/sec"
	"github.com/taibuivan/repairment/internal/repair/category"
)

/*
TestCategoryEndpoints checks the gates and payloads of the category routes.
*/
func TestCategoryEndpoints(t *testing.T) {
	tokens, err := sec.NewTokenService("test-secret", "repairment.test")
	require.NoError(t, err)

	service := category.NewService(newFakeRepository(), &fakeCache{}, discardLogger)
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/categories", category.NewHandler(service).Routes())

	send := func(role sec.Role, method, body string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, "/categories", strings.NewReader(body))
		if role != sec.RoleInvalid {
			token, err := tokens.Issue(sec.Identity{Username: "someone", Role: role})
			require.NoError(t, err)
			request.AddCookie(&http.Cookie{Name: constants.AuthCookieName, Value: token})
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	tests := []struct {
		name   string
		role   sec.Role
		method string
		body   string
		want   int
	}{
		{"list_anonymous", sec.RoleInvalid, http.MethodGet, "", http.StatusUnauthorized},
		{"list_customer", sec.RoleUser, http.MethodGet, "", http.StatusOK},
		{"create_worker", sec.RoleWorker, http.MethodPost, `{"categoryDescription":"Bikes"}`, http.StatusUnauthorized},
		{"create_admin", sec.RoleAdministrator, http.MethodPost, `{"categoryDescription":"Bikes"}`, http.StatusCreated},
		{"create_invalid_json", sec.RoleAdministrator, http.MethodPost, `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := send(tt.role, tt.method, tt.body)
			assert.Equal(t, tt.want, recorder.Code)
		})
	}

	recorder := send(sec.RoleUser, http.MethodGet, "")
	assert.Contains(t, recorder.Body.String(), `"categoryDescription":"Bikes"`)
	assert.Contains(t, recorder.Body.String(), `"categoryRelationId":1`)
}
