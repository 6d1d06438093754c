// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ticket_test

import (
	"encoding/json"
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
	"github.com/taibuivan/repairment/internal/repair/ticket"
)

type testServer struct {
	router     http.Handler
	tokens     *sec.TokenService
	repository *fakeRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tokens, err := sec.NewTokenService("test-secret", "repairment.test")
	require.NoError(t, err)

	repository := newFakeRepository()
	handler := ticket.NewHandler(ticket.NewService(repository))

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/service/applications", handler.Routes())
	router.Mount("/service/statuses", handler.StatusRoutes())

	return &testServer{router: router, tokens: tokens, repository: repository}
}

// do sends a request as identity; a nil identity sends no cookie.
func (s *testServer) do(t *testing.T, identity *sec.Identity, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	if identity != nil {
		token, err := s.tokens.Issue(*identity)
		require.NoError(t, err)
		request.AddCookie(&http.Cookie{Name: constants.AuthCookieName, Value: token})
	}

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)
	return recorder
}

type registrationEnvelope struct {
	Data ticket.Registration `json:"data"`
	Code string              `json:"code"`
}

/*
TestRegisterEndpoint returns the registration result on success and carries it
in the error envelope for business rule failures.
*/
func TestRegisterEndpoint(t *testing.T) {
	server := newTestServer(t)

	// 1. Success
	recorder := server.do(t, customer, http.MethodPost, "/service/applications",
		`{"categoryId":5,"problemDescription":"Keyboard dead"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body registrationEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, ticket.RegistrationOK, body.Data.ErrorCode)
	assert.NotZero(t, body.Data.ApplicationID)

	// 2. Duplicate
	recorder = server.do(t, customer, http.MethodPost, "/service/applications",
		`{"categoryId":5,"problemDescription":"Screen flickers"}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body = registrationEnvelope{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ALREADY_EXIST_APPLICATION", body.Code)
	assert.Equal(t, ticket.Registration{ApplicationID: 26, ErrorCode: ticket.RegistrationAlreadyExistTicket}, body.Data)

	// 3. Workers never reach the handler
	recorder = server.do(t, worker, http.MethodPost, "/service/applications",
		`{"categoryId":5,"problemDescription":"Keyboard dead"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestSearchEndpoint checks gating and the one-element result for ticket 26.
*/
func TestSearchEndpoint(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name     string
		identity *sec.Identity
		want     int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"customer", customer, http.StatusUnauthorized},
		{"worker", worker, http.StatusOK},
		{"administrator", administrator, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := server.do(t, tt.identity, http.MethodGet, "/service/applications?applicationId=26&categoryId=-1", "")
			require.Equal(t, tt.want, recorder.Code)
			if tt.want != http.StatusOK {
				return
			}

			var body struct {
				Data []ticket.ListItem `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			require.Len(t, body.Data, 1)
			assert.Equal(t, int64(26), body.Data[0].ApplicationID)
		})
	}
}

/*
TestDetailsEndpoint renders an unanswered approval as "Undefined" and hides foreign tickets.
*/
func TestDetailsEndpoint(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, customer, http.MethodGet, "/service/applications/26", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Undefined", body.Data["priceApprovalByUser"])
	assert.NotContains(t, body.Data, "ownerUsername")

	assert.Equal(t, http.StatusNotFound, server.do(t, customer, http.MethodGet, "/service/applications/27", "").Code)
	assert.Equal(t, http.StatusBadRequest, server.do(t, customer, http.MethodGet, "/service/applications/abc", "").Code)
}

/*
TestWorkflowEndpoints drives price, approval and status changes over HTTP.
*/
func TestWorkflowEndpoints(t *testing.T) {
	server := newTestServer(t)

	// Only workers price
	assert.Equal(t, http.StatusUnauthorized,
		server.do(t, administrator, http.MethodPut, "/service/applications/26/price", `{"suggestedPrice":100}`).Code)
	assert.Equal(t, http.StatusNoContent,
		server.do(t, worker, http.MethodPut, "/service/applications/26/price", `{"suggestedPrice":100}`).Code)

	// The owner answers
	assert.Equal(t, http.StatusBadRequest,
		server.do(t, customer, http.MethodPut, "/service/applications/26/approval", `{}`).Code)
	assert.Equal(t, http.StatusNoContent,
		server.do(t, customer, http.MethodPut, "/service/applications/26/approval", `{"approved":false}`).Code)
	assert.True(t, server.repository.tickets[26].PriceApprovalByUser.Valid)
	assert.False(t, server.repository.tickets[26].PriceApprovalByUser.Bool)

	// Staff moves the status
	assert.Equal(t, http.StatusNoContent,
		server.do(t, administrator, http.MethodPut, "/service/applications/26/status", `{"reparationStatusId":3}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		server.do(t, worker, http.MethodPut, "/service/applications/26/status", `{"reparationStatusId":9}`).Code)

	// Statuses list
	recorder := server.do(t, worker, http.MethodGet, "/service/statuses", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"reparationStatusDescription":"Undefined"`)
}

/*
TestMineEndpoint lists only the caller's tickets.
*/
func TestMineEndpoint(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, customer, http.MethodGet, "/service/applications/mine", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []ticket.PersonalItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
}
