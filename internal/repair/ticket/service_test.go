// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ticket_test

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/repairment/internal/platform/apperr"
	"github.com/taibuivan/repairment/internal/platform/sec"
	"github.com/taibuivan/repairment/internal/repair/ticket"
)

// fakeRepository keeps tickets in memory and counts every call.
type fakeRepository struct {
	tickets    map[int64]*ticket.Details
	categories map[int64]bool
	owners     map[string]bool
	filters    []ticket.Filter
	registered []ticket.NewTicket
	calls      int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		tickets: map[int64]*ticket.Details{
			26: {ApplicationID: 26, OwnerUsername: "User1111", CategoryID: 5, ProblemDescription: "Screen flickers"},
			27: {ApplicationID: 27, OwnerUsername: "User2222", CategoryID: 5, SuggestedPriceByWorker: 900},
			28: {ApplicationID: 28, OwnerUsername: "User1111", CategoryID: 5, SuggestedPriceByWorker: 1500},
		},
		categories: map[int64]bool{5: true},
		owners:     map[string]bool{"User1111": true, "User2222": true},
	}
}

func (f *fakeRepository) Search(_ context.Context, filter ticket.Filter) ([]ticket.ListItem, error) {
	f.calls++
	f.filters = append(f.filters, filter)
	if filter.Unsatisfiable() {
		return []ticket.ListItem{}, nil
	}
	return []ticket.ListItem{{ApplicationID: 26, Firstname: "Ana", Lastname: "Berg"}}, nil
}

func (f *fakeRepository) Register(_ context.Context, newTicket ticket.NewTicket) (ticket.Registration, error) {
	f.calls++
	if !f.owners[newTicket.OwnerUsername] {
		return ticket.Registration{ErrorCode: ticket.RegistrationInvalidUsername}, nil
	}
	if !f.categories[newTicket.CategoryID] {
		return ticket.Registration{ErrorCode: ticket.RegistrationInvalidCategoryID}, nil
	}
	for id, existing := range f.tickets {
		if existing.OwnerUsername == newTicket.OwnerUsername && existing.CategoryID == newTicket.CategoryID &&
			existing.ProblemDescription == newTicket.ProblemDescription {
			return ticket.Registration{ApplicationID: id, ErrorCode: ticket.RegistrationAlreadyExistTicket}, nil
		}
	}

	id := int64(100 + len(f.registered))
	f.registered = append(f.registered, newTicket)
	f.tickets[id] = &ticket.Details{
		ApplicationID:      id,
		OwnerUsername:      newTicket.OwnerUsername,
		CategoryID:         newTicket.CategoryID,
		ProblemDescription: newTicket.ProblemDescription,
	}
	return ticket.Registration{ApplicationID: id, ErrorCode: ticket.RegistrationOK}, nil
}

func (f *fakeRepository) ListByOwner(_ context.Context, username string) ([]ticket.PersonalItem, error) {
	f.calls++
	items := []ticket.PersonalItem{}
	for id, details := range f.tickets {
		if details.OwnerUsername == username {
			items = append(items, ticket.PersonalItem{ApplicationID: id, CategoryID: details.CategoryID})
		}
	}
	return items, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id int64) (*ticket.Details, error) {
	f.calls++
	details, found := f.tickets[id]
	if !found {
		return nil, ticket.ErrTicketNotFound
	}
	return details, nil
}

func (f *fakeRepository) ListStatuses(_ context.Context) ([]ticket.Status, error) {
	f.calls++
	return []ticket.Status{{ID: 0, Description: "Undefined"}, {ID: 1, Description: "Received"}}, nil
}

func (f *fakeRepository) SetSuggestedPrice(_ context.Context, id int64, price float64) error {
	f.calls++
	details, found := f.tickets[id]
	if !found {
		return ticket.ErrTicketNotFound
	}
	details.SuggestedPriceByWorker = price
	details.PriceApprovalByUser = ticket.Approval{}
	return nil
}

func (f *fakeRepository) SetApproval(_ context.Context, id int64, approved bool) error {
	f.calls++
	details, found := f.tickets[id]
	if !found {
		return ticket.ErrTicketNotFound
	}
	details.PriceApprovalByUser = ticket.Approval{NullBool: sql.NullBool{Bool: approved, Valid: true}}
	return nil
}

func (f *fakeRepository) SetStatus(_ context.Context, id int64, statusID int64) error {
	f.calls++
	if statusID > 5 || statusID < 0 {
		return ticket.ErrUnknownStatus
	}
	details, found := f.tickets[id]
	if !found {
		return ticket.ErrTicketNotFound
	}
	details.ReparationStatusID = statusID
	return nil
}

var (
	customer      = &sec.Identity{Username: "User1111", Role: sec.RoleUser}
	worker        = &sec.Identity{Username: "Testo33", Role: sec.RoleWorker}
	administrator = &sec.Identity{Username: "Admin1", Role: sec.RoleAdministrator}
)

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	return appError.HTTPStatus
}

/*
TestRegister_RoleFirst verifies that non-customers are refused before any
data access happens.
*/
func TestRegister_RoleFirst(t *testing.T) {
	tests := []struct {
		name     string
		identity *sec.Identity
	}{
		{"anonymous", nil},
		{"invalid", &sec.Identity{Username: "User1111", Role: sec.RoleInvalid}},
		{"worker", worker},
		{"administrator", administrator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := newFakeRepository()
			service := ticket.NewService(repository)

			// An unknown category would fail later; the role decides first
			registration, err := service.Register(context.Background(), tt.identity, 999, "Broken")
			require.NoError(t, err)
			assert.Equal(t, ticket.Registration{ApplicationID: 0, ErrorCode: ticket.RegistrationInvalidRole}, registration)
			assert.Zero(t, repository.calls)
		})
	}
}

/*
TestRegister_Outcomes covers success, duplicates and the repository's checks.
*/
func TestRegister_Outcomes(t *testing.T) {
	repository := newFakeRepository()
	service := ticket.NewService(repository)
	ctx := context.Background()

	// 1. New ticket
	first, err := service.Register(ctx, customer, 5, "Battery drains")
	require.NoError(t, err)
	assert.Equal(t, ticket.RegistrationOK, first.ErrorCode)
	assert.NotZero(t, first.ApplicationID)

	// 2. Same submission again returns the original id and stores nothing
	second, err := service.Register(ctx, customer, 5, "  Battery drains ")
	require.NoError(t, err)
	assert.Equal(t, ticket.Registration{ApplicationID: first.ApplicationID, ErrorCode: ticket.RegistrationAlreadyExistTicket}, second)
	assert.Len(t, repository.registered, 1)

	// 3. Unknown category
	third, err := service.Register(ctx, customer, 8, "Battery drains")
	require.NoError(t, err)
	assert.Equal(t, ticket.RegistrationInvalidCategoryID, third.ErrorCode)

	// 4. Identity whose account no longer exists
	fourth, err := service.Register(ctx, &sec.Identity{Username: "gone", Role: sec.RoleUser}, 5, "Battery drains")
	require.NoError(t, err)
	assert.Equal(t, ticket.RegistrationInvalidUsername, fourth.ErrorCode)
}

/*
TestRegister_SanitizesDescription strips markup and rejects descriptions that
are empty once stripped.
*/
func TestRegister_SanitizesDescription(t *testing.T) {
	repository := newFakeRepository()
	service := ticket.NewService(repository)

	_, err := service.Register(context.Background(), customer, 5, `<b>Cracked</b> screen & hinge<script>alert(1)</script>`)
	require.NoError(t, err)
	require.Len(t, repository.registered, 1)
	assert.Equal(t, "Cracked screen & hinge", repository.registered[0].ProblemDescription)

	_, err = service.Register(context.Background(), customer, 5, "<p>  </p>")
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	assert.Len(t, repository.registered, 1)
}

/*
TestRegister_SanitizesEncodedMarkup ensures markup sent as HTML entities is
stripped as well and never stored in decoded form.
*/
func TestRegister_SanitizesEncodedMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"encoded_tags", "&lt;b&gt;Loose&lt;/b&gt; hinge", "Loose hinge"},
		{"double_encoded_tags", "&amp;lt;i&amp;gt;Worn&amp;lt;/i&amp;gt; chain", "Worn chain"},
		{"encoded_script_with_text", "Dead pixel&lt;script&gt;alert(1)&lt;/script&gt;", "Dead pixel"},
		{"plain_entity", "Tom &amp; Jerry mug", "Tom & Jerry mug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := newFakeRepository()
			service := ticket.NewService(repository)

			_, err := service.Register(context.Background(), customer, 5, tt.input)
			require.NoError(t, err)
			require.Len(t, repository.registered, 1)
			assert.Equal(t, tt.want, repository.registered[0].ProblemDescription)
			assert.NotContains(t, repository.registered[0].ProblemDescription, "<")
		})
	}

	t.Run("encoded_script_only", func(t *testing.T) {
		repository := newFakeRepository()
		service := ticket.NewService(repository)

		_, err := service.Register(context.Background(), customer, 5, "&lt;script&gt;alert(1)&lt;/script&gt;")
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
		assert.Empty(t, repository.registered)
	})
}

/*
TestSearch_PassesNormalizedFilter checks that the raw filter reaches the repository normalized.
*/
func TestSearch_PassesNormalizedFilter(t *testing.T) {
	repository := newFakeRepository()
	service := ticket.NewService(repository)

	items, err := service.Search(context.Background(), ticket.RawFilter{ApplicationID: "26", CategoryID: "-1"})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.Len(t, repository.filters, 1)
	assert.Equal(t, int64(26), *repository.filters[0].ApplicationID)
	assert.Nil(t, repository.filters[0].CategoryID)

	items, err = service.Search(context.Background(), ticket.RawFilter{PriceFrom: "cheap"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

/*
TestDetails_Ownership hides other customers' tickets and shows everything to staff.
*/
func TestDetails_Ownership(t *testing.T) {
	service := ticket.NewService(newFakeRepository())
	ctx := context.Background()

	tests := []struct {
		name     string
		identity *sec.Identity
		id       int64
		want     int
	}{
		{"own", customer, 26, http.StatusOK},
		{"foreign", customer, 27, http.StatusNotFound},
		{"missing", customer, 99, http.StatusNotFound},
		{"worker", worker, 27, http.StatusOK},
		{"administrator", administrator, 26, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details, err := service.Details(ctx, tt.identity, tt.id)
			if tt.want == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, tt.id, details.ApplicationID)
				return
			}
			assert.Equal(t, tt.want, httpStatus(t, err))
		})
	}
}

/*
TestPriceWorkflow covers suggesting, approving and re-suggesting a price.
*/
func TestPriceWorkflow(t *testing.T) {
	repository := newFakeRepository()
	service := ticket.NewService(repository)
	ctx := context.Background()

	// 1. Approval before a price exists
	err := service.Approve(ctx, customer, 26, true)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	assert.Equal(t, "PRICE_NOT_SUGGESTED", apperr.As(err).Code)

	// 2. Negative and zero prices
	err = service.SuggestPrice(ctx, 26, -10)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	err = service.SuggestPrice(ctx, 26, 0)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	assert.Zero(t, repository.tickets[26].SuggestedPriceByWorker)

	// 3. Price, then approval
	require.NoError(t, service.SuggestPrice(ctx, 26, 1200))
	require.NoError(t, service.Approve(ctx, customer, 26, true))
	assert.True(t, repository.tickets[26].PriceApprovalByUser.Valid)

	// 4. A new price resets the approval
	require.NoError(t, service.SuggestPrice(ctx, 26, 1300))
	assert.False(t, repository.tickets[26].PriceApprovalByUser.Valid)

	// 5. Foreign and unknown tickets
	assert.Equal(t, http.StatusNotFound, httpStatus(t, service.Approve(ctx, customer, 27, true)))
	assert.Equal(t, http.StatusNotFound, httpStatus(t, service.SuggestPrice(ctx, 99, 10)))
}

/*
TestChangeStatus maps unknown statuses to validation errors and unknown tickets to 404.
*/
func TestChangeStatus(t *testing.T) {
	repository := newFakeRepository()
	service := ticket.NewService(repository)
	ctx := context.Background()

	require.NoError(t, service.ChangeStatus(ctx, 26, 2))
	assert.Equal(t, int64(2), repository.tickets[26].ReparationStatusID)

	assert.Equal(t, http.StatusBadRequest, httpStatus(t, service.ChangeStatus(ctx, 26, 42)))
	assert.Equal(t, http.StatusNotFound, httpStatus(t, service.ChangeStatus(ctx, 99, 1)))
}
