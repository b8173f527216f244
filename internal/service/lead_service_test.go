package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/buyer-lead-service/internal/domain"
	"github.com/spec-kit/buyer-lead-service/internal/repository/memory"
	"github.com/spec-kit/buyer-lead-service/internal/validation"
	apperrors "github.com/spec-kit/buyer-lead-service/pkg/util"
)

func newTestLeadService() (*LeadService, *memory.BuyerRepo) {
	repo := memory.NewBuyerRepo()
	svc := NewLeadService(LeadDependencies{BuyerRepo: repo, HistoryRepo: repo})
	return svc, repo
}

func leadInput(fullName, phone string) validation.BuyerInput {
	return validation.BuyerInput{
		FullName:     fullName,
		Phone:        phone,
		City:         "Chandigarh",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "0-3m",
		Source:       "Website",
	}
}

func requireDomainCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code)
	return domainErr
}

func TestCreatePersistsLeadWithDefaults(t *testing.T) {
	svc, _ := newTestLeadService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "agent-7", leadInput("Priya Sharma", "9876543210"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "agent-7", created.OwnerID)
	assert.Equal(t, domain.StatusNew, created.Status)
	assert.False(t, created.UpdatedAt.IsZero())

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.FullName, stored.FullName)

	history, err := svc.GetHistory(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history, "creation writes no history entry")
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, repo := newTestLeadService()

	in := leadInput("P", "123")
	_, err := svc.Create(context.Background(), "agent-7", in)
	domainErr := requireDomainCode(t, err, "VALIDATION_FAILED")

	issues, ok := domainErr.Details["issues"].([]validation.Issue)
	require.True(t, ok)
	assert.Len(t, issues, 2)

	count, err := repo.CountWithFilter(context.Background(), filterFromParams(ListParams{}))
	require.NoError(t, err)
	assert.Zero(t, count, "nothing persisted on validation failure")
}

func TestUpdateRecordsOnlyChangedFields(t *testing.T) {
	svc, _ := newTestLeadService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "agent-7", leadInput("Priya Sharma", "9876543210"))
	require.NoError(t, err)

	in := leadInput("Priya Sharma", "9998887776")
	in.Status = "Qualified"
	updated, err := svc.Update(ctx, created.ID, created.UpdatedAt, in)
	require.NoError(t, err)
	assert.Equal(t, "9998887776", updated.Phone)
	assert.Equal(t, domain.StatusQualified, updated.Status)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "version token advances")
	assert.Equal(t, created.OwnerID, updated.OwnerID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	history, err := svc.GetHistory(ctx, created.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	d := history[0].Diff
	require.Len(t, d, 2)
	assert.Equal(t, "9876543210", d["phone"].Old)
	assert.Equal(t, "9998887776", d["phone"].New)
	assert.Equal(t, domain.StatusNew, d["status"].Old)
	assert.Equal(t, domain.StatusQualified, d["status"].New)
}

func TestUpdateWithStaleTokenConflicts(t *testing.T) {
	svc, _ := newTestLeadService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "agent-7", leadInput("Priya Sharma", "9876543210"))
	require.NoError(t, err)

	first, err := svc.Update(ctx, created.ID, created.UpdatedAt, leadInput("Priya Sharma", "9998887776"))
	require.NoError(t, err)

	// second writer replays the token from before the first update
	_, err = svc.Update(ctx, created.ID, created.UpdatedAt, leadInput("Priya Verma", "9876543210"))
	requireDomainCode(t, err, "CONFLICT")

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Phone, stored.Phone, "losing write leaves the record untouched")

	history, err := svc.GetHistory(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestUpdateUnknownLeadIsNotFound(t *testing.T) {
	svc, _ := newTestLeadService()

	created, err := svc.Create(context.Background(), "agent-7", leadInput("Priya Sharma", "9876543210"))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "no-such-id", created.UpdatedAt, leadInput("Priya Sharma", "9876543210"))
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestUpdateWithoutChangesAdvancesTokenOnly(t *testing.T) {
	svc, _ := newTestLeadService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "agent-7", leadInput("Priya Sharma", "9876543210"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, created.UpdatedAt, leadInput("Priya Sharma", "9876543210"))
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	history, err := svc.GetHistory(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history, "no history row for an empty diff")
}

func TestGetHistoryReturnsNewestFirstWithLimit(t *testing.T) {
	svc, _ := newTestLeadService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "agent-7", leadInput("Priya Sharma", "9876543210"))
	require.NoError(t, err)

	token := created.UpdatedAt
	for i := 0; i < 7; i++ {
		in := leadInput("Priya Sharma", "9876543210")
		in.Notes = fmt.Sprintf("note %d", i)
		updated, err := svc.Update(ctx, created.ID, token, in)
		require.NoError(t, err)
		token = updated.UpdatedAt
	}

	history, err := svc.GetHistory(ctx, created.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, DefaultHistoryLimit)
	assert.Equal(t, "note 6", history[0].Diff["notes"].New)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i-1].ChangedAt.After(history[i].ChangedAt), "newest first")
	}

	all, err := svc.GetHistory(ctx, created.ID, 10)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestGetHistoryUnknownLeadIsNotFound(t *testing.T) {
	svc, _ := newTestLeadService()
	_, err := svc.GetHistory(context.Background(), "no-such-id", 0)
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestListPaginatesWithFixedPageSize(t *testing.T) {
	svc, _ := newTestLeadService()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := svc.Create(ctx, "agent-7", leadInput(fmt.Sprintf("Buyer %02d", i), "9876543210"))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ListParams{Page: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, PageSize)
	assert.Equal(t, 25, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)

	last, err := svc.List(ctx, ListParams{Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)

	beyond, err := svc.List(ctx, ListParams{Page: 4})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items, "out-of-range page is empty, not an error")
	assert.Equal(t, 25, beyond.TotalCount)
}

func TestListOrdersByMostRecentlyUpdated(t *testing.T) {
	svc, _ := newTestLeadService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "agent-7", leadInput("First Buyer", "9876543210"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "agent-7", leadInput("Second Buyer", "9876543210"))
	require.NoError(t, err)

	// touching the older record moves it back to the top
	_, err = svc.Update(ctx, first.ID, first.UpdatedAt, leadInput("First Buyer", "9998887776"))
	require.NoError(t, err)

	page, err := svc.List(ctx, ListParams{Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, first.ID, page.Items[0].ID)
}

func TestListSearchMatchesNamePhoneAndEmail(t *testing.T) {
	svc, _ := newTestLeadService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "agent-7", leadInput("Priya Sharma", "9876543210"))
	require.NoError(t, err)

	byEmail := leadInput("Rahul Mehta", "8887776665")
	byEmail.Email = "contact.priya@example.com"
	_, err = svc.Create(ctx, "agent-7", byEmail)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "agent-7", leadInput("Amit Kumar", "7776665554"))
	require.NoError(t, err)

	page, err := svc.List(ctx, ListParams{Search: "PRIYA", Page: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2, "matches full name and email, case-insensitively")

	page, err = svc.List(ctx, ListParams{Search: "43210", Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Priya Sharma", page.Items[0].FullName)
}

func TestListCombinesFiltersWithAnd(t *testing.T) {
	svc, _ := newTestLeadService()
	ctx := context.Background()

	mohali := leadInput("Mohali Buyer", "9876543210")
	mohali.City = "Mohali"
	created, err := svc.Create(ctx, "agent-7", mohali)
	require.NoError(t, err)

	qualified := leadInput("Mohali Qualified", "9876543211")
	qualified.City = "Mohali"
	qualified.Status = "Qualified"
	_, err = svc.Create(ctx, "agent-7", qualified)
	require.NoError(t, err)

	other := leadInput("Panchkula Buyer", "9876543212")
	other.City = "Panchkula"
	_, err = svc.Create(ctx, "agent-7", other)
	require.NoError(t, err)

	page, err := svc.List(ctx, ListParams{City: "Mohali", Status: "New", Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)

	page, err = svc.List(ctx, ListParams{City: "Zirakpur", Page: 1})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalCount)
}
