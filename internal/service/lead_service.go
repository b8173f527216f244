package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/buyer-lead-service/internal/diff"
	"github.com/spec-kit/buyer-lead-service/internal/domain"
	"github.com/spec-kit/buyer-lead-service/internal/events"
	"github.com/spec-kit/buyer-lead-service/internal/repository"
	"github.com/spec-kit/buyer-lead-service/internal/validation"
	apperrors "github.com/spec-kit/buyer-lead-service/pkg/util"
)

// PageSize is the fixed page size for lead listings.
const PageSize = 10

// DefaultHistoryLimit is how many history entries a detail view shows.
const DefaultHistoryLimit = 5

// BuyerHistoryStore is the read side of the change log.
type BuyerHistoryStore interface {
	ListByBuyer(ctx context.Context, buyerID string, limit int) ([]domain.BuyerHistory, error)
}

// LeadService coordinates buyer lead workflows.
type LeadService struct {
	buyers     repository.BuyerRepository
	history    BuyerHistoryStore
	dispatcher events.Dispatcher
}

// LeadDependencies bundles collaborators for the lead service.
type LeadDependencies struct {
	BuyerRepo   repository.BuyerRepository
	HistoryRepo BuyerHistoryStore
	Dispatcher  events.Dispatcher
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	return &LeadService{
		buyers:     deps.BuyerRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ListParams describes list filters. Filter values are exact-match; unknown
// values simply match nothing. Page is 1-based.
type ListParams struct {
	City         string
	PropertyType string
	Status       string
	Timeline     string
	Search       string
	Page         int
}

// LeadPage is one page of a filtered listing plus pagination totals.
type LeadPage struct {
	Items      []domain.Buyer
	TotalCount int
	Page       int
	TotalPages int
}

// Create validates the input and persists a new lead. Status defaults to New
// when absent. No history entry is written for the initial insert.
func (s *LeadService) Create(ctx context.Context, ownerID string, input validation.BuyerInput) (*domain.Buyer, error) {
	validated, issues := validation.ValidateBuyer(input)
	if issues != nil {
		return nil, apperrors.NewValidationError("validation failed", issues)
	}
	return s.createValidated(ctx, ownerID, validated)
}

// createValidated persists a lead that already passed validation. Shared with
// the CSV import pipeline, which validates rows itself to collect per-row
// issue reports.
func (s *LeadService) createValidated(ctx context.Context, ownerID string, validated *validation.ValidatedBuyer) (*domain.Buyer, error) {
	buyer := buyerFromValidated(validated)
	buyer.OwnerID = ownerID

	if err := s.buyers.Create(ctx, buyer); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventLeadCreated,
		BuyerID: buyer.ID,
		OwnerID: buyer.OwnerID,
		Payload: events.LeadCreatedPayload{
			FullName: buyer.FullName,
			City:     buyer.City,
			Source:   buyer.Source,
			Status:   buyer.Status,
		},
	})
	return buyer, nil
}

// Update validates the input, then applies it to the stored lead guarded by
// the caller's version token. The field update and the history insert commit
// in one transaction. An update whose diff is empty still succeeds and
// advances updatedAt but writes no history row.
func (s *LeadService) Update(ctx context.Context, id string, expectedUpdatedAt time.Time, input validation.BuyerInput) (*domain.Buyer, error) {
	validated, issues := validation.ValidateBuyer(input)
	if issues != nil {
		return nil, apperrors.NewValidationError("validation failed", issues)
	}

	stored, err := s.buyers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("buyer lead", map[string]any{"id": id})
		}
		return nil, err
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return nil, staleTokenError(stored.UpdatedAt, expectedUpdatedAt)
	}

	next := buyerFromValidated(validated)
	next.ID = stored.ID
	next.OwnerID = stored.OwnerID
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = stored.UpdatedAt

	changes := diff.Compute(stored, next)

	if err := s.buyers.UpdateWithHistory(ctx, next, expectedUpdatedAt, changes); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, staleTokenError(stored.UpdatedAt, expectedUpdatedAt)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("buyer lead", map[string]any{"id": id})
		}
		return nil, err
	}

	if len(changes) > 0 {
		fields := make([]string, 0, len(changes))
		for field := range changes {
			fields = append(fields, field)
		}
		s.publishEvent(ctx, events.Event{
			Type:    events.EventLeadUpdated,
			BuyerID: next.ID,
			OwnerID: next.OwnerID,
			Payload: events.LeadUpdatedPayload{
				ChangedFields: fields,
				Status:        next.Status,
			},
		})
	}
	return next, nil
}

// Get fetches a single lead by id.
func (s *LeadService) Get(ctx context.Context, id string) (*domain.Buyer, error) {
	buyer, err := s.buyers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("buyer lead", map[string]any{"id": id})
		}
		return nil, err
	}
	return buyer, nil
}

// List returns one page of matching leads plus the total matching count.
// Out-of-range pages return an empty page without error.
func (s *LeadService) List(ctx context.Context, params ListParams) (*LeadPage, error) {
	filter := filterFromParams(params)

	total, err := s.buyers.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := (total + PageSize - 1) / PageSize

	page := &LeadPage{
		Items:      []domain.Buyer{},
		TotalCount: total,
		Page:       params.Page,
		TotalPages: totalPages,
	}
	if params.Page <= 0 || params.Page > totalPages {
		return page, nil
	}

	filter.Limit = PageSize
	filter.Offset = (params.Page - 1) * PageSize
	items, err := s.buyers.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items != nil {
		page.Items = items
	}
	return page, nil
}

// GetHistory returns the most recent history entries for a lead, newest
// first. A zero or negative limit falls back to DefaultHistoryLimit.
func (s *LeadService) GetHistory(ctx context.Context, buyerID string, limit int) ([]domain.BuyerHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if _, err := s.buyers.GetByID(ctx, buyerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("buyer lead", map[string]any{"id": buyerID})
		}
		return nil, err
	}
	entries, err := s.history.ListByBuyer(ctx, buyerID, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.BuyerHistory{}
	}
	return entries, nil
}

func (s *LeadService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func staleTokenError(current, expected time.Time) error {
	return apperrors.NewConcurrencyConflict(
		"record changed since it was loaded; reload and retry",
		map[string]any{
			"currentUpdatedAt":  current,
			"expectedUpdatedAt": expected,
		})
}

func buyerFromValidated(v *validation.ValidatedBuyer) *domain.Buyer {
	return &domain.Buyer{
		FullName:     v.FullName,
		Email:        v.Email,
		Phone:        v.Phone,
		City:         v.City,
		PropertyType: v.PropertyType,
		BHK:          v.BHK,
		Purpose:      v.Purpose,
		BudgetMin:    v.BudgetMin,
		BudgetMax:    v.BudgetMax,
		Timeline:     v.Timeline,
		Source:       v.Source,
		Status:       v.Status,
		Notes:        v.Notes,
		Tags:         v.Tags,
	}
}

func filterFromParams(params ListParams) repository.BuyerFilter {
	filter := repository.BuyerFilter{}
	if params.City != "" {
		city := domain.City(params.City)
		filter.City = &city
	}
	if params.PropertyType != "" {
		propertyType := domain.PropertyType(params.PropertyType)
		filter.PropertyType = &propertyType
	}
	if params.Status != "" {
		status := domain.LeadStatus(params.Status)
		filter.Status = &status
	}
	if params.Timeline != "" {
		timeline := domain.Timeline(params.Timeline)
		filter.Timeline = &timeline
	}
	if params.Search != "" {
		search := params.Search
		filter.Search = &search
	}
	return filter
}
