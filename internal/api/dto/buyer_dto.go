package dto

import (
	"time"

	"github.com/spec-kit/buyer-lead-service/internal/domain"
	"github.com/spec-kit/buyer-lead-service/internal/validation"
)

// BuyerRequest is the create/update payload. All fields arrive as raw
// strings; validation normalizes them. UpdatedAt is only read on update,
// where it carries the caller's version token.
type BuyerRequest struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
	PropertyType string `json:"propertyType"`
	BHK          string `json:"bhk"`
	Purpose      string `json:"purpose"`
	BudgetMin    string `json:"budgetMin"`
	BudgetMax    string `json:"budgetMax"`
	Timeline     string `json:"timeline"`
	Source       string `json:"source"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
	Tags         string `json:"tags"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// Input converts the payload to a validation input.
func (r BuyerRequest) Input() validation.BuyerInput {
	return validation.BuyerInput{
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		City:         r.City,
		PropertyType: r.PropertyType,
		BHK:          r.BHK,
		Purpose:      r.Purpose,
		BudgetMin:    r.BudgetMin,
		BudgetMax:    r.BudgetMax,
		Timeline:     r.Timeline,
		Source:       r.Source,
		Status:       r.Status,
		Notes:        r.Notes,
		Tags:         r.Tags,
	}
}

// BuyerResponse is the full lead representation.
type BuyerResponse struct {
	ID           string              `json:"id"`
	FullName     string              `json:"fullName"`
	Email        *string             `json:"email"`
	Phone        string              `json:"phone"`
	City         domain.City         `json:"city"`
	PropertyType domain.PropertyType `json:"propertyType"`
	BHK          *domain.BHK         `json:"bhk"`
	Purpose      domain.Purpose      `json:"purpose"`
	BudgetMin    *int                `json:"budgetMin"`
	BudgetMax    *int                `json:"budgetMax"`
	Timeline     domain.Timeline     `json:"timeline"`
	Source       domain.LeadSource   `json:"source"`
	Status       domain.LeadStatus   `json:"status"`
	Notes        *string             `json:"notes"`
	Tags         string              `json:"tags"`
	OwnerID      string              `json:"ownerId"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// HistoryResponse is one change-log entry.
type HistoryResponse struct {
	ID        string      `json:"id"`
	BuyerID   string      `json:"buyerId"`
	ChangedAt time.Time   `json:"changedAt"`
	Diff      domain.Diff `json:"diff"`
}

// BuyerDetailResponse bundles a lead with its recent history.
type BuyerDetailResponse struct {
	Buyer   BuyerResponse     `json:"buyer"`
	History []HistoryResponse `json:"history"`
}

// BuyerListResponse is one page of a filtered listing.
type BuyerListResponse struct {
	Items      []BuyerResponse `json:"items"`
	TotalCount int             `json:"totalCount"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}
