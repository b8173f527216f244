package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/buyer-lead-service/internal/api/dto"
	"github.com/spec-kit/buyer-lead-service/internal/domain"
	"github.com/spec-kit/buyer-lead-service/internal/service"
	apperrors "github.com/spec-kit/buyer-lead-service/pkg/util"
)

// ownerHeader carries the acting user's id. Authentication is out of scope;
// callers that send nothing get the fallback owner.
const (
	ownerHeader   = "X-Owner-ID"
	fallbackOwner = "anonymous"
)

// BuyersHandler manages buyer lead endpoints.
type BuyersHandler struct {
	service *service.LeadService
}

// NewBuyersHandler constructs handler.
func NewBuyersHandler(leadService *service.LeadService) *BuyersHandler {
	return &BuyersHandler{service: leadService}
}

// CreateBuyer POST /api/v1/buyers.
func (h *BuyersHandler) CreateBuyer(c *fiber.Ctx) error {
	var req dto.BuyerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	buyer, err := h.service.Create(c.UserContext(), ownerID(c), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": buyerResponse(buyer)})
}

// ListBuyers GET /api/v1/buyers.
func (h *BuyersHandler) ListBuyers(c *fiber.Ctx) error {
	params := service.ListParams{
		City:         c.Query("city"),
		PropertyType: c.Query("propertyType"),
		Status:       c.Query("status"),
		Timeline:     c.Query("timeline"),
		Search:       c.Query("search"),
		Page:         parsePage(c.Query("page")),
	}
	page, err := h.service.List(c.UserContext(), params)
	if err != nil {
		return err
	}
	items := make([]dto.BuyerResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, buyerResponse(&page.Items[i]))
	}
	return c.JSON(fiber.Map{"data": dto.BuyerListResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}})
}

// GetBuyer GET /api/v1/buyers/:id.
func (h *BuyersHandler) GetBuyer(c *fiber.Ctx) error {
	buyer, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	history, err := h.service.GetHistory(c.UserContext(), buyer.ID, service.DefaultHistoryLimit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BuyerDetailResponse{
		Buyer:   buyerResponse(buyer),
		History: historyResponses(history),
	}})
}

// UpdateBuyer PUT /api/v1/buyers/:id.
func (h *BuyersHandler) UpdateBuyer(c *fiber.Ctx) error {
	var req dto.BuyerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	token, err := time.Parse(time.RFC3339Nano, req.UpdatedAt)
	if err != nil {
		return apperrors.NewValidationError("updatedAt must be the RFC 3339 timestamp read at edit time", nil)
	}
	buyer, err := h.service.Update(c.UserContext(), c.Params("id"), token, req.Input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": buyerResponse(buyer)})
}

// GetBuyerHistory GET /api/v1/buyers/:id/history.
func (h *BuyersHandler) GetBuyerHistory(c *fiber.Ctx) error {
	limit := service.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	history, err := h.service.GetHistory(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(history)})
}

func ownerID(c *fiber.Ctx) string {
	if owner := c.Get(ownerHeader); owner != "" {
		return owner
	}
	return fallbackOwner
}

func parsePage(raw string) int {
	if raw == "" {
		return 1
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return parsed
}

func buyerResponse(buyer *domain.Buyer) dto.BuyerResponse {
	return dto.BuyerResponse{
		ID:           buyer.ID,
		FullName:     buyer.FullName,
		Email:        buyer.Email,
		Phone:        buyer.Phone,
		City:         buyer.City,
		PropertyType: buyer.PropertyType,
		BHK:          buyer.BHK,
		Purpose:      buyer.Purpose,
		BudgetMin:    buyer.BudgetMin,
		BudgetMax:    buyer.BudgetMax,
		Timeline:     buyer.Timeline,
		Source:       buyer.Source,
		Status:       buyer.Status,
		Notes:        buyer.Notes,
		Tags:         buyer.Tags,
		OwnerID:      buyer.OwnerID,
		CreatedAt:    buyer.CreatedAt,
		UpdatedAt:    buyer.UpdatedAt,
	}
}

func historyResponses(entries []domain.BuyerHistory) []dto.HistoryResponse {
	resp := make([]dto.HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.HistoryResponse{
			ID:        entry.ID,
			BuyerID:   entry.BuyerID,
			ChangedAt: entry.ChangedAt,
			Diff:      entry.Diff,
		})
	}
	return resp
}
