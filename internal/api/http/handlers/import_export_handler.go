package handlers

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/buyer-lead-service/internal/service"
	apperrors "github.com/spec-kit/buyer-lead-service/pkg/util"
)

// ImportExportHandler serves CSV bulk import and filtered export.
type ImportExportHandler struct {
	importer *service.ImportService
	exporter *service.ExportService
}

// NewImportExportHandler constructs handler.
func NewImportExportHandler(importer *service.ImportService, exporter *service.ExportService) *ImportExportHandler {
	return &ImportExportHandler{importer: importer, exporter: exporter}
}

// ImportBuyers POST /api/v1/buyers/import. Accepts the CSV either as a
// multipart "file" part or as the raw request body.
func (h *ImportExportHandler) ImportBuyers(c *fiber.Ctx) error {
	reader, err := csvPayload(c)
	if err != nil {
		return err
	}
	defer reader.Close() //nolint:errcheck
	result, err := h.importer.ImportCSV(c.UserContext(), ownerID(c), reader)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// ExportBuyers GET /api/v1/buyers/export. Same filters as the listing, no
// pagination; responds with the CSV as a file download.
func (h *ImportExportHandler) ExportBuyers(c *fiber.Ctx) error {
	params := service.ListParams{
		City:         c.Query("city"),
		PropertyType: c.Query("propertyType"),
		Status:       c.Query("status"),
		Timeline:     c.Query("timeline"),
		Search:       c.Query("search"),
	}
	csvText, err := h.exporter.ExportCSV(c.UserContext(), params)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="buyer-leads.csv"`)
	return c.SendString(csvText)
}

func csvPayload(c *fiber.Ctx) (io.ReadCloser, error) {
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, apperrors.NewMalformedFile("uploaded file could not be opened", nil)
		}
		return file, nil
	}
	if body := c.Body(); len(body) > 0 {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	return nil, apperrors.NewMalformedFile("no CSV payload provided", nil)
}
