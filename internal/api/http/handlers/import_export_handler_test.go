package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/buyer-lead-service/internal/repository/memory"
	"github.com/spec-kit/buyer-lead-service/internal/service"
)

const importPayload = "fullName,phone,city,propertyType,purpose,timeline,source\n" +
	"Priya Sharma,9876543210,Mohali,Plot,Buy,0-3m,Website\n"

func newImportTestApp() (*fiber.App, *service.LeadService) {
	repo := memory.NewBuyerRepo()
	leads := service.NewLeadService(service.LeadDependencies{BuyerRepo: repo, HistoryRepo: repo})
	handler := NewImportExportHandler(service.NewImportService(leads), service.NewExportService(repo))

	app := fiber.New()
	app.Post("/api/v1/buyers/import", handler.ImportBuyers)
	return app, leads
}

func decodeImportResult(t *testing.T, resp *http.Response) service.ImportResult {
	t.Helper()
	var body struct {
		Data service.ImportResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Data
}

func TestImportBuyersAcceptsMultipartFile(t *testing.T) {
	app, leads := newImportTestApp()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "leads.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, importPayload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/v1/buyers/import", &buf)
	require.NoError(t, err)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeImportResult(t, resp)
	assert.Equal(t, 1, result.SucceededCount)
	assert.Empty(t, result.FailedRows)

	page, err := leads.List(req.Context(), service.ListParams{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
}

func TestImportBuyersAcceptsRawBody(t *testing.T) {
	app, leads := newImportTestApp()

	req, err := http.NewRequest(http.MethodPost, "/api/v1/buyers/import", strings.NewReader(importPayload))
	require.NoError(t, err)
	req.Header.Set(fiber.HeaderContentType, "text/csv")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeImportResult(t, resp)
	assert.Equal(t, 1, result.SucceededCount)

	page, err := leads.List(req.Context(), service.ListParams{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
}
