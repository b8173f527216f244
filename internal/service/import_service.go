package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spec-kit/buyer-lead-service/internal/events"
	"github.com/spec-kit/buyer-lead-service/internal/leadcsv"
	"github.com/spec-kit/buyer-lead-service/internal/validation"
	apperrors "github.com/spec-kit/buyer-lead-service/pkg/util"
)

// FailedRow reports every constraint a single CSV row violated. Row numbers
// match the spreadsheet: header is row 1, data starts at row 2.
type FailedRow struct {
	Row    int                `json:"row"`
	Issues []validation.Issue `json:"issues"`
}

// ImportResult summarizes a bulk import. The call succeeds even when every
// row fails validation, as long as the file itself parsed.
type ImportResult struct {
	Message        string      `json:"message"`
	SucceededCount int         `json:"succeededCount"`
	FailedRows     []FailedRow `json:"failedRows"`
}

// ImportService runs the CSV bulk import pipeline.
type ImportService struct {
	leads *LeadService
}

// NewImportService constructs the service.
func NewImportService(leads *LeadService) *ImportService {
	return &ImportService{leads: leads}
}

// ImportCSV validates and persists each data row independently: a bad row
// never blocks good rows from committing, and there is no transaction
// spanning the file. Structural problems (unparsable CSV, missing required
// headers, more than the row cap) reject the whole file before any row is
// processed.
func (s *ImportService) ImportCSV(ctx context.Context, ownerID string, r io.Reader) (*ImportResult, error) {
	rows, err := leadcsv.ParseImport(r)
	if err != nil {
		return nil, malformedFileError(err)
	}

	result := &ImportResult{FailedRows: []FailedRow{}}
	for _, row := range rows {
		validated, issues := validation.ValidateBuyer(row.Input)
		if issues != nil {
			result.FailedRows = append(result.FailedRows, FailedRow{Row: row.Number, Issues: issues})
			continue
		}
		if _, err := s.leads.createValidated(ctx, ownerID, validated); err != nil {
			// store failure is fatal for the operation; rows already
			// committed stay committed
			return nil, err
		}
		result.SucceededCount++
	}

	result.Message = fmt.Sprintf("Imported %d lead(s) successfully, %d row(s) failed validation.",
		result.SucceededCount, len(result.FailedRows))

	s.leads.publishEvent(ctx, events.Event{
		Type:    events.EventLeadsImported,
		OwnerID: ownerID,
		Payload: events.LeadsImportedPayload{
			SucceededCount: result.SucceededCount,
			FailedCount:    len(result.FailedRows),
		},
	})
	return result, nil
}

func malformedFileError(err error) error {
	var missing *leadcsv.MissingColumnsError
	if errors.As(err, &missing) {
		return apperrors.NewMalformedFile(missing.Error(), map[string]any{"missingColumns": missing.Columns})
	}
	if errors.Is(err, leadcsv.ErrTooManyRows) {
		return apperrors.NewMalformedFile(err.Error(), map[string]any{"maxRows": leadcsv.MaxImportRows})
	}
	return apperrors.NewMalformedFile("file could not be parsed as CSV", map[string]any{"cause": err.Error()})
}
