// Package leadcsv converts buyer leads to and from CSV. It is pure: parsing
// and serialization never touch the store, so the import/export services can
// be tested row by row.
package leadcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/buyer-lead-service/internal/domain"
	"github.com/spec-kit/buyer-lead-service/internal/validation"
)

// MaxImportRows caps the number of data rows a single import may carry.
// Larger files are rejected whole before any row is processed.
const MaxImportRows = 200

// ErrTooManyRows is returned when an import file exceeds MaxImportRows.
var ErrTooManyRows = fmt.Errorf("csv file exceeds the %d data row limit", MaxImportRows)

// MissingColumnsError reports required header columns absent from the file.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "csv header is missing required columns: " + strings.Join(e.Columns, ", ")
}

// requiredColumns must appear in the import header. Optional known columns
// may be omitted; unknown columns are ignored.
var requiredColumns = []string{"fullName", "phone", "city", "propertyType", "purpose", "timeline", "source"}

var exportColumns = []string{
	"id", "fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "status", "notes", "tags",
	"ownerId", "updatedAt",
}

// Row pairs a spreadsheet row number (header = row 1, data starts at row 2)
// with the raw input parsed from it.
type Row struct {
	Number int
	Input  validation.BuyerInput
}

// ParseImport reads the whole CSV payload into raw rows. It fails on
// structural problems only: unparsable CSV, missing required header columns,
// or more than MaxImportRows data rows. Field-level validation is the
// caller's job.
func ParseImport(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("csv file has no header row")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	data := records[1:]
	if len(data) > MaxImportRows {
		return nil, ErrTooManyRows
	}

	rows := make([]Row, 0, len(data))
	for i, record := range data {
		field := func(name string) string {
			col, ok := index[name]
			if !ok || col >= len(record) {
				return ""
			}
			return record[col]
		}
		rows = append(rows, Row{
			Number: i + 2,
			Input: validation.BuyerInput{
				FullName:     field("fullName"),
				Email:        field("email"),
				Phone:        field("phone"),
				City:         field("city"),
				PropertyType: field("propertyType"),
				BHK:          field("bhk"),
				Purpose:      field("purpose"),
				BudgetMin:    field("budgetMin"),
				BudgetMax:    field("budgetMax"),
				Timeline:     field("timeline"),
				Source:       field("source"),
				Status:       field("status"),
				Notes:        field("notes"),
				Tags:         field("tags"),
			},
		})
	}
	return rows, nil
}

// Marshal serializes leads to CSV text with the full field set, one row per
// lead, standard double-quote escaping.
func Marshal(buyers []domain.Buyer) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if err := writer.Write(exportColumns); err != nil {
		return "", err
	}
	for i := range buyers {
		if err := writer.Write(exportRecord(&buyers[i])); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func exportRecord(buyer *domain.Buyer) []string {
	return []string{
		buyer.ID,
		buyer.FullName,
		stringOrEmpty(buyer.Email),
		buyer.Phone,
		string(buyer.City),
		string(buyer.PropertyType),
		bhkOrEmpty(buyer.BHK),
		string(buyer.Purpose),
		intOrEmpty(buyer.BudgetMin),
		intOrEmpty(buyer.BudgetMax),
		string(buyer.Timeline),
		string(buyer.Source),
		string(buyer.Status),
		stringOrEmpty(buyer.Notes),
		buyer.Tags,
		buyer.OwnerID,
		buyer.UpdatedAt.Format(time.RFC3339),
	}
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func bhkOrEmpty(v *domain.BHK) string {
	if v == nil {
		return ""
	}
	return string(*v)
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
