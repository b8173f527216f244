package service

import (
	"context"

	"github.com/spec-kit/buyer-lead-service/internal/leadcsv"
	"github.com/spec-kit/buyer-lead-service/internal/repository"
)

// ExportService serializes filtered lead sets to CSV.
type ExportService struct {
	buyers repository.BuyerRepository
}

// NewExportService constructs the service.
func NewExportService(buyers repository.BuyerRepository) *ExportService {
	return &ExportService{buyers: buyers}
}

// ExportCSV takes the same filter and search parameters as the listing but
// runs unpaginated over the entire matching set. Any query error fails the
// whole export.
func (s *ExportService) ExportCSV(ctx context.Context, params ListParams) (string, error) {
	filter := filterFromParams(params)
	buyers, err := s.buyers.ListWithFilter(ctx, filter)
	if err != nil {
		return "", err
	}
	return leadcsv.Marshal(buyers)
}
