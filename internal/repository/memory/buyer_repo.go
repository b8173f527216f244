// Package memory holds in-memory implementations of the repository
// interfaces, used by service tests in place of a live database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/buyer-lead-service/internal/domain"
	"github.com/spec-kit/buyer-lead-service/internal/repository"
)

// BuyerRepo implements repository.BuyerRepository and
// repository.BuyerHistoryRepository over maps.
type BuyerRepo struct {
	mu      sync.RWMutex
	buyers  map[string]domain.Buyer
	history map[string][]domain.BuyerHistory
	lastTS  time.Time
}

// NewBuyerRepo creates an empty store.
func NewBuyerRepo() *BuyerRepo {
	return &BuyerRepo{
		buyers:  make(map[string]domain.Buyer),
		history: make(map[string][]domain.BuyerHistory),
	}
}

// now returns a strictly increasing timestamp so consecutive mutations in a
// fast test never share a version token.
func (r *BuyerRepo) now() time.Time {
	ts := time.Now().UTC()
	if !ts.After(r.lastTS) {
		ts = r.lastTS.Add(time.Microsecond)
	}
	r.lastTS = ts
	return ts
}

func (r *BuyerRepo) Create(_ context.Context, buyer *domain.Buyer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts := r.now()
	buyer.ID = uuid.NewString()
	buyer.CreatedAt = ts
	buyer.UpdatedAt = ts
	r.buyers[buyer.ID] = *buyer
	return nil
}

func (r *BuyerRepo) GetByID(_ context.Context, id string) (*domain.Buyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	buyer, ok := r.buyers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &buyer, nil
}

func (r *BuyerRepo) ListWithFilter(_ context.Context, filter repository.BuyerFilter) ([]domain.Buyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if filter.Limit <= 0 {
		return matched, nil
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []domain.Buyer{}, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *BuyerRepo) CountWithFilter(_ context.Context, filter repository.BuyerFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.match(filter)), nil
}

func (r *BuyerRepo) UpdateWithHistory(_ context.Context, buyer *domain.Buyer, expectedUpdatedAt time.Time, d domain.Diff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.buyers[buyer.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return repository.ErrStaleVersion
	}

	ts := r.now()
	buyer.CreatedAt = stored.CreatedAt
	buyer.OwnerID = stored.OwnerID
	buyer.UpdatedAt = ts
	r.buyers[buyer.ID] = *buyer

	if len(d) > 0 {
		copied := make(domain.Diff, len(d))
		for field, change := range d {
			copied[field] = change
		}
		r.history[buyer.ID] = append(r.history[buyer.ID], domain.BuyerHistory{
			ID:        uuid.NewString(),
			BuyerID:   buyer.ID,
			ChangedAt: ts,
			Diff:      copied,
		})
	}
	return nil
}

func (r *BuyerRepo) ListByBuyer(_ context.Context, buyerID string, limit int) ([]domain.BuyerHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := append([]domain.BuyerHistory{}, r.history[buyerID]...)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ChangedAt.After(entries[j].ChangedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *BuyerRepo) match(filter repository.BuyerFilter) []domain.Buyer {
	var matched []domain.Buyer
	for _, buyer := range r.buyers {
		if filter.City != nil && buyer.City != *filter.City {
			continue
		}
		if filter.PropertyType != nil && buyer.PropertyType != *filter.PropertyType {
			continue
		}
		if filter.Status != nil && buyer.Status != *filter.Status {
			continue
		}
		if filter.Timeline != nil && buyer.Timeline != *filter.Timeline {
			continue
		}
		if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
			needle := strings.ToLower(strings.TrimSpace(*filter.Search))
			email := ""
			if buyer.Email != nil {
				email = strings.ToLower(*buyer.Email)
			}
			if !strings.Contains(strings.ToLower(buyer.FullName), needle) &&
				!strings.Contains(buyer.Phone, needle) &&
				!(email != "" && strings.Contains(email, needle)) {
				continue
			}
		}
		matched = append(matched, buyer)
	}
	return matched
}
