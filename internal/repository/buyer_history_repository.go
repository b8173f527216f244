package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/buyer-lead-service/internal/domain"
)

// BuyerHistoryRepository reads the append-only change log. Entries are only
// ever written through BuyerRepository.UpdateWithHistory so the diff and the
// persisted record can never disagree.
type BuyerHistoryRepository interface {
	ListByBuyer(ctx context.Context, buyerID string, limit int) ([]domain.BuyerHistory, error)
}

type buyerHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewBuyerHistoryRepository builds repository.
func NewBuyerHistoryRepository(pool *pgxpool.Pool) BuyerHistoryRepository {
	return &buyerHistoryRepository{pool: pool}
}

func (r *buyerHistoryRepository) ListByBuyer(ctx context.Context, buyerID string, limit int) ([]domain.BuyerHistory, error) {
	const query = `
        SELECT id, buyer_id, changed_at, diff
        FROM buyer_history WHERE buyer_id=$1 ORDER BY changed_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, buyerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BuyerHistory
	for rows.Next() {
		var entry domain.BuyerHistory
		var payload []byte
		if err := rows.Scan(&entry.ID, &entry.BuyerID, &entry.ChangedAt, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &entry.Diff); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
