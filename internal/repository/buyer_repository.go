package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/buyer-lead-service/internal/domain"
)

// ErrStaleVersion is returned when a guarded update matches no row because
// another writer committed since the caller loaded the record.
var ErrStaleVersion = errors.New("stale version token")

// ErrNotFound is returned when no buyer exists for the given id.
var ErrNotFound = errors.New("buyer not found")

// BuyerFilter captures list, search and pagination parameters. A zero Limit
// means unbounded (used by CSV export).
type BuyerFilter struct {
	City         *domain.City
	PropertyType *domain.PropertyType
	Status       *domain.LeadStatus
	Timeline     *domain.Timeline
	Search       *string
	Limit        int
	Offset       int
}

// BuyerRepository encapsulates buyer lead persistence.
type BuyerRepository interface {
	Create(ctx context.Context, buyer *domain.Buyer) error
	GetByID(ctx context.Context, id string) (*domain.Buyer, error)
	ListWithFilter(ctx context.Context, filter BuyerFilter) ([]domain.Buyer, error)
	CountWithFilter(ctx context.Context, filter BuyerFilter) (int, error)
	// UpdateWithHistory persists the buyer's new field values guarded by the
	// expected version token and, when diff is non-empty, inserts the history
	// entry in the same transaction. On success buyer.UpdatedAt carries the
	// advanced token.
	UpdateWithHistory(ctx context.Context, buyer *domain.Buyer, expectedUpdatedAt time.Time, d domain.Diff) error
}

type buyerRepository struct {
	pool *pgxpool.Pool
}

// NewBuyerRepository instantiates repository.
func NewBuyerRepository(pool *pgxpool.Pool) BuyerRepository {
	return &buyerRepository{pool: pool}
}

const buyerColumns = `id, full_name, email, phone, city, property_type, bhk, purpose,
               budget_min, budget_max, timeline, source, status, notes, tags, owner_id,
               created_at, updated_at`

func (r *buyerRepository) Create(ctx context.Context, buyer *domain.Buyer) error {
	const query = `
        INSERT INTO buyers (full_name, email, phone, city, property_type, bhk, purpose,
                            budget_min, budget_max, timeline, source, status, notes, tags, owner_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		buyer.FullName,
		buyer.Email,
		buyer.Phone,
		buyer.City,
		buyer.PropertyType,
		buyer.BHK,
		buyer.Purpose,
		buyer.BudgetMin,
		buyer.BudgetMax,
		buyer.Timeline,
		buyer.Source,
		buyer.Status,
		buyer.Notes,
		buyer.Tags,
		buyer.OwnerID,
	).Scan(&buyer.ID, &buyer.CreatedAt, &buyer.UpdatedAt)
}

func (r *buyerRepository) GetByID(ctx context.Context, id string) (*domain.Buyer, error) {
	query := fmt.Sprintf(`SELECT %s FROM buyers WHERE id=$1`, buyerColumns)
	var buyer domain.Buyer
	if err := scanBuyer(r.pool.QueryRow(ctx, query, id), &buyer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepository) ListWithFilter(ctx context.Context, filter BuyerFilter) ([]domain.Buyer, error) {
	clauses, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT %s FROM buyers WHERE %s ORDER BY updated_at DESC, id ASC`,
		buyerColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, max(filter.Offset, 0))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBuyers(rows)
}

func (r *buyerRepository) CountWithFilter(ctx context.Context, filter BuyerFilter) (int, error) {
	clauses, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM buyers WHERE %s`, strings.Join(clauses, " AND "))
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *buyerRepository) UpdateWithHistory(ctx context.Context, buyer *domain.Buyer, expectedUpdatedAt time.Time, d domain.Diff) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const update = `
        UPDATE buyers SET full_name=$1, email=$2, phone=$3, city=$4, property_type=$5,
            bhk=$6, purpose=$7, budget_min=$8, budget_max=$9, timeline=$10, source=$11,
            status=$12, notes=$13, tags=$14, updated_at=NOW()
        WHERE id=$15 AND updated_at=$16
        RETURNING updated_at`
	err = tx.QueryRow(ctx, update,
		buyer.FullName,
		buyer.Email,
		buyer.Phone,
		buyer.City,
		buyer.PropertyType,
		buyer.BHK,
		buyer.Purpose,
		buyer.BudgetMin,
		buyer.BudgetMax,
		buyer.Timeline,
		buyer.Source,
		buyer.Status,
		buyer.Notes,
		buyer.Tags,
		buyer.ID,
		expectedUpdatedAt,
	).Scan(&buyer.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStaleVersion
	}
	if err != nil {
		return err
	}

	if len(d) > 0 {
		payload, err := json.Marshal(d)
		if err != nil {
			return err
		}
		const insert = `INSERT INTO buyer_history (buyer_id, changed_at, diff) VALUES ($1, NOW(), $2)`
		if _, err := tx.Exec(ctx, insert, buyer.ID, payload); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func filterClauses(filter BuyerFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.City != nil {
		args = append(args, *filter.City)
		clauses = append(clauses, fmt.Sprintf("city=$%d", len(args)))
	}
	if filter.PropertyType != nil {
		args = append(args, *filter.PropertyType)
		clauses = append(clauses, fmt.Sprintf("property_type=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Timeline != nil {
		args = append(args, *filter.Timeline)
		clauses = append(clauses, fmt.Sprintf("timeline=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		// LIKE metacharacters in the needle match literally
		search := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(*filter.Search))) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(full_name) LIKE %s OR LOWER(phone) LIKE %s OR (email IS NOT NULL AND LOWER(email) LIKE %s))",
			placeholder, placeholder, placeholder))
	}

	return clauses, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuyer(row rowScanner, buyer *domain.Buyer) error {
	return row.Scan(
		&buyer.ID,
		&buyer.FullName,
		&buyer.Email,
		&buyer.Phone,
		&buyer.City,
		&buyer.PropertyType,
		&buyer.BHK,
		&buyer.Purpose,
		&buyer.BudgetMin,
		&buyer.BudgetMax,
		&buyer.Timeline,
		&buyer.Source,
		&buyer.Status,
		&buyer.Notes,
		&buyer.Tags,
		&buyer.OwnerID,
		&buyer.CreatedAt,
		&buyer.UpdatedAt,
	)
}

func scanBuyers(rows pgx.Rows) ([]domain.Buyer, error) {
	var result []domain.Buyer
	for rows.Next() {
		var buyer domain.Buyer
		if err := scanBuyer(rows, &buyer); err != nil {
			return nil, err
		}
		result = append(result, buyer)
	}
	return result, rows.Err()
}
