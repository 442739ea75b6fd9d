// internal/repository/wedding_repository.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vendor-matching-workers/internal/matching"
	"vendor-matching-workers/internal/models"

	"github.com/lib/pq"
)

var _ matching.WeddingStore = (*WeddingRepository)(nil)

// WeddingRepository loads the couple's planning parameters.
type WeddingRepository struct {
	db *sql.DB
}

func NewWeddingRepository(db *sql.DB) *WeddingRepository {
	return &WeddingRepository{db: db}
}

func (r *WeddingRepository) GetWeddingRequest(ctx context.Context, id string) (*models.WeddingRequest, error) {
	var (
		req                         models.WeddingRequest
		weddingDate                 sql.NullTime
		location                    sql.NullString
		styles, categories          []string
		prioritiesJSON, preferences []byte
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, total_budget, guest_count, wedding_date, styles, location,
		       priorities, preferences, categories
		FROM wedding_requests
		WHERE id = $1`, id).Scan(
		&req.ID, &req.TotalBudget, &req.GuestCount, &weddingDate,
		pq.Array(&styles), &location, &prioritiesJSON, &preferences, pq.Array(&categories),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, matching.ErrWeddingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query wedding request %s: %w", id, err)
	}

	if weddingDate.Valid {
		d := weddingDate.Time
		req.WeddingDate = &d
	}
	req.Location = location.String
	req.Styles = styles

	if len(prioritiesJSON) > 0 {
		if err := json.Unmarshal(prioritiesJSON, &req.Priorities); err != nil {
			return nil, fmt.Errorf("%w: priorities of wedding %s: %v", ErrDecodeFailed, id, err)
		}
	}
	if len(preferences) > 0 {
		if err := json.Unmarshal(preferences, &req.Preferences); err != nil {
			return nil, fmt.Errorf("%w: preferences of wedding %s: %v", ErrDecodeFailed, id, err)
		}
	}

	for _, name := range categories {
		c, err := models.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("%w: wedding %s: %v", ErrDecodeFailed, id, err)
		}
		req.Categories = append(req.Categories, c)
	}

	return &req, nil
}
