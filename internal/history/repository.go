package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/swingpick/internal/selection"
)

// Repository archives selection rows in PostgreSQL. Optional: only wired
// when DATABASE_URL is configured; the file Store stays the primary record.
// ⭐ SSOT: pick 테이블 저장은 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new history repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SavePicks replaces the archived rows for the given pick date.
// 같은 날 재실행하면 같은 입력은 같은 행을 남긴다.
func (r *Repository) SavePicks(ctx context.Context, date time.Time, picks []selection.Pick) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "DELETE FROM swing.picks WHERE pick_date = $1", date)
	if err != nil {
		return fmt.Errorf("failed to delete old picks: %w", err)
	}

	query := `
		INSERT INTO swing.picks (
			pick_date, pick_order, stock_name, stock_code, mcap_rank,
			price, stop_price, target_price, strength, strength_score, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for i, p := range picks {
		_, err := tx.Exec(ctx, query,
			date, i+1, p.Name, p.Code, p.Rank,
			p.Price, p.Stop, p.Target, p.RawScore, p.Score, p.Reason,
		)
		if err != nil {
			return fmt.Errorf("failed to insert pick: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
