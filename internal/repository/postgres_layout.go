package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type PostgresLayoutRepository struct {
	db *pgxpool.Pool
}

func NewPostgresLayoutRepository(db *pgxpool.Pool) *PostgresLayoutRepository {
	return &PostgresLayoutRepository{
		db: db,
	}
}

func (p *PostgresLayoutRepository) GetByScreenID(ctx context.Context, screenID int) (domain.SeatLayout, error) {
	query := `
		SELECT seat_layout
		FROM screens
		WHERE id = $1
	`

	var layout domain.SeatLayout
	err := p.db.QueryRow(ctx, query, screenID).Scan(&layout)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	if len(layout) == 0 {
		return nil, domain.ErrLayoutNotConfigured
	}

	return layout, nil
}

func (p *PostgresLayoutRepository) GetBlockedSeats(ctx context.Context, screenID int) ([]string, error) {
	query := `
		SELECT seat_label
		FROM blocked_seats
		WHERE screen_id = $1
		ORDER BY seat_label
	`

	rows, err := p.db.Query(ctx, query, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}

// BlockSeats marks seats as unavailable for every show on the screen.
// Already-blocked labels are skipped rather than rejected.
func (p *PostgresLayoutRepository) BlockSeats(ctx context.Context, screenID int, labels []string) error {
	query := `
		INSERT INTO blocked_seats (screen_id, seat_label)
		VALUES ($1, $2)
		ON CONFLICT (screen_id, seat_label) DO NOTHING
	`

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		for _, label := range labels {
			if _, err := tx.Exec(ctx, query, screenID, label); err != nil {
				return err
			}
		}
		return nil
	})
}
