package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type PostgresSeatInventoryRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatInventoryRepository(db *pgxpool.Pool) *PostgresSeatInventoryRepository {
	return &PostgresSeatInventoryRepository{
		db: db,
	}
}

func (p *PostgresSeatInventoryRepository) FindConflicts(
	ctx context.Context,
	showID int,
	labels []string,
	now time.Time) ([]string, error) {

	var conflicts []string

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var err error
		conflicts, err = findConflictsTx(ctx, tx, showID, labels, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return conflicts, nil
}

func (p *PostgresSeatInventoryRepository) BookedSeats(
	ctx context.Context,
	showID int,
	now time.Time) ([]string, error) {

	query := `
		SELECT seat_label
		FROM seat_holds
		WHERE show_id = $1
		  AND (status = 'confirmed' OR (status = 'held' AND held_until > $2))
		ORDER BY seat_label
	`

	rows, err := p.db.Query(ctx, query, showID, now)
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

// expireStaleHoldsTx flips lapsed 'held' rows for the requested labels to
// 'expired' so the partial unique index no longer counts them. Serialized
// inserts for the same labels block on these row updates, which is what
// forces concurrent claims of a seat into a strict order.
func expireStaleHoldsTx(
	ctx context.Context,
	tx pgx.Tx,
	showID int,
	labels []string,
	now time.Time) error {

	query := `
		UPDATE seat_holds
		SET status = 'expired'
		WHERE show_id = $1
		  AND seat_label = ANY($2)
		  AND status = 'held'
		  AND held_until <= $3
	`

	_, err := tx.Exec(ctx, query, showID, labels, now)
	return err
}

// findConflictsTx returns the subset of labels that cannot be claimed:
// seats with a live hold or confirmation, plus seats blocked for the
// show's screen.
func findConflictsTx(
	ctx context.Context,
	tx pgx.Tx,
	showID int,
	labels []string,
	now time.Time) ([]string, error) {

	query := `
		SELECT seat_label
		FROM seat_holds
		WHERE show_id = $1
		  AND seat_label = ANY($2)
		  AND (status = 'confirmed' OR (status = 'held' AND held_until > $3))
		UNION
		SELECT b.seat_label
		FROM blocked_seats b
		JOIN shows s ON s.screen_id = b.screen_id
		WHERE s.id = $1
		  AND b.seat_label = ANY($2)
		ORDER BY seat_label
	`

	rows, err := tx.Query(ctx, query, showID, labels, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conflicts []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, label)
	}

	return conflicts, rows.Err()
}

// placeHoldsTx inserts one 'held' row per seat, attached to the booking.
// The partial unique index on (show_id, seat_label) is the backstop for
// the race two transactions can still lose to despite the conflict check.
func placeHoldsTx(
	ctx context.Context,
	tx pgx.Tx,
	showID, bookingID, userID int,
	classified map[string][]string,
	heldUntil time.Time) error {

	query := `
		INSERT INTO seat_holds (show_id, seat_label, category, status, held_until, booking_id, user_id)
		VALUES ($1, $2, $3, 'held', $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for category, labels := range classified {
		for _, label := range labels {
			batch.Queue(query, showID, label, category, heldUntil, bookingID, userID)
		}
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return domain.SeatConflictError{}
			}
			return err
		}
	}

	return nil
}

// promoteHoldsTx confirms a booking's live holds. Rows whose window has
// already lapsed are left alone; the caller decides whether zero promoted
// rows is acceptable.
func promoteHoldsTx(ctx context.Context, tx pgx.Tx, bookingID int, now time.Time) (int, error) {
	query := `
		UPDATE seat_holds
		SET status = 'confirmed', held_until = NULL
		WHERE booking_id = $1
		  AND status = 'held'
		  AND held_until > $2
	`

	tag, err := tx.Exec(ctx, query, bookingID, now)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

// releaseSeatsTx cancels every non-terminal row of a booking. The rows stay
// attached so booking history keeps its seat labels; matching zero rows is
// fine, so the call is safe to repeat.
func releaseSeatsTx(ctx context.Context, tx pgx.Tx, bookingID int) error {
	query := `
		UPDATE seat_holds
		SET status = 'cancelled', held_until = NULL
		WHERE booking_id = $1
		  AND status IN ('held', 'confirmed')
	`

	_, err := tx.Exec(ctx, query, bookingID)
	return err
}

// countLiveHoldsTx reports how many of a booking's seats are still claimable
// at the given instant.
func countLiveHoldsTx(ctx context.Context, tx pgx.Tx, bookingID int, now time.Time) (int, error) {
	query := `
		SELECT count(*)
		FROM seat_holds
		WHERE booking_id = $1
		  AND (status = 'confirmed' OR (status = 'held' AND held_until > $2))
	`

	var n int
	err := tx.QueryRow(ctx, query, bookingID, now).Scan(&n)
	return n, err
}

func bookingSeatLabelsTx(ctx context.Context, tx pgx.Tx, bookingID int) ([]string, error) {
	query := `
		SELECT seat_label
		FROM seat_holds
		WHERE booking_id = $1
		ORDER BY seat_label
	`

	rows, err := tx.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}
