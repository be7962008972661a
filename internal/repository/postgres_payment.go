package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

// Initiate re-derives the amount from the booking's live holds and the
// show's current pricing, then records a pending payment. A booking whose
// holds have all lapsed is force-failed; that state change must stick, so
// the transaction commits and ErrNoLiveHolds is returned afterwards.
func (p *PostgresPaymentRepository) Initiate(ctx context.Context, params domain.InitiatePaymentParams) (*domain.PaymentIntent, error) {
	var (
		intent    domain.PaymentIntent
		noLive    bool
		bookingID int
	)

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT b.id, b.show_id, b.status
			FROM bookings b
			WHERE b.reference = $1 AND b.user_id = $2
			FOR UPDATE
		`

		var (
			showID int
			status domain.BookingStatus
		)
		err := tx.QueryRow(ctx, query, params.Reference, params.UserID).Scan(&bookingID, &showID, &status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		if status != domain.BookingPending {
			return domain.ErrBookingNotPending
		}

		err = expireBookingHoldsTx(ctx, tx, bookingID, params.Now)
		if err != nil {
			return err
		}

		live, err := countLiveHoldsTx(ctx, tx, bookingID, params.Now)
		if err != nil {
			return err
		}
		if live == 0 {
			noLive = true
			return failBookingTx(ctx, tx, bookingID, params.Now)
		}

		classified, err := liveHoldsByCategoryTx(ctx, tx, bookingID, params.Now)
		if err != nil {
			return err
		}

		pricing, err := showPricingTx(ctx, tx, showID)
		if err != nil {
			return err
		}

		tickets, err := domain.TicketTotal(classified, pricing)
		if err != nil {
			return err
		}

		fnb := decimal.Zero
		if params.IncludesFnb {
			fnb, err = fnbTotalTx(ctx, tx, bookingID)
			if err != nil {
				return err
			}
		}

		breakdown := domain.DeriveTotal(tickets, fnb)

		update := `
			UPDATE bookings
			SET total_amount = $2, updated_at = $3
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, update, bookingID, breakdown.Total, params.Now); err != nil {
			return err
		}

		snapshot, err := json.Marshal(breakdown)
		if err != nil {
			return err
		}

		insert := `
			INSERT INTO payments (booking_id, transaction_id, method, amount, breakdown, status, created_at)
			VALUES ($1, $2, $3, $4, $5, 'pending', $6)
		`

		if _, err := tx.Exec(ctx, insert, bookingID, params.TransactionID, params.Method, breakdown.Total, snapshot, params.Now); err != nil {
			return err
		}

		intent = domain.PaymentIntent{
			TransactionID: params.TransactionID,
			Amount:        breakdown.Total,
			Breakdown:     breakdown,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if noLive {
		return nil, domain.ErrNoLiveHolds
	}

	return &intent, nil
}

// Confirm resolves a pending payment. On success the booking's live holds
// are promoted to confirmed; if every hold lapsed between initiation and
// confirmation, the booking is force-failed instead and the commit kept,
// mirroring Initiate.
func (p *PostgresPaymentRepository) Confirm(ctx context.Context, params domain.ConfirmPaymentParams) (*domain.PaymentOutcome, error) {
	var (
		outcome domain.PaymentOutcome
		noLive  bool
	)
	now := time.Now().UTC()

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT p.id, p.status, b.id, b.status, b.contact_email,
			       m.title, s.starts_at
			FROM payments p
			JOIN bookings b ON b.id = p.booking_id
			JOIN shows s ON s.id = b.show_id
			JOIN movies m ON m.id = s.movie_id
			WHERE p.transaction_id = $1 AND b.reference = $2 AND b.user_id = $3
			FOR UPDATE OF p, b
		`

		var (
			paymentID     int
			paymentStatus domain.PaymentStatus
			bookingID     int
			bookingStatus domain.BookingStatus
		)
		err := tx.QueryRow(ctx, query, params.TransactionID, params.Reference, params.UserID).Scan(
			&paymentID,
			&paymentStatus,
			&bookingID,
			&bookingStatus,
			&outcome.UserEmail,
			&outcome.MovieTitle,
			&outcome.ShowStartsAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		if paymentStatus != domain.PaymentStatusPending {
			return domain.ErrPaymentAlreadyResolved
		}
		if bookingStatus != domain.BookingPending {
			return domain.ErrBookingNotPending
		}

		if !params.Success {
			if err := resolveTx(ctx, tx, paymentID, bookingID, domain.PaymentStatusFailed, now); err != nil {
				return err
			}
			if err := releaseSeatsTx(ctx, tx, bookingID); err != nil {
				return err
			}

			outcome.BookingStatus = domain.BookingFailed
			outcome.PaymentStatus = domain.PaymentFailed
			return nil
		}

		promoted, err := promoteHoldsTx(ctx, tx, bookingID, now)
		if err != nil {
			return err
		}
		if promoted == 0 {
			noLive = true
			if err := resolveTx(ctx, tx, paymentID, bookingID, domain.PaymentStatusFailed, now); err != nil {
				return err
			}
			return releaseSeatsTx(ctx, tx, bookingID)
		}

		if err := resolveTx(ctx, tx, paymentID, bookingID, domain.PaymentStatusPaid, now); err != nil {
			return err
		}

		outcome.Seats, err = bookingSeatLabelsTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		outcome.BookingStatus = domain.BookingConfirmed
		outcome.PaymentStatus = domain.PaymentPaid
		return nil
	})
	if err != nil {
		return nil, err
	}

	if noLive {
		return nil, domain.ErrNoLiveHolds
	}

	return &outcome, nil
}

// resolveTx writes the terminal state of a payment and its booking in
// lockstep: paid/confirmed or failed/failed.
func resolveTx(
	ctx context.Context,
	tx pgx.Tx,
	paymentID, bookingID int,
	status domain.PaymentStatus,
	now time.Time) error {

	bookingStatus := domain.BookingConfirmed
	paymentState := domain.PaymentPaid
	if status == domain.PaymentStatusFailed {
		bookingStatus = domain.BookingFailed
		paymentState = domain.PaymentFailed
	}

	payment := `
		UPDATE payments
		SET status = $2, resolved_at = $3
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, payment, paymentID, status, now); err != nil {
		return err
	}

	booking := `
		UPDATE bookings
		SET status = $2, payment_status = $3, updated_at = $4
		WHERE id = $1
	`
	_, err := tx.Exec(ctx, booking, bookingID, bookingStatus, paymentState, now)
	return err
}

func failBookingTx(ctx context.Context, tx pgx.Tx, bookingID int, now time.Time) error {
	query := `
		UPDATE bookings
		SET status = 'failed', payment_status = 'failed', updated_at = $2
		WHERE id = $1
	`

	_, err := tx.Exec(ctx, query, bookingID, now)
	return err
}

// expireBookingHoldsTx flips a booking's lapsed holds, the per-booking
// counterpart of expireStaleHoldsTx.
func expireBookingHoldsTx(ctx context.Context, tx pgx.Tx, bookingID int, now time.Time) error {
	query := `
		UPDATE seat_holds
		SET status = 'expired'
		WHERE booking_id = $1
		  AND status = 'held'
		  AND held_until <= $2
	`

	_, err := tx.Exec(ctx, query, bookingID, now)
	return err
}

func liveHoldsByCategoryTx(ctx context.Context, tx pgx.Tx, bookingID int, now time.Time) (map[string][]string, error) {
	query := `
		SELECT category, seat_label
		FROM seat_holds
		WHERE booking_id = $1
		  AND (status = 'confirmed' OR (status = 'held' AND held_until > $2))
		ORDER BY seat_label
	`

	rows, err := tx.Query(ctx, query, bookingID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classified := map[string][]string{}
	for rows.Next() {
		var category, label string
		if err := rows.Scan(&category, &label); err != nil {
			return nil, err
		}
		classified[category] = append(classified[category], label)
	}

	return classified, rows.Err()
}

func showPricingTx(ctx context.Context, tx pgx.Tx, showID int) (map[string]decimal.Decimal, error) {
	query := `
		SELECT category, price
		FROM show_pricing
		WHERE show_id = $1
	`

	rows, err := tx.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pricing := map[string]decimal.Decimal{}
	for rows.Next() {
		var category string
		var price decimal.Decimal
		if err := rows.Scan(&category, &price); err != nil {
			return nil, err
		}
		pricing[category] = price
	}

	return pricing, rows.Err()
}

func fnbTotalTx(ctx context.Context, tx pgx.Tx, bookingID int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(sum(unit_price * quantity), 0)
		FROM fnb_orders
		WHERE booking_id = $1
	`

	var total decimal.Decimal
	err := tx.QueryRow(ctx, query, bookingID).Scan(&total)
	return total, err
}
