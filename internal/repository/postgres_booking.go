package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create runs the hold-placement transaction: expire lapsed holds for the
// requested labels, check for conflicts, insert the pending booking row, and
// place one hold per seat attached to it. Losing the insert race to a
// concurrent transaction surfaces as SeatConflictError, same as losing the
// conflict check.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking domain.NewBooking) (*domain.Booking, error) {
	now := time.Now().UTC()
	labels := booking.Labels()

	created := domain.Booking{
		UserID:        booking.UserID,
		ShowID:        booking.ShowID,
		Reference:     booking.Reference,
		TotalAmount:   booking.TotalAmount,
		BookingStatus: domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
		UserEmail:     booking.UserEmail,
		UserMobile:    booking.UserMobile,
	}

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		err := expireStaleHoldsTx(ctx, tx, booking.ShowID, labels, now)
		if err != nil {
			return err
		}

		conflicts, err := findConflictsTx(ctx, tx, booking.ShowID, labels, now)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.SeatConflictError{Labels: conflicts}
		}

		query := `
			INSERT INTO bookings (reference, user_id, show_id, status, payment_status, total_amount, contact_email, contact_mobile, created_at, updated_at)
			VALUES ($1, $2, $3, 'pending', 'pending', $4, $5, $6, $7, $7)
			RETURNING id, created_at
		`

		err = tx.QueryRow(ctx, query,
			booking.Reference,
			booking.UserID,
			booking.ShowID,
			booking.TotalAmount,
			booking.UserEmail,
			booking.UserMobile,
			now,
		).Scan(&created.ID, &created.BookedAt)
		if err != nil {
			return err
		}

		heldUntil := now.Add(booking.HoldWindow)

		return placeHoldsTx(ctx, tx, booking.ShowID, created.ID, booking.UserID, booking.ClassifiedSeats, heldUntil)
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserID(ctx context.Context, userID int) ([]domain.BookingSummary, error) {
	query := `
		SELECT b.reference, b.total_amount, b.status, b.payment_status, b.created_at,
		       m.title, t.name, sc.name, s.starts_at,
		       COALESCE(array_agg(sh.seat_label ORDER BY sh.seat_label) FILTER (WHERE sh.seat_label IS NOT NULL), '{}')
		FROM bookings b
		JOIN shows s ON s.id = b.show_id
		JOIN movies m ON m.id = s.movie_id
		JOIN theaters t ON t.id = s.theater_id
		JOIN screens sc ON sc.id = s.screen_id
		LEFT JOIN seat_holds sh ON sh.booking_id = b.id
		WHERE b.user_id = $1
		GROUP BY b.id, m.title, t.name, sc.name, s.starts_at
		ORDER BY b.created_at DESC
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []domain.BookingSummary{}
	for rows.Next() {
		var s domain.BookingSummary
		err := rows.Scan(
			&s.Reference,
			&s.TotalAmount,
			&s.BookingStatus,
			&s.PaymentStatus,
			&s.BookedAt,
			&s.MovieTitle,
			&s.TheaterName,
			&s.ScreenName,
			&s.ShowStartsAt,
			&s.Seats,
		)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func (p *PostgresBookingRepository) GetByReferenceAndUserID(ctx context.Context, reference string, userID int) (*domain.BookingDetail, error) {
	query := `
		SELECT b.id, b.user_id, b.show_id, b.reference, b.total_amount, b.status, b.payment_status,
		       b.contact_email, b.contact_mobile, b.created_at,
		       m.title, m.poster_url, t.name, t.address, sc.name, s.starts_at,
		       COALESCE(array_agg(sh.seat_label ORDER BY sh.seat_label) FILTER (WHERE sh.seat_label IS NOT NULL), '{}')
		FROM bookings b
		JOIN shows s ON s.id = b.show_id
		JOIN movies m ON m.id = s.movie_id
		JOIN theaters t ON t.id = s.theater_id
		JOIN screens sc ON sc.id = s.screen_id
		LEFT JOIN seat_holds sh ON sh.booking_id = b.id
		WHERE b.reference = $1 AND b.user_id = $2
		GROUP BY b.id, m.title, m.poster_url, t.name, t.address, sc.name, s.starts_at
	`

	var d domain.BookingDetail
	err := p.db.QueryRow(ctx, query, reference, userID).Scan(
		&d.Booking.ID,
		&d.Booking.UserID,
		&d.Booking.ShowID,
		&d.Booking.Reference,
		&d.Booking.TotalAmount,
		&d.Booking.BookingStatus,
		&d.Booking.PaymentStatus,
		&d.Booking.UserEmail,
		&d.Booking.UserMobile,
		&d.Booking.BookedAt,
		&d.MovieTitle,
		&d.MoviePosterUrl,
		&d.TheaterName,
		&d.TheaterAddress,
		&d.ScreenName,
		&d.ShowStartsAt,
		&d.Seats,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &d, nil
}

// Cancel enforces the cancellation rules under a row lock so a concurrent
// cancel or confirm of the same booking serializes behind it.
func (p *PostgresBookingRepository) Cancel(ctx context.Context, reference string, userID int, now time.Time) (*domain.Booking, error) {
	var booking domain.Booking

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT b.id, b.user_id, b.show_id, b.reference, b.total_amount, b.status, b.payment_status,
			       b.contact_email, b.contact_mobile, b.created_at, s.starts_at
			FROM bookings b
			JOIN shows s ON s.id = b.show_id
			WHERE b.reference = $1 AND b.user_id = $2
			FOR UPDATE OF b
		`

		var startsAt time.Time
		err := tx.QueryRow(ctx, query, reference, userID).Scan(
			&booking.ID,
			&booking.UserID,
			&booking.ShowID,
			&booking.Reference,
			&booking.TotalAmount,
			&booking.BookingStatus,
			&booking.PaymentStatus,
			&booking.UserEmail,
			&booking.UserMobile,
			&booking.BookedAt,
			&startsAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		switch {
		case booking.BookingStatus == domain.BookingCancelled:
			return domain.ErrBookingAlreadyCancelled
		case booking.BookingStatus != domain.BookingConfirmed || booking.PaymentStatus != domain.PaymentPaid:
			return domain.ErrBookingNotPaid
		case !now.Before(domain.CancellationDeadline(startsAt)):
			return domain.ErrCancellationCutoff
		}

		update := `
			UPDATE bookings
			SET status = 'cancelled', payment_status = 'refunded', updated_at = $2
			WHERE id = $1
		`

		if _, err := tx.Exec(ctx, update, booking.ID, now); err != nil {
			return err
		}

		if err := releaseSeatsTx(ctx, tx, booking.ID); err != nil {
			return err
		}

		booking.BookingStatus = domain.BookingCancelled
		booking.PaymentStatus = domain.PaymentRefunded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}
