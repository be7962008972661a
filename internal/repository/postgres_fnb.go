package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type PostgresFnbRepository struct {
	db *pgxpool.Pool
}

func NewPostgresFnbRepository(db *pgxpool.Pool) *PostgresFnbRepository {
	return &PostgresFnbRepository{
		db: db,
	}
}

func (p *PostgresFnbRepository) GetMenu(ctx context.Context) ([]domain.Snack, error) {
	query := `
		SELECT id, name, category, size, price, is_veg
		FROM fnb_items
		WHERE available
		ORDER BY category, name
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	menu := []domain.Snack{}
	for rows.Next() {
		var snack domain.Snack
		err := rows.Scan(&snack.ID, &snack.Name, &snack.Category, &snack.Size, &snack.Price, &snack.IsVeg)
		if err != nil {
			return nil, err
		}
		menu = append(menu, snack)
	}

	return menu, rows.Err()
}

// OrderForBooking validates the items against the menu, inserts the order
// lines with the unit price captured at order time, and bumps the booking
// total so a later refund covers the food too.
func (p *PostgresFnbRepository) OrderForBooking(
	ctx context.Context,
	reference string,
	userID int,
	items []domain.FnbOrderItem) ([]domain.FnbOrderLine, decimal.Decimal, error) {

	var lines []domain.FnbOrderLine
	orderTotal := decimal.Zero

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT id, status, payment_status
			FROM bookings
			WHERE reference = $1 AND user_id = $2
			FOR UPDATE
		`

		var (
			bookingID     int
			status        domain.BookingStatus
			paymentStatus domain.PaymentState
		)
		err := tx.QueryRow(ctx, query, reference, userID).Scan(&bookingID, &status, &paymentStatus)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		if status != domain.BookingConfirmed || paymentStatus != domain.PaymentPaid {
			return domain.ErrBookingNotConfirmed
		}

		for _, item := range items {
			var line domain.FnbOrderLine

			lookup := `
				SELECT id, name, price
				FROM fnb_items
				WHERE id = $1 AND available
			`
			err := tx.QueryRow(ctx, lookup, item.ItemID).Scan(&line.SnackID, &line.Name, &line.UnitPrice)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domain.ErrRecordNotFound
				}
				return err
			}

			line.Quantity = item.Quantity
			line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

			insert := `
				INSERT INTO fnb_orders (booking_id, item_id, quantity, unit_price)
				VALUES ($1, $2, $3, $4)
			`
			if _, err := tx.Exec(ctx, insert, bookingID, line.SnackID, line.Quantity, line.UnitPrice); err != nil {
				return err
			}

			orderTotal = orderTotal.Add(line.LineTotal)
			lines = append(lines, line)
		}

		bump := `
			UPDATE bookings
			SET total_amount = total_amount + $2, updated_at = now()
			WHERE id = $1
		`
		_, err = tx.Exec(ctx, bump, bookingID, orderTotal)
		return err
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	return lines, orderTotal, nil
}

func (p *PostgresFnbRepository) LinesForBooking(ctx context.Context, bookingID int) ([]domain.FnbOrderLine, error) {
	query := `
		SELECT o.item_id, i.name, o.quantity, o.unit_price, o.unit_price * o.quantity
		FROM fnb_orders o
		JOIN fnb_items i ON i.id = o.item_id
		WHERE o.booking_id = $1
		ORDER BY o.id
	`

	rows, err := p.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.FnbOrderLine{}
	for rows.Next() {
		var line domain.FnbOrderLine
		err := rows.Scan(&line.SnackID, &line.Name, &line.Quantity, &line.UnitPrice, &line.LineTotal)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
