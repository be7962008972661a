package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

// CreateWithPricing inserts the show and derives one pricing row per layout
// category from the base price, atomically. A screen without a usable
// layout rolls everything back, so a show can never exist with a partial
// price table.
func (p *PostgresShowRepository) CreateWithPricing(ctx context.Context, show domain.NewShow) (*domain.Show, error) {
	created := domain.Show{
		MovieID:   show.MovieID,
		ScreenID:  show.ScreenID,
		TheaterID: show.TheaterID,
		StartsAt:  show.StartsAt,
		BasePrice: show.BasePrice,
		Status:    domain.ShowActive,
		Format:    show.Format,
		Language:  show.Language,
	}

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		layout, err := screenLayoutTx(ctx, tx, show.ScreenID, show.TheaterID)
		if err != nil {
			return err
		}

		insert := `
			INSERT INTO shows (movie_id, screen_id, theater_id, starts_at, base_price, format, language, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')
			RETURNING id
		`

		err = tx.QueryRow(ctx, insert,
			show.MovieID,
			show.ScreenID,
			show.TheaterID,
			show.StartsAt,
			show.BasePrice,
			show.Format,
			show.Language,
		).Scan(&created.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case pgerrcode.UniqueViolation:
					return domain.ErrShowSlotTaken
				case pgerrcode.ForeignKeyViolation:
					return domain.ErrRecordNotFound
				}
			}
			return err
		}

		return insertPricingTx(ctx, tx, created.ID, show.BasePrice, layout)
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Update applies the allow-listed fields under a row lock. A base price
// change rewrites the per-category pricing in the same transaction.
func (p *PostgresShowRepository) Update(ctx context.Context, showID int, update domain.ShowUpdate) (*domain.Show, error) {
	var show domain.Show

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT id, movie_id, screen_id, theater_id, starts_at, base_price, status, format, language
			FROM shows
			WHERE id = $1
			FOR UPDATE
		`

		err := tx.QueryRow(ctx, query, showID).Scan(
			&show.ID,
			&show.MovieID,
			&show.ScreenID,
			&show.TheaterID,
			&show.StartsAt,
			&show.BasePrice,
			&show.Status,
			&show.Format,
			&show.Language,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		repriced := false
		if update.StartsAt != nil {
			show.StartsAt = *update.StartsAt
		}
		if update.BasePrice != nil && !update.BasePrice.Equal(show.BasePrice) {
			show.BasePrice = *update.BasePrice
			repriced = true
		}
		if update.Status != nil {
			show.Status = *update.Status
		}

		apply := `
			UPDATE shows
			SET starts_at = $2, base_price = $3, status = $4
			WHERE id = $1
		`

		if _, err := tx.Exec(ctx, apply, show.ID, show.StartsAt, show.BasePrice, show.Status); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return domain.ErrShowSlotTaken
			}
			return err
		}

		if !repriced {
			return nil
		}

		layout, err := screenLayoutTx(ctx, tx, show.ScreenID, show.TheaterID)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM show_pricing WHERE show_id = $1`, show.ID); err != nil {
			return err
		}

		return insertPricingTx(ctx, tx, show.ID, show.BasePrice, layout)
	})
	if err != nil {
		return nil, err
	}

	return &show, nil
}

func (p *PostgresShowRepository) GetSummaryByID(ctx context.Context, showID int) (*domain.ShowSummary, error) {
	query := `
		SELECT s.id, s.movie_id, s.screen_id, s.theater_id, s.starts_at, s.base_price,
		       s.status, s.format, s.language,
		       m.title, t.name, sc.name
		FROM shows s
		JOIN movies m ON m.id = s.movie_id
		JOIN theaters t ON t.id = s.theater_id
		JOIN screens sc ON sc.id = s.screen_id
		WHERE s.id = $1
	`

	var summary domain.ShowSummary
	err := p.db.QueryRow(ctx, query, showID).Scan(
		&summary.Show.ID,
		&summary.Show.MovieID,
		&summary.Show.ScreenID,
		&summary.Show.TheaterID,
		&summary.Show.StartsAt,
		&summary.Show.BasePrice,
		&summary.Show.Status,
		&summary.Show.Format,
		&summary.Show.Language,
		&summary.MovieTitle,
		&summary.TheaterName,
		&summary.ScreenName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &summary, nil
}

func (p *PostgresShowRepository) GetPricing(ctx context.Context, showID int) (map[string]decimal.Decimal, error) {
	query := `
		SELECT category, price
		FROM show_pricing
		WHERE show_id = $1
	`

	rows, err := p.db.Query(ctx, query, showID)
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

func (p *PostgresShowRepository) ListByMovieAndDate(ctx context.Context, movieID int, date time.Time) ([]domain.ShowListing, error) {
	query := `
		SELECT s.id, m.title, s.starts_at, s.base_price, s.status, s.format, s.language,
		       t.id, t.name, sc.name, sc.seat_layout,
		       (SELECT count(*) FROM seat_holds sh
		        WHERE sh.show_id = s.id
		          AND (sh.status = 'confirmed' OR (sh.status = 'held' AND sh.held_until > $3))),
		       (SELECT count(*) FROM blocked_seats bs WHERE bs.screen_id = s.screen_id),
		       (SELECT COALESCE(jsonb_object_agg(sp.category, sp.price), '{}'::jsonb)
		        FROM show_pricing sp WHERE sp.show_id = s.id)
		FROM shows s
		JOIN movies m ON m.id = s.movie_id
		JOIN theaters t ON t.id = s.theater_id
		JOIN screens sc ON sc.id = s.screen_id
		WHERE s.movie_id = $1
		  AND s.starts_at >= $2
		  AND s.starts_at < $2 + interval '1 day'
		ORDER BY s.starts_at, t.name
	`

	now := time.Now().UTC()

	rows, err := p.db.Query(ctx, query, movieID, date, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []domain.ShowListing{}
	for rows.Next() {
		var (
			l       domain.ShowListing
			layout  domain.SeatLayout
			taken   int
			blocked int
		)
		err := rows.Scan(
			&l.ShowID,
			&l.MovieTitle,
			&l.StartsAt,
			&l.BasePrice,
			&l.Status,
			&l.Format,
			&l.Language,
			&l.TheaterID,
			&l.TheaterName,
			&l.ScreenName,
			&layout,
			&taken,
			&blocked,
			&l.Pricing,
		)
		if err != nil {
			return nil, err
		}

		l.AvailableSeats = layout.TotalCapacity() - taken - blocked
		if l.AvailableSeats < 0 {
			l.AvailableSeats = 0
		}

		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// screenLayoutTx loads and validates a screen's layout document within the
// surrounding transaction.
func screenLayoutTx(ctx context.Context, tx pgx.Tx, screenID, theaterID int) (domain.SeatLayout, error) {
	query := `
		SELECT seat_layout
		FROM screens
		WHERE id = $1 AND theater_id = $2
	`

	var layout domain.SeatLayout
	err := tx.QueryRow(ctx, query, screenID, theaterID).Scan(&layout)
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

func insertPricingTx(ctx context.Context, tx pgx.Tx, showID int, basePrice decimal.Decimal, layout domain.SeatLayout) error {
	query := `
		INSERT INTO show_pricing (show_id, category, price)
		VALUES ($1, $2, $3)
	`

	for _, category := range layout.Categories() {
		price := domain.CategoryPrice(basePrice, category)
		if _, err := tx.Exec(ctx, query, showID, category, price); err != nil {
			return err
		}
	}

	return nil
}
