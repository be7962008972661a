package integration_test

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"

	"github.com/screenseat/cinema-booking-system/internal/domain"
	"github.com/screenseat/cinema-booking-system/internal/repository"
)

const (
	dbName      = "cinema_booking"
	dbUser      = "test_user"
	dbPassword  = "test_password"
	dbImageName = "postgres:17-alpine"

	testUserID      = 1
	otherUserID     = 2
	testScreenID    = 1
	testTheaterID   = 1
	testMovieID     = 1
	testUserEmail   = "asha@example.com"
	testUserMobile  = "9876543210"
	testBasePrice   = 200
	testLayoutJSON  = `{"regular": {"rows": ["A", "B", "C"], "seatsPerRow": 10}, "premium": {"rows": ["D", "E"], "seatsPerRow": 8}, "recliner": {"rows": ["F"], "seatsPerRow": 4}}`
	testPopcornID   = 1
	testColaID      = 2
	unavailableItem = 3
)

type BaseSuite struct {
	suite.Suite
	dbContainer *PostgresContainer
	pool        *pgxpool.Pool

	bookingRepo *repository.PostgresBookingRepository
	paymentRepo *repository.PostgresPaymentRepository
	showRepo    *repository.PostgresShowRepository
	layoutRepo  *repository.PostgresLayoutRepository
	seatRepo    *repository.PostgresSeatInventoryRepository
	fnbRepo     *repository.PostgresFnbRepository
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	dbContainer, err := getDbContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}
	s.dbContainer = dbContainer

	pool, err := pgxpool.New(ctx, dbContainer.ConnectionString)
	if err != nil {
		log.Printf("failed to create pool: %s", err)
		return
	}
	s.pool = pool

	s.bookingRepo = repository.NewPostgresBookingRepository(pool)
	s.paymentRepo = repository.NewPostgresPaymentRepository(pool)
	s.showRepo = repository.NewPostgresShowRepository(pool)
	s.layoutRepo = repository.NewPostgresLayoutRepository(pool)
	s.seatRepo = repository.NewPostgresSeatInventoryRepository(pool)
	s.fnbRepo = repository.NewPostgresFnbRepository(pool)

	s.seedReferenceData(ctx)
}

func (s *BaseSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

// SetupTest resets everything a test can mutate; the reference rows seeded
// in SetupSuite stay put.
func (s *BaseSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.pool.Exec(ctx, `
		TRUNCATE fnb_orders, payments, seat_holds, bookings, show_pricing, shows, blocked_seats
		RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *BaseSuite) seedReferenceData(ctx context.Context) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, mobile, password_hash, role)
		VALUES
			($1, 'Asha Rao', $2, $3, 'x', 'user'),
			($4, 'Vikram Iyer', 'vikram@example.com', '9123456780', 'x', 'user')`,
		testUserID, testUserEmail, testUserMobile, otherUserID)
	s.Require().NoError(err)

	_, err = s.pool.Exec(ctx, `
		INSERT INTO theaters (id, name, city, address)
		VALUES ($1, 'Galaxy Central', 'Pune', '12 MG Road')`, testTheaterID)
	s.Require().NoError(err)

	_, err = s.pool.Exec(ctx, `
		INSERT INTO screens (id, theater_id, name, seat_layout)
		VALUES ($1, $2, 'Screen 1', $3)`, testScreenID, testTheaterID, testLayoutJSON)
	s.Require().NoError(err)

	_, err = s.pool.Exec(ctx, `
		INSERT INTO movies (title, description, duration_mins, genres, languages, rating, release_date)
		VALUES ('Interstellar', 'Space and time.', 169, '{Sci-Fi}', '{English}', 'UA', '2014-11-07')`)
	s.Require().NoError(err)

	_, err = s.pool.Exec(ctx, `
		INSERT INTO fnb_items (id, name, category, size, price, is_veg, available)
		VALUES
			($1, 'Popcorn', 'snacks', 'large', 350, true, true),
			($2, 'Cola', 'beverages', 'medium', 180, true, true),
			($3, 'Nachos', 'snacks', 'regular', 280, true, false)`,
		testPopcornID, testColaID, unavailableItem)
	s.Require().NoError(err)

	// sequences were used with explicit ids above
	_, err = s.pool.Exec(ctx, `
		SELECT setval('users_id_seq', 10), setval('theaters_id_seq', 10),
		       setval('screens_id_seq', 10), setval('fnb_items_id_seq', 10)`)
	s.Require().NoError(err)
}

// createShow inserts an active show with per-category pricing derived from
// the base price, the same way the admin operation does.
func (s *BaseSuite) createShow(startsAt time.Time) int {
	show, err := s.showRepo.CreateWithPricing(context.Background(), domain.NewShow{
		MovieID:   testMovieID,
		ScreenID:  testScreenID,
		TheaterID: testTheaterID,
		StartsAt:  startsAt,
		BasePrice: decimal.NewFromInt(testBasePrice),
		Format:    "2D",
		Language:  "English",
	})
	s.Require().NoError(err)

	return show.ID
}

func (s *BaseSuite) createBooking(showID, userID int, classified map[string][]string) (*domain.Booking, error) {
	total := decimal.Zero
	pricing, err := s.showRepo.GetPricing(context.Background(), showID)
	s.Require().NoError(err)

	tickets, err := domain.TicketTotal(classified, pricing)
	s.Require().NoError(err)
	total = domain.DeriveTotal(tickets, decimal.Zero).Total

	return s.bookingRepo.Create(context.Background(), domain.NewBooking{
		UserID:          userID,
		ShowID:          showID,
		Reference:       domain.GenerateBookingReference(),
		ClassifiedSeats: classified,
		HoldWindow:      domain.HoldWindow,
		TotalAmount:     total,
		UserEmail:       testUserEmail,
		UserMobile:      testUserMobile,
	})
}

// expireHolds backdates the hold deadline of a booking so the next write
// transaction observes it as stale.
func (s *BaseSuite) expireHolds(bookingID int) {
	_, err := s.pool.Exec(context.Background(), `
		UPDATE seat_holds SET held_until = now() - interval '1 minute'
		WHERE booking_id = $1`, bookingID)
	s.Require().NoError(err)
}

func (s *BaseSuite) initiatePayment(reference string, userID int) (*domain.PaymentIntent, error) {
	return s.paymentRepo.Initiate(context.Background(), domain.InitiatePaymentParams{
		Reference:     reference,
		UserID:        userID,
		Method:        "card",
		TransactionID: domain.GenerateTransactionID(),
		Now:           time.Now().UTC(),
	})
}

func (s *BaseSuite) confirmPayment(reference, transactionID string, userID int, success bool) (*domain.PaymentOutcome, error) {
	return s.paymentRepo.Confirm(context.Background(), domain.ConfirmPaymentParams{
		Reference:     reference,
		TransactionID: transactionID,
		UserID:        userID,
		Success:       success,
	})
}

// payBooking drives a pending booking through initiation and a successful
// confirmation.
func (s *BaseSuite) payBooking(reference string, userID int) *domain.PaymentOutcome {
	intent, err := s.initiatePayment(reference, userID)
	s.Require().NoError(err)

	outcome, err := s.confirmPayment(reference, intent.TransactionID, userID, true)
	s.Require().NoError(err)
	s.Require().Equal(domain.BookingConfirmed, outcome.BookingStatus)

	return outcome
}

func (s *BaseSuite) holdStatuses(bookingID int) map[string]string {
	rows, err := s.pool.Query(context.Background(), `
		SELECT seat_label, status FROM seat_holds WHERE booking_id = $1`, bookingID)
	s.Require().NoError(err)
	defer rows.Close()

	statuses := make(map[string]string)
	for rows.Next() {
		var label, status string
		s.Require().NoError(rows.Scan(&label, &status))
		statuses[label] = status
	}
	s.Require().NoError(rows.Err())

	return statuses
}

func (s *BaseSuite) bookingState(reference string) (string, string) {
	var bookingStatus, paymentStatus string
	err := s.pool.QueryRow(context.Background(), `
		SELECT status, payment_status FROM bookings WHERE reference = $1`, reference).
		Scan(&bookingStatus, &paymentStatus)
	s.Require().NoError(err)

	return bookingStatus, paymentStatus
}

func TestBookingLifecycleSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	suite.Run(t, new(BookingLifecycleSuite))
}
