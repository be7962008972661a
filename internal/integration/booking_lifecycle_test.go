package integration_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type BookingLifecycleSuite struct {
	BaseSuite
}

func (s *BookingLifecycleSuite) TestConcurrentBookingHasExactlyOneWinner() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))
	seats := map[string][]string{"regular": {"A1", "A2"}}

	const attempts = 8

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		userID := testUserID
		if i%2 == 0 {
			userID = otherUserID
		}

		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, err := s.createBooking(showID, userID, seats)
			results <- err
		}(userID)
	}

	wg.Wait()
	close(results)

	var winners, conflicts int
	for err := range results {
		switch {
		case err == nil:
			winners++
		default:
			var conflictErr domain.SeatConflictError
			s.Require().ErrorAs(err, &conflictErr)
			conflicts++
		}
	}

	s.Equal(1, winners)
	s.Equal(attempts-1, conflicts)

	var liveHolds int
	err := s.pool.QueryRow(context.Background(), `
		SELECT count(*) FROM seat_holds
		WHERE show_id = $1 AND status IN ('held', 'confirmed')`, showID).Scan(&liveHolds)
	s.Require().NoError(err)
	s.Equal(2, liveHolds)
}

func (s *BookingLifecycleSuite) TestLapsedHoldFreesSeatsForRebooking() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))
	seats := map[string][]string{"premium": {"D1"}}

	first, err := s.createBooking(showID, testUserID, seats)
	s.Require().NoError(err)

	// While the hold is live the seat is off the market.
	_, err = s.createBooking(showID, otherUserID, seats)
	var conflictErr domain.SeatConflictError
	s.Require().ErrorAs(err, &conflictErr)
	s.Equal([]string{"D1"}, conflictErr.Labels)

	s.expireHolds(first.ID)

	second, err := s.createBooking(showID, otherUserID, seats)
	s.Require().NoError(err)
	s.Equal(domain.BookingPending, second.BookingStatus)

	s.Equal(map[string]string{"D1": "expired"}, s.holdStatuses(first.ID))
	s.Equal(map[string]string{"D1": "held"}, s.holdStatuses(second.ID))
}

func (s *BookingLifecycleSuite) TestInitiateForceFailsBookingWithNoLiveHolds() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))

	booking, err := s.createBooking(showID, testUserID, map[string][]string{"regular": {"B1"}})
	s.Require().NoError(err)

	s.expireHolds(booking.ID)

	_, err = s.initiatePayment(booking.Reference, testUserID)
	s.Require().ErrorIs(err, domain.ErrNoLiveHolds)

	// The failure state must survive the error return.
	bookingStatus, paymentStatus := s.bookingState(booking.Reference)
	s.Equal("failed", bookingStatus)
	s.Equal("failed", paymentStatus)

	// A failed booking cannot be paid for later.
	_, err = s.initiatePayment(booking.Reference, testUserID)
	s.Require().ErrorIs(err, domain.ErrBookingNotPending)
}

func (s *BookingLifecycleSuite) TestInitiateDerivesAmountFromLiveHolds() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))

	booking, err := s.createBooking(showID, testUserID, map[string][]string{
		"regular":  {"A1", "A2"},
		"recliner": {"F1"},
	})
	s.Require().NoError(err)

	intent, err := s.initiatePayment(booking.Reference, testUserID)
	s.Require().NoError(err)

	// 2 x 200 + 1 x 300 = 700; 5% fee = 35; 18% GST on 735 = 132.30
	s.True(intent.Breakdown.Tickets.Equal(decimal.NewFromInt(700)),
		"tickets = %s", intent.Breakdown.Tickets)
	s.True(intent.Amount.Equal(decimal.RequireFromString("867.30")),
		"amount = %s", intent.Amount)

	var storedTotal decimal.Decimal
	err = s.pool.QueryRow(context.Background(), `
		SELECT total_amount FROM bookings WHERE reference = $1`, booking.Reference).Scan(&storedTotal)
	s.Require().NoError(err)
	s.True(storedTotal.Equal(intent.Amount))
}

func (s *BookingLifecycleSuite) TestConfirmSuccessPromotesHolds() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))

	booking, err := s.createBooking(showID, testUserID, map[string][]string{"regular": {"C1", "C2"}})
	s.Require().NoError(err)

	intent, err := s.initiatePayment(booking.Reference, testUserID)
	s.Require().NoError(err)

	outcome, err := s.confirmPayment(booking.Reference, intent.TransactionID, testUserID, true)
	s.Require().NoError(err)

	s.Equal(domain.BookingConfirmed, outcome.BookingStatus)
	s.Equal(domain.PaymentPaid, outcome.PaymentStatus)
	s.Equal(testUserEmail, outcome.UserEmail)
	s.Equal("Interstellar", outcome.MovieTitle)
	s.ElementsMatch([]string{"C1", "C2"}, outcome.Seats)

	s.Equal(map[string]string{"C1": "confirmed", "C2": "confirmed"}, s.holdStatuses(booking.ID))

	// Confirmed seats never lapse, so they stay booked well past the hold
	// window.
	booked, err := s.seatRepo.BookedSeats(context.Background(), showID,
		time.Now().UTC().Add(2*domain.HoldWindow))
	s.Require().NoError(err)
	s.ElementsMatch([]string{"C1", "C2"}, booked)
}

func (s *BookingLifecycleSuite) TestConfirmFailureReleasesSeats() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))
	seats := map[string][]string{"regular": {"A5"}}

	booking, err := s.createBooking(showID, testUserID, seats)
	s.Require().NoError(err)

	intent, err := s.initiatePayment(booking.Reference, testUserID)
	s.Require().NoError(err)

	outcome, err := s.confirmPayment(booking.Reference, intent.TransactionID, testUserID, false)
	s.Require().NoError(err)
	s.Equal(domain.BookingFailed, outcome.BookingStatus)
	s.Equal(domain.PaymentFailed, outcome.PaymentStatus)

	// The seat goes straight back on the market.
	_, err = s.createBooking(showID, otherUserID, seats)
	s.Require().NoError(err)
}

func (s *BookingLifecycleSuite) TestConfirmIsNotRepeatable() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))

	booking, err := s.createBooking(showID, testUserID, map[string][]string{"regular": {"A7"}})
	s.Require().NoError(err)

	intent, err := s.initiatePayment(booking.Reference, testUserID)
	s.Require().NoError(err)

	_, err = s.confirmPayment(booking.Reference, intent.TransactionID, testUserID, true)
	s.Require().NoError(err)

	_, err = s.confirmPayment(booking.Reference, intent.TransactionID, testUserID, true)
	s.Require().ErrorIs(err, domain.ErrPaymentAlreadyResolved)

	_, err = s.confirmPayment(booking.Reference, intent.TransactionID, testUserID, false)
	s.Require().ErrorIs(err, domain.ErrPaymentAlreadyResolved)
}

func (s *BookingLifecycleSuite) TestConfirmAfterHoldsLapseForceFails() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))
	seats := map[string][]string{"regular": {"B3"}}

	booking, err := s.createBooking(showID, testUserID, seats)
	s.Require().NoError(err)

	intent, err := s.initiatePayment(booking.Reference, testUserID)
	s.Require().NoError(err)

	s.expireHolds(booking.ID)

	_, err = s.confirmPayment(booking.Reference, intent.TransactionID, testUserID, true)
	s.Require().ErrorIs(err, domain.ErrNoLiveHolds)

	bookingStatus, paymentStatus := s.bookingState(booking.Reference)
	s.Equal("failed", bookingStatus)
	s.Equal("failed", paymentStatus)

	_, err = s.createBooking(showID, otherUserID, seats)
	s.Require().NoError(err)
}

func (s *BookingLifecycleSuite) TestCancelReleasesSeatsAndRefunds() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))
	seats := map[string][]string{"regular": {"A1"}}

	booking, err := s.createBooking(showID, testUserID, seats)
	s.Require().NoError(err)
	s.payBooking(booking.Reference, testUserID)

	cancelled, err := s.bookingRepo.Cancel(context.Background(),
		booking.Reference, testUserID, time.Now().UTC())
	s.Require().NoError(err)

	s.Equal(domain.BookingCancelled, cancelled.BookingStatus)
	s.Equal(domain.PaymentRefunded, cancelled.PaymentStatus)
	s.True(cancelled.TotalAmount.GreaterThan(decimal.Zero))

	s.Equal(map[string]string{"A1": "cancelled"}, s.holdStatuses(booking.ID))

	_, err = s.createBooking(showID, otherUserID, seats)
	s.Require().NoError(err)

	// The released rows stay linked to the booking for history.
	detail, err := s.bookingRepo.GetByReferenceAndUserID(context.Background(),
		booking.Reference, testUserID)
	s.Require().NoError(err)
	s.Equal([]string{"A1"}, detail.Seats)
}

func (s *BookingLifecycleSuite) TestCancelRejectsUnpaidAndRepeatedCancellation() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))

	booking, err := s.createBooking(showID, testUserID, map[string][]string{"regular": {"A9"}})
	s.Require().NoError(err)

	_, err = s.bookingRepo.Cancel(context.Background(),
		booking.Reference, testUserID, time.Now().UTC())
	s.Require().ErrorIs(err, domain.ErrBookingNotPaid)

	s.payBooking(booking.Reference, testUserID)

	_, err = s.bookingRepo.Cancel(context.Background(),
		booking.Reference, testUserID, time.Now().UTC())
	s.Require().NoError(err)

	_, err = s.bookingRepo.Cancel(context.Background(),
		booking.Reference, testUserID, time.Now().UTC())
	s.Require().ErrorIs(err, domain.ErrBookingAlreadyCancelled)
}

func (s *BookingLifecycleSuite) TestCancelRespectsCutoff() {
	showID := s.createShow(time.Now().UTC().Add(90 * time.Minute))

	booking, err := s.createBooking(showID, testUserID, map[string][]string{"regular": {"B7"}})
	s.Require().NoError(err)
	s.payBooking(booking.Reference, testUserID)

	_, err = s.bookingRepo.Cancel(context.Background(),
		booking.Reference, testUserID, time.Now().UTC())
	s.Require().ErrorIs(err, domain.ErrCancellationCutoff)

	bookingStatus, paymentStatus := s.bookingState(booking.Reference)
	s.Equal("confirmed", bookingStatus)
	s.Equal("paid", paymentStatus)
}

func (s *BookingLifecycleSuite) TestCancelCutoffBoundaryIsExclusive() {
	startsAt := time.Now().UTC().Truncate(time.Second).Add(6 * time.Hour)
	showID := s.createShow(startsAt)

	booking, err := s.createBooking(showID, testUserID, map[string][]string{"regular": {"B8"}})
	s.Require().NoError(err)
	s.payBooking(booking.Reference, testUserID)

	// Landing exactly on the deadline is already too late.
	deadline := domain.CancellationDeadline(startsAt)
	_, err = s.bookingRepo.Cancel(context.Background(), booking.Reference, testUserID, deadline)
	s.Require().ErrorIs(err, domain.ErrCancellationCutoff)

	_, err = s.bookingRepo.Cancel(context.Background(),
		booking.Reference, testUserID, deadline.Add(-time.Second))
	s.Require().NoError(err)
}

func (s *BookingLifecycleSuite) TestCancelIsScopedToOwner() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))

	booking, err := s.createBooking(showID, testUserID, map[string][]string{"regular": {"C9"}})
	s.Require().NoError(err)
	s.payBooking(booking.Reference, testUserID)

	_, err = s.bookingRepo.Cancel(context.Background(),
		booking.Reference, otherUserID, time.Now().UTC())
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *BookingLifecycleSuite) TestBlockedSeatsCountAsUnavailable() {
	err := s.layoutRepo.BlockSeats(context.Background(), testScreenID, []string{"A10", "B10"})
	s.Require().NoError(err)
	defer func() {
		_, err := s.pool.Exec(context.Background(), `DELETE FROM blocked_seats`)
		s.Require().NoError(err)
	}()

	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))

	_, err = s.createBooking(showID, testUserID, map[string][]string{"regular": {"A10"}})
	var conflictErr domain.SeatConflictError
	s.Require().ErrorAs(err, &conflictErr)
	s.Equal([]string{"A10"}, conflictErr.Labels)

	_, err = s.createBooking(showID, testUserID, map[string][]string{"regular": {"A1"}})
	s.Require().NoError(err)

	// Booked and blocked stay separate views; the conflict detector is
	// where they meet.
	booked, err := s.seatRepo.BookedSeats(context.Background(), showID, time.Now().UTC())
	s.Require().NoError(err)
	s.ElementsMatch([]string{"A1"}, booked)

	blocked, err := s.layoutRepo.GetBlockedSeats(context.Background(), testScreenID)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"A10", "B10"}, blocked)
}

func (s *BookingLifecycleSuite) TestCreateShowValidation() {
	startsAt := time.Now().UTC().Add(6 * time.Hour)
	s.createShow(startsAt)

	// Same screen, same slot.
	_, err := s.showRepo.CreateWithPricing(context.Background(), domain.NewShow{
		MovieID:   testMovieID,
		ScreenID:  testScreenID,
		TheaterID: testTheaterID,
		StartsAt:  startsAt,
		BasePrice: decimal.NewFromInt(250),
		Format:    "2D",
		Language:  "English",
	})
	s.Require().ErrorIs(err, domain.ErrShowSlotTaken)

	// A screen without a usable layout cannot host shows, and the failed
	// creation must leave nothing behind.
	var bareScreenID int
	err = s.pool.QueryRow(context.Background(), `
		INSERT INTO screens (theater_id, name, seat_layout)
		VALUES ($1, 'Bare Screen', '{}') RETURNING id`, testTheaterID).Scan(&bareScreenID)
	s.Require().NoError(err)

	_, err = s.showRepo.CreateWithPricing(context.Background(), domain.NewShow{
		MovieID:   testMovieID,
		ScreenID:  bareScreenID,
		TheaterID: testTheaterID,
		StartsAt:  startsAt.Add(time.Hour),
		BasePrice: decimal.NewFromInt(200),
		Format:    "2D",
		Language:  "English",
	})
	s.Require().ErrorIs(err, domain.ErrLayoutNotConfigured)

	var orphanShows int
	err = s.pool.QueryRow(context.Background(), `
		SELECT count(*) FROM shows WHERE screen_id = $1`, bareScreenID).Scan(&orphanShows)
	s.Require().NoError(err)
	s.Equal(0, orphanShows)
}

func (s *BookingLifecycleSuite) TestShowPricingDerivedFromLayout() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))

	pricing, err := s.showRepo.GetPricing(context.Background(), showID)
	s.Require().NoError(err)

	s.Len(pricing, 3)
	s.True(pricing["regular"].Equal(decimal.NewFromInt(200)))
	s.True(pricing["premium"].Equal(decimal.NewFromInt(240)))
	s.True(pricing["recliner"].Equal(decimal.NewFromInt(300)))
}

func (s *BookingLifecycleSuite) TestFnbOrderRequiresConfirmedBooking() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))

	booking, err := s.createBooking(showID, testUserID, map[string][]string{"regular": {"A3"}})
	s.Require().NoError(err)

	items := []domain.FnbOrderItem{{ItemID: testPopcornID, Quantity: 2}}

	_, _, err = s.fnbRepo.OrderForBooking(context.Background(), booking.Reference, testUserID, items)
	s.Require().ErrorIs(err, domain.ErrBookingNotConfirmed)

	s.payBooking(booking.Reference, testUserID)

	var totalBefore decimal.Decimal
	err = s.pool.QueryRow(context.Background(), `
		SELECT total_amount FROM bookings WHERE reference = $1`, booking.Reference).Scan(&totalBefore)
	s.Require().NoError(err)

	lines, orderTotal, err := s.fnbRepo.OrderForBooking(context.Background(),
		booking.Reference, testUserID, items)
	s.Require().NoError(err)

	s.Len(lines, 1)
	s.Equal("Popcorn", lines[0].Name)
	s.True(orderTotal.Equal(decimal.NewFromInt(700)))

	var totalAfter decimal.Decimal
	err = s.pool.QueryRow(context.Background(), `
		SELECT total_amount FROM bookings WHERE reference = $1`, booking.Reference).Scan(&totalAfter)
	s.Require().NoError(err)
	s.True(totalAfter.Equal(totalBefore.Add(orderTotal)))

	// An unavailable item fails the whole order.
	_, _, err = s.fnbRepo.OrderForBooking(context.Background(), booking.Reference, testUserID,
		[]domain.FnbOrderItem{{ItemID: unavailableItem, Quantity: 1}})
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *BookingLifecycleSuite) TestBookingHistoryViews() {
	showID := s.createShow(time.Now().UTC().Add(6 * time.Hour))

	booking, err := s.createBooking(showID, testUserID, map[string][]string{"premium": {"E1", "E2"}})
	s.Require().NoError(err)
	s.payBooking(booking.Reference, testUserID)

	summaries, err := s.bookingRepo.GetSummariesByUserID(context.Background(), testUserID)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal(booking.Reference, summaries[0].Reference)
	s.Equal("Interstellar", summaries[0].MovieTitle)
	s.Equal(domain.BookingConfirmed, summaries[0].BookingStatus)
	s.ElementsMatch([]string{"E1", "E2"}, summaries[0].Seats)

	detail, err := s.bookingRepo.GetByReferenceAndUserID(context.Background(),
		booking.Reference, testUserID)
	s.Require().NoError(err)
	s.Equal("Galaxy Central", detail.TheaterName)
	s.ElementsMatch([]string{"E1", "E2"}, detail.Seats)

	// Another user's reference lookup misses.
	_, err = s.bookingRepo.GetByReferenceAndUserID(context.Background(),
		booking.Reference, otherUserID)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}
