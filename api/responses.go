package api

import "time"

// ErrorResponse is the uniform failure envelope. Errors carries per-field
// validation messages and is omitted otherwise.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type UserResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	Role   string `json:"role"`
}

type MovieResponse struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DurationMin int       `json:"durationMins"`
	Genres      []string  `json:"genre"`
	Languages   []string  `json:"language"`
	Rating      string    `json:"rating"`
	PosterUrl   string    `json:"posterUrl,omitempty"`
	ReleaseDate string    `json:"releaseDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MetadataResponse struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type MovieListResponse struct {
	Success  bool             `json:"success"`
	Movies   []MovieResponse  `json:"movies"`
	Metadata MetadataResponse `json:"metadata"`
}

type ShowResponse struct {
	ID             int                `json:"id"`
	MovieID        int                `json:"movieId"`
	MovieTitle     string             `json:"movieTitle"`
	TheaterName    string             `json:"theaterName"`
	ScreenName     string             `json:"screenName"`
	StartsAt       time.Time          `json:"startsAt"`
	Format         string             `json:"format"`
	Language       string             `json:"language"`
	Status         string             `json:"status"`
	BasePrice      float64            `json:"basePrice"`
	Pricing        map[string]float64 `json:"pricing"`
	AvailableSeats int                `json:"availableSeats"`
}

type ShowListResponse struct {
	Success bool           `json:"success"`
	Shows   []ShowResponse `json:"shows"`
}

// SeatMapResponse describes a show's seating from the caller's point of
// view: the static layout per category plus the labels that cannot be
// selected right now. Booked covers confirmed seats and live holds alike;
// Blocked is the screen's administrative block list.
type SeatMapResponse struct {
	Success bool                        `json:"success"`
	ShowID  int                         `json:"showId"`
	Layout  map[string]CategoryResponse `json:"layout"`
	Booked  []string                    `json:"bookedSeats"`
	Blocked []string                    `json:"blockedSeats"`
	Pricing map[string]float64          `json:"pricing"`
}

type CategoryResponse struct {
	Rows        []string `json:"rows"`
	SeatsPerRow int      `json:"seatsPerRow"`
}

type BookingCreatedResponse struct {
	Success     bool                `json:"success"`
	BookingID   string              `json:"bookingId"`
	Status      string              `json:"status"`
	Seats       map[string][]string `json:"seats"`
	TotalAmount float64             `json:"totalAmount"`
	HoldExpiry  time.Time           `json:"holdExpiry"`
}

type BookingSummaryResponse struct {
	BookingID   string    `json:"bookingId"`
	MovieTitle  string    `json:"movieTitle"`
	TheaterName string    `json:"theaterName"`
	StartsAt    time.Time `json:"startsAt"`
	Seats       []string  `json:"seats"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
}

type BookingListResponse struct {
	Success  bool                     `json:"success"`
	Bookings []BookingSummaryResponse `json:"bookings"`
}

type BookingDetailResponse struct {
	Success       bool              `json:"success"`
	BookingID     string            `json:"bookingId"`
	MovieTitle    string            `json:"movieTitle"`
	TheaterName   string            `json:"theaterName"`
	ScreenName    string            `json:"screenName"`
	StartsAt      time.Time         `json:"startsAt"`
	Seats         []string          `json:"seats"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"paymentStatus"`
	TotalAmount   float64           `json:"totalAmount"`
	Fnb           []FnbLineResponse `json:"fnbOrders,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type CancelBookingResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	BookingID    string  `json:"bookingId"`
	RefundAmount float64 `json:"refundAmount"`
}

type PriceBreakdownResponse struct {
	Tickets        float64 `json:"tickets"`
	Fnb            float64 `json:"fnb,omitempty"`
	ConvenienceFee float64 `json:"convenienceFee"`
	GST            float64 `json:"gst"`
	Total          float64 `json:"total"`
}

type InitiatePaymentResponse struct {
	Success       bool                   `json:"success"`
	TransactionID string                 `json:"transactionId"`
	BookingID     string                 `json:"bookingId"`
	Amount        float64                `json:"amount"`
	Breakdown     PriceBreakdownResponse `json:"breakdown"`
}

type ConfirmPaymentResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	BookingID     string `json:"bookingId"`
	BookingStatus string `json:"bookingStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

type SnackResponse struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Size     string  `json:"size,omitempty"`
	IsVeg    bool    `json:"isVeg"`
}

type FnbMenuResponse struct {
	Success bool            `json:"success"`
	Items   []SnackResponse `json:"items"`
}

type FnbLineResponse struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

type FnbOrderResponse struct {
	Success   bool              `json:"success"`
	BookingID string            `json:"bookingId"`
	Items     []FnbLineResponse `json:"items"`
	FnbTotal  float64           `json:"fnbTotal"`
}

type CreatedResponse struct {
	Success bool `json:"success"`
	ID      int  `json:"id"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
}
