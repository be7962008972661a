// Package api holds the request and response types of the REST surface.
// Each operation has an explicit typed request struct; there is no dynamic
// field mapping anywhere.
package api

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserDetails struct {
	Email  string `json:"email" validate:"omitempty,email"`
	Mobile string `json:"mobile" validate:"required,mobile"`
}

type CreateBookingRequest struct {
	ShowID      int         `json:"showId" validate:"required,min=1"`
	Seats       []string    `json:"seats" validate:"required,min=1,max=10,dive,seat_label"`
	UserDetails UserDetails `json:"userDetails" validate:"required"`
}

type InitiatePaymentRequest struct {
	BookingID     string `json:"bookingId" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=card upi netbanking wallet"`
	IncludesFnb   bool   `json:"includesFnb"`
}

type ConfirmPaymentRequest struct {
	BookingID     string `json:"bookingId" validate:"required"`
	TransactionID string `json:"transactionId" validate:"required"`
	Status        string `json:"status" validate:"required,oneof=success failed"`
}

type FnbOrderItem struct {
	ItemID   int `json:"itemId" validate:"required,min=1"`
	Quantity int `json:"quantity" validate:"required,min=1,max=20"`
}

type OrderFnbRequest struct {
	BookingID string         `json:"bookingId" validate:"required"`
	Items     []FnbOrderItem `json:"items" validate:"required,min=1,dive"`
}

type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	DurationMin int      `json:"durationMins" validate:"required,min=1,max=600"`
	Genres      []string `json:"genre" validate:"required,min=1"`
	Languages   []string `json:"language" validate:"required,min=1"`
	Rating      string   `json:"rating" validate:"required"`
	PosterUrl   string   `json:"posterUrl" validate:"omitempty,url"`
	ReleaseDate string   `json:"releaseDate" validate:"required,datetime=2006-01-02"`
}

type CreateShowRequest struct {
	MovieID   int     `json:"movieId" validate:"required,min=1"`
	ScreenID  int     `json:"screenId" validate:"required,min=1"`
	TheaterID int     `json:"theaterId" validate:"required,min=1"`
	ShowDate  string  `json:"showDate" validate:"required,datetime=2006-01-02"`
	ShowTime  string  `json:"showTime" validate:"required,datetime=15:04"`
	BasePrice float64 `json:"basePrice" validate:"required,gt=0"`
	Format    string  `json:"format" validate:"required"`
	Language  string  `json:"language" validate:"required"`
}

type UpdateShowRequest struct {
	ShowDate  *string  `json:"showDate" validate:"omitempty,datetime=2006-01-02"`
	ShowTime  *string  `json:"showTime" validate:"omitempty,datetime=15:04"`
	BasePrice *float64 `json:"basePrice" validate:"omitempty,gt=0"`
	Status    *string  `json:"status" validate:"omitempty,oneof=active cancelled housefull"`
}

type BlockSeatsRequest struct {
	ScreenID int      `json:"screenId" validate:"required,min=1"`
	Seats    []string `json:"seats" validate:"required,min=1,dive,seat_label"`
}
