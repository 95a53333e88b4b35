package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking charges a user for one offering. Price is snapshotted at creation,
// later offering price edits never change what a historical booking cost.
type Booking struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	OfferingID string          `json:"offering_id"`
	Price      decimal.Decimal `json:"price"`
	Status     BookingStatus   `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CanTransition reports whether a booking in the current status may move to
// next. pending may be confirmed or cancelled, confirmed may be completed or
// cancelled; terminal states accept nothing.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}

// Offering is a priced, bookable item (appearance, shoutout, endorsement)
// published for a celebrity profile.
type Offering struct {
	ID          string          `json:"id"`
	CelebrityID string          `json:"celebrity_id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
