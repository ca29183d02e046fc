package events

import "time"

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingDeleted   = "booking.deleted"
)

// BookingEvent is the lifecycle notification published after a successful
// mutation. Consumers (reminders, dashboards) are outside this repo.
type BookingEvent struct {
	Type      string    `json:"type"`
	BookingID string    `json:"booking_id"`
	AreaID    string    `json:"area_id"`
	Date      string    `json:"date"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	UserID    string    `json:"user_id"`
	At        time.Time `json:"at"`
}
