package domain

type EventType string

const (
	EventNotification   EventType = "notification"
	EventBookingUpdate  EventType = "booking_update"
	EventDepositUpdate  EventType = "deposit_update"
	EventCampaignUpdate EventType = "campaign_update"
	EventNewMessage     EventType = "new_message"
	EventBalanceUpdate  EventType = "balance_update"
)

// Event is the typed payload pushed over a user's WebSocket channel.
type Event struct {
	Type         EventType     `json:"type"`
	Booking      *Booking      `json:"booking,omitempty"`
	Deposit      *Deposit      `json:"deposit,omitempty"`
	Campaign     *Campaign     `json:"campaign,omitempty"`
	Message      *Message      `json:"message,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
	Balance      *Balance      `json:"balance,omitempty"`
}
