package models

import (
	"encoding/json"
	"time"
)

// Scheduled notification lifecycle states. A reminder starts pending and
// moves to sent exactly once; cancelled and failed are terminal.
const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// Live notification types as they appear in the feed.
const (
	TypeNewBooking       = "new_booking"
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingCancelled = "booking_cancelled"
	TypeNewClient        = "new_client"
	TypeNewReview        = "new_review"
	TypeReminder         = "reminder"
)

// ScheduledNotification is a reminder persisted for future delivery.
// The dispatcher polls for due rows and transitions them to sent.
type ScheduledNotification struct {
	ID             string          `json:"id" db:"id"`
	ProfessionalID string          `json:"professionalId" db:"professional_id"`
	Title          string          `json:"title" db:"title"`
	Message        string          `json:"message" db:"message"`
	Type           string          `json:"type" db:"type"`
	Data           json.RawMessage `json:"data,omitempty" db:"data"`
	Status         string          `json:"status" db:"status"`
	ScheduledAt    time.Time       `json:"scheduledAt" db:"scheduled_at"`
	SentAt         *time.Time      `json:"sentAt,omitempty" db:"sent_at"`
	EmailTo        string          `json:"emailTo,omitempty" db:"email_to"`
	PushTarget     string          `json:"pushTarget,omitempty" db:"push_target"`
	ErrorMessage   string          `json:"errorMessage,omitempty" db:"error_message"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}

// IsDue reports whether the reminder should be dispatched at the given
// instant.
func (n *ScheduledNotification) IsDue(now time.Time) bool {
	return n.Status == StatusPending && !n.ScheduledAt.After(now)
}

// LiveNotification is a row in the professional's in-app feed.
type LiveNotification struct {
	ID             string          `json:"id" db:"id"`
	ProfessionalID string          `json:"professionalId" db:"professional_id"`
	Title          string          `json:"title" db:"title"`
	Message        string          `json:"message" db:"message"`
	Type           string          `json:"type" db:"type"`
	Data           json.RawMessage `json:"data,omitempty" db:"data"`
	IsRead         bool            `json:"isRead" db:"is_read"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}

// NotificationGroup bundles feed entries of the same type that happened
// close together. Items is ordered newest first; a group is read only
// when every member is read.
type NotificationGroup struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"`
	Title   string             `json:"title"`
	Message string             `json:"message"`
	Count   int                `json:"count"`
	IsRead  bool               `json:"isRead"`
	Latest  time.Time          `json:"latest"`
	Items   []LiveNotification `json:"items"`
}
