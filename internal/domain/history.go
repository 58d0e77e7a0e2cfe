package domain

import (
	"fmt"
	"strings"
	"time"
)

// Channel represents a reminder delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS:
		return true
	}
	return false
}

func ParseChannelFromString(s string) (Channel, error) {
	ch := Channel(strings.ToLower(strings.TrimSpace(s)))
	if !ch.IsValid() {
		return "", fmt.Errorf("%w: invalid channel %q", ErrValidation, s)
	}
	return ch, nil
}

// DeliveryStatus is the recorded outcome of one dispatch attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

func (s DeliveryStatus) String() string { return string(s) }

// HistoryEntry is one append-only audit row per attempted channel per record.
// Entries are never mutated or deleted by the reminder policy.
type HistoryEntry struct {
	ID          string
	UserID      string
	ProfessorID string
	Channel     Channel
	Message     string
	Status      DeliveryStatus
	Error       *string
	CreatedAt   time.Time
}
