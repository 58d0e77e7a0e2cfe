package dispatch

import (
	"context"

	"github.com/mudassar003/scholarsync/internal/domain"
)

// Message is a rendered reminder ready to leave the system.
type Message struct {
	ProfessorID string
	Recipient   string
	Body        string
}

// Dispatcher is the outbound delivery port for one channel. Real transports
// (mail relay, SMS gateway) live behind this interface; the reminder policy
// never knows which one it is talking to.
type Dispatcher interface {
	Channel() domain.Channel
	Send(ctx context.Context, msg Message) (*Result, error)
}

// Result stores dispatch call metadata for history records.
type Result struct {
	StatusCode int
	Body       string
	MessageID  string
}
