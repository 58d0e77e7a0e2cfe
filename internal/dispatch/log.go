package dispatch

import (
	"context"

	"github.com/mudassar003/scholarsync/internal/domain"
	"go.uber.org/zap"
)

// LogDispatcher is the default transport: it only logs the rendered message.
// Actual delivery belongs to an external messaging collaborator; until one is
// wired in, the reminder pipeline still produces history rows and status
// transitions against this stub.
type LogDispatcher struct {
	channel domain.Channel
	logger  *zap.Logger
}

func NewLogDispatcher(channel domain.Channel, logger *zap.Logger) *LogDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogDispatcher{channel: channel, logger: logger}
}

func (d *LogDispatcher) Channel() domain.Channel { return d.channel }

func (d *LogDispatcher) Send(_ context.Context, msg Message) (*Result, error) {
	d.logger.Info("reminder dispatched (log only)",
		zap.String("channel", d.channel.String()),
		zap.String("professorId", msg.ProfessorID),
		zap.String("recipient", msg.Recipient),
		zap.String("message", msg.Body),
	)

	return &Result{StatusCode: 200, Body: "logged"}, nil
}
