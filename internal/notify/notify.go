// Package notify delivers booking notifications to the operations mailbox.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Domenick1991/airline/config"
	"github.com/Domenick1991/airline/internal/kafka"
)

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

type Sender struct {
	cfg    config.NotifyConfig
	logger *slog.Logger
}

func NewSender(cfg config.NotifyConfig, logger *slog.Logger) *Sender {
	return &Sender{cfg: cfg, logger: logger}
}

func (s *Sender) Compose(event kafka.BookingEvent) Message {
	return Message{
		From:    s.cfg.From,
		To:      s.cfg.To,
		Subject: fmt.Sprintf("%s booked on flight %d", event.Passenger, event.FlightID),
		Body: fmt.Sprintf("%s was booked on %s at %s. Seats left: %d.",
			event.Passenger, event.Flight, event.BookedAt.Format("2006-01-02 15:04"), event.SeatsLeft),
	}
}

// Send logs the composed message; delivery is left to the mail relay that
// tails the worker's output.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Type != kafka.EventPassengerBooked {
		s.logger.DebugContext(ctx, "skip notification", "type", event.Type)
		return nil
	}
	if s.cfg.To == "" {
		return nil
	}
	msg := s.Compose(event)
	s.logger.InfoContext(ctx, "send notification", "from", msg.From, "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}
