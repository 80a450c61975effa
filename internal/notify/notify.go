// Package notify defines the notification port consumed by the consent and
// approval services. Delivery transports (email, in-app inbox) live outside
// the core; these implementations cover logging and tests.
package notify

import (
	"context"
	"log/slog"
	"sync"

	id "nbms/pkg/domain"
)

// Notification is a message addressed to a single user.
type Notification struct {
	Recipient id.UserID
	Message   string
	URL       string
}

// Sink receives notifications. Implementations must be safe for concurrent use.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// SlogSink writes notifications to the structured log. Used when no real
// delivery transport is configured.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Notify(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "notification",
		"recipient", n.Recipient.String(),
		"message", n.Message,
		"url", n.URL,
	)
	return nil
}

// MemorySink collects notifications for assertions in tests.
type MemorySink struct {
	mu   sync.Mutex
	sent []Notification
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Notify(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

// Sent returns a snapshot of delivered notifications.
func (s *MemorySink) Sent() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification{}, s.sent...)
}

// SentTo returns notifications addressed to the given recipient.
func (s *MemorySink) SentTo(recipient id.UserID) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Notification
	for _, n := range s.sent {
		if n.Recipient == recipient {
			out = append(out, n)
		}
	}
	return out
}
