// Package mail delivers confirmation codes to users.
package mail

import (
	"context"
	"log/slog"
	"sync"
)

// Message is an outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages. Delivery failures never block signup; callers
// log and move on.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them.
// This is the default sink for development and self-hosted setups without SMTP.
type LogMailer struct {
	logger *slog.Logger
	from   string
}

// NewLogMailer creates a mailer that logs instead of sending.
func NewLogMailer(logger *slog.Logger, from string) *LogMailer {
	return &LogMailer{logger: logger, from: from}
}

// Send implements Mailer.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("mail sent",
		slog.String("from", m.from),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}

// Recorder captures messages for tests.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Send implements Mailer.
func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

// Messages returns a copy of everything sent so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recent message, or a zero Message if none were sent.
func (r *Recorder) Last() Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}
	}
	return r.messages[len(r.messages)-1]
}
