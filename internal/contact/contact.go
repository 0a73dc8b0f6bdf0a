// Package contact relays messages from the portfolio contact form to the
// owner's mailbox.
package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/alnah/go-folio/internal/logging"
)

// Sentinel errors for contact operations.
var (
	ErrMissingField  = errors.New("all fields required")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidName   = errors.New("invalid name")
	ErrFieldTooLong  = errors.New("field exceeds maximum length")
	ErrSend          = errors.New("failed to send message")
	ErrNoMailer      = errors.New("mailer cannot be nil")
	ErrInvalidConfig = errors.New("invalid mail configuration")
)

// Field length limits.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 254 // RFC 5321
	MaxMessageLength = 5000
)

// Message is one contact form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (m Message) Normalize() Message {
	return Message{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Message: strings.TrimSpace(m.Message),
	}
}

// Validate checks that every field is present, bounded, and that Email parses.
func (m Message) Validate() error {
	if m.Name == "" || m.Email == "" || m.Message == "" {
		return ErrMissingField
	}
	if len(m.Name) > MaxNameLength {
		return fmt.Errorf("%w: name (%d chars, max %d)", ErrFieldTooLong, len(m.Name), MaxNameLength)
	}
	if len(m.Email) > MaxEmailLength {
		return fmt.Errorf("%w: email (%d chars, max %d)", ErrFieldTooLong, len(m.Email), MaxEmailLength)
	}
	if len(m.Message) > MaxMessageLength {
		return fmt.Errorf("%w: message (%d chars, max %d)", ErrFieldTooLong, len(m.Message), MaxMessageLength)
	}
	if strings.ContainsAny(m.Name, "\r\n") {
		return fmt.Errorf("%w: contains a line break", ErrInvalidName)
	}
	addr, err := mail.ParseAddress(m.Email)
	if err != nil || addr.Address != m.Email {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, m.Email)
	}
	return nil
}

// Subject is the mail subject for m.
func (m Message) Subject() string {
	return "New Message from " + m.Name
}

// Body is the plain-text mail body for m.
func (m Message) Body() string {
	var b strings.Builder
	b.WriteString("You have a new contact request:\n\n")
	b.WriteString("Name: " + m.Name + "\n")
	b.WriteString("Email: " + m.Email + "\n")
	b.WriteString("Message:\n")
	b.WriteString(m.Message)
	b.WriteString("\n")
	return b.String()
}

// Envelope is a composed mail ready for delivery.
type Envelope struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers composed mail.
type Mailer interface {
	Send(ctx context.Context, env Envelope) error
}

// Relay validates submissions and hands them to a Mailer.
type Relay struct {
	mailer  Mailer
	from    string
	to      []string
	timeout time.Duration
	logger  logging.Logger
}

// RelayOption configures a Relay.
type RelayOption func(*Relay)

// WithTimeout bounds each delivery.
func WithTimeout(d time.Duration) RelayOption {
	if d <= 0 {
		panic("contact: WithTimeout duration must be positive")
	}
	return func(r *Relay) {
		r.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) RelayOption {
	return func(r *Relay) {
		if l != nil {
			r.logger = l
		}
	}
}

// DefaultSendTimeout bounds a delivery when no timeout is configured.
const DefaultSendTimeout = 15 * time.Second

// NewRelay creates a Relay sending from `from` to the `to` recipients.
func NewRelay(mailer Mailer, from string, to []string, opts ...RelayOption) (*Relay, error) {
	if mailer == nil {
		return nil, ErrNoMailer
	}
	if _, err := mail.ParseAddress(from); err != nil {
		return nil, fmt.Errorf("%w: from %q", ErrInvalidConfig, from)
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: at least one recipient required", ErrInvalidConfig)
	}
	for _, addr := range to {
		if _, err := mail.ParseAddress(addr); err != nil {
			return nil, fmt.Errorf("%w: to %q", ErrInvalidConfig, addr)
		}
	}

	r := &Relay{
		mailer:  mailer,
		from:    from,
		to:      append([]string(nil), to...),
		timeout: DefaultSendTimeout,
		logger:  logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Send validates msg and delivers it. Validation failures wrap
// ErrMissingField, ErrInvalidName, ErrInvalidEmail or ErrFieldTooLong;
// delivery failures wrap ErrSend.
func (r *Relay) Send(ctx context.Context, msg Message) error {
	msg = msg.Normalize()
	if err := msg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	env := Envelope{
		From:    r.from,
		To:      r.to,
		ReplyTo: msg.Email,
		Subject: msg.Subject(),
		Body:    msg.Body(),
	}
	if err := r.mailer.Send(ctx, env); err != nil {
		r.logger.Error("contact message not delivered", logging.String("from", msg.Email), logging.Err(err))
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	r.logger.Info("contact message relayed", logging.String("from", msg.Email))
	return nil
}
