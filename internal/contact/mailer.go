package contact

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/alnah/go-folio/internal/logging"
)

// Compile-time interface checks.
var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = (*LogMailer)(nil)
)

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Addr returns host:port.
func (c SMTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks that the server address is usable.
func (c SMTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: SMTP host required", ErrInvalidConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: SMTP port must be between 1 and 65535, got %d", ErrInvalidConfig, c.Port)
	}
	return nil
}

// deliverFunc hands a built message to the server. Tests swap it to capture
// outgoing mail.
type deliverFunc func(ctx context.Context, msg *gomail.Msg) error

// SMTPMailer delivers mail through an SMTP server, upgrading to TLS when the
// server offers STARTTLS. PLAIN auth is used when a username is set.
type SMTPMailer struct {
	cfg     SMTPConfig
	deliver deliverFunc
	now     func() time.Time
}

// NewSMTPMailer creates an SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password))
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &SMTPMailer{
		cfg: cfg,
		deliver: func(ctx context.Context, msg *gomail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
		now: time.Now,
	}, nil
}

// Send delivers env. The dial and the SMTP exchange both honor ctx.
func (m *SMTPMailer) Send(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := m.build(env)
	if err != nil {
		return err
	}
	if err := m.deliver(ctx, msg); err != nil {
		return fmt.Errorf("smtp %s: %w", m.cfg.Addr(), err)
	}
	return nil
}

// build turns env into a plain-text UTF-8 message.
func (m *SMTPMailer) build(env Envelope) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(env.From); err != nil {
		return nil, fmt.Errorf("from %q: %w", env.From, err)
	}
	if err := msg.To(env.To...); err != nil {
		return nil, fmt.Errorf("to %v: %w", env.To, err)
	}
	if env.ReplyTo != "" {
		if err := msg.ReplyTo(env.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to %q: %w", env.ReplyTo, err)
		}
	}
	msg.Subject(env.Subject)
	msg.SetDateWithValue(m.now())
	msg.SetBodyString(gomail.TypeTextPlain, env.Body)
	return msg, nil
}

// LogMailer writes mail to the logger instead of sending it.
// Used when no SMTP server is configured.
type LogMailer struct {
	logger logging.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(l logging.Logger) *LogMailer {
	if l == nil {
		l = logging.NopLogger{}
	}
	return &LogMailer{logger: l}
}

// Send logs env at info level.
func (m *LogMailer) Send(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Info("mail not sent (no SMTP configured)",
		logging.String("to", strings.Join(env.To, ",")),
		logging.String("replyTo", env.ReplyTo),
		logging.String("subject", env.Subject),
		logging.Int("bodyBytes", len(env.Body)))
	return nil
}
