package email

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Service sends transactional mail. Sends are best-effort: failures are
// logged and never surfaced to the request that triggered them.
type Service interface {
	SendVerificationEmail(to, username string) error
	SendDoctorVerificationEmail(to string, verified bool) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type service struct {
	dialer *gomail.Dialer
	from   string
	logger *zerolog.Logger
}

func NewService(cfg Config, logger *zerolog.Logger) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *service) SendVerificationEmail(to, username string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to VitaNips. Your account has been created.\n",
		username,
	)
	return s.send(to, "Welcome to VitaNips", body)
}

func (s *service) SendDoctorVerificationEmail(to string, verified bool) error {
	subject := "Your practitioner profile has been verified"
	body := "Congratulations, your practitioner profile is now verified and visible to patients.\n"
	if !verified {
		subject = "Your practitioner profile verification was revoked"
		body = "Your practitioner profile is no longer marked as verified. Please contact support for details.\n"
	}
	return s.send(to, subject, body)
}

func (s *service) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
