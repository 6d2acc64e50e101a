package service

import (
	"context"

	"github.com/rs/zerolog"
)

// Mailer - внешний коллаборатор доставки кодов подтверждения
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// logMailer пишет код в лог вместо отправки письма; заглушка для
// разработки и тестов
type logMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendOTP(_ context.Context, email, code string) error {
	m.logger.Info().
		Str("email", email).
		Str("code", code).
		Msg("код подтверждения регистрации (доставка-заглушка)")
	return nil
}
