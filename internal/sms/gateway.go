package sms

import (
	"context"
	"log/slog"
)

// CodeSender delivers one code to one phone in one attempt.
type CodeSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// Gateway isolates the rest of the service from provider failures: Send never
// returns an error and never panics. Provider detail stays in the server-side
// log; callers only see delivered or not.
type Gateway struct {
	sender CodeSender
	logger *slog.Logger
}

// NewGateway returns a Gateway wrapping sender. logger may be nil.
func NewGateway(sender CodeSender, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{sender: sender, logger: logger}
}

// Send attempts one delivery of code to phone. Returns true only when the
// provider explicitly accepted the send. The code value itself is never logged.
func (g *Gateway) Send(ctx context.Context, phone, code string) bool {
	if err := g.sender.SendCode(ctx, phone, code); err != nil {
		g.logger.ErrorContext(ctx, "sms delivery failed", "phone", phone, "err", err)
		return false
	}
	return true
}
