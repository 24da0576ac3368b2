package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
	"github.com/srgjo27/partner_dispatch/internal/platform/metrics"
)

const (
	DefaultPollInterval = 4 * time.Second
	DefaultPollTimeout  = 15 * time.Minute
)

type PollConfig struct {
	Interval time.Duration
	// Timeout bounds the whole wait; zero means DefaultPollTimeout.
	Timeout time.Duration
}

type PaymentPoller struct {
	payments ports.PaymentAPI
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

func NewPaymentPoller(payments ports.PaymentAPI, cfg PollConfig, log *slog.Logger) *PaymentPoller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPollTimeout
	}
	return &PaymentPoller{
		payments: payments,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		log:      log,
	}
}

// Await polls the payment code until it reports completed, the context is
// cancelled, the session is rejected, or the timeout passes. Other poll errors
// are treated as temporary. onPartial sees every partial report.
func (p *PaymentPoller) Await(ctx context.Context, codeID string, onPartial func(domain.PaymentStatus)) (*domain.PaymentStatus, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	deadline := time.NewTimer(p.timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, domain.ErrPaymentPollTimeout
		case <-ticker.C:
			status, err := p.payments.GetPaymentStatus(ctx, codeID)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				if domain.IsUnauthorized(err) {
					return nil, err
				}
				metrics.IncPaymentPoll("error")
				p.log.Warn("payment status poll failed",
					slog.String("code_id", codeID),
					slog.String("error", err.Error()),
				)
				continue
			}

			metrics.IncPaymentPoll(string(status.Status))

			switch status.Status {
			case domain.PaymentCompleted:
				return status, nil
			case domain.PaymentPartial:
				if onPartial != nil {
					onPartial(*status)
				}
			}
		}
	}
}
