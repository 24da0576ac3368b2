package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
	"github.com/srgjo27/partner_dispatch/internal/platform/metrics"
)

const DefaultReconnectDelay = 3 * time.Second

// ConnectionManager owns the live channel's connect/disconnect policy.
type ConnectionManager struct {
	live           ports.LiveChannel
	availability   *AvailabilityService
	tokens         ports.TokenSource
	reconnectDelay time.Duration
	log            *slog.Logger

	mu             sync.Mutex
	onUnauthorized func(context.Context)
}

func NewConnectionManager(
	live ports.LiveChannel,
	availability *AvailabilityService,
	tokens ports.TokenSource,
	reconnectDelay time.Duration,
	log *slog.Logger,
) *ConnectionManager {
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}
	return &ConnectionManager{
		live:           live,
		availability:   availability,
		tokens:         tokens,
		reconnectDelay: reconnectDelay,
		log:            log,
	}
}

// OnUnauthorized registers the callback run (in its own goroutine) when the
// live channel rejects the session.
func (m *ConnectionManager) OnUnauthorized(fn func(context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onUnauthorized = fn
}

// EnsureConnected connects the live channel if it is down. A session is
// required and the partner profile is read first; an available partner is
// announced with goOnline once connected.
func (m *ConnectionManager) EnsureConnected(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.live.Connected() {
		return nil
	}
	if _, err := m.tokens.Token(ctx); err != nil {
		return err
	}

	partner, err := m.availability.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("connect live channel: %w", err)
	}

	if err := m.live.Connect(ctx); err != nil {
		metrics.SetLiveConnected(false)
		if domain.IsUnauthorized(err) && m.onUnauthorized != nil {
			go m.onUnauthorized(context.WithoutCancel(ctx))
		}
		return fmt.Errorf("connect live channel: %w", err)
	}
	metrics.SetLiveConnected(true)
	m.log.Info("live channel connected", slog.Bool("is_available", partner.IsAvailable))

	if partner.IsAvailable {
		if err := m.live.Emit(ctx, domain.EventGoOnline, nil); err != nil {
			m.log.Warn("failed to go online after connect", slog.String("error", err.Error()))
		}
	}
	return nil
}

// OnForeground is called whenever the app becomes active; live-channel
// dependent actions are not trusted until this has reconnected.
func (m *ConnectionManager) OnForeground(ctx context.Context) error {
	return m.EnsureConnected(ctx)
}

// Disconnect does not take the connect lock: it runs from session teardown,
// which can be triggered while a connect is in progress.
func (m *ConnectionManager) Disconnect(ctx context.Context) {
	if m.live.Connected() {
		if err := m.live.Emit(ctx, domain.EventGoOffline, nil); err != nil {
			m.log.Warn("failed to go offline before disconnect", slog.String("error", err.Error()))
		}
	}
	if err := m.live.Close(); err != nil {
		m.log.Warn("failed to close live channel", slog.String("error", err.Error()))
	}
	metrics.SetLiveConnected(false)
	m.log.Info("live channel disconnected")
}

// Supervise keeps trying to reconnect while a session exists.
func (m *ConnectionManager) Supervise(ctx context.Context) {
	ticker := time.NewTicker(m.reconnectDelay)
	defer ticker.Stop()

	m.log.Info("live channel supervisor started", slog.Duration("reconnect_delay", m.reconnectDelay))

	for {
		select {
		case <-ctx.Done():
			m.log.Info("live channel supervisor stopped")
			return
		case <-ticker.C:
			if m.live.Connected() {
				continue
			}
			metrics.SetLiveConnected(false)
			if err := m.EnsureConnected(ctx); err != nil {
				m.log.Debug("live channel reconnect failed", slog.String("error", err.Error()))
			}
		}
	}
}
