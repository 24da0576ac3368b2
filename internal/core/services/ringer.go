package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/srgjo27/partner_dispatch/internal/core/ports"
	"github.com/srgjo27/partner_dispatch/internal/platform/metrics"
)

// Ringer is the only owner of the alert player. Its state is a single bool:
// repeated starts never layer playback and stopping a silent ringer is fine.
type Ringer struct {
	mu      sync.Mutex
	player  ports.AudioPlayer
	playing bool
	closed  bool
	log     *slog.Logger
}

func NewRinger(player ports.AudioPlayer, log *slog.Logger) *Ringer {
	return &Ringer{player: player, log: log}
}

// Start reports whether this call began playback.
func (r *Ringer) Start(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.playing || r.closed {
		return false, nil
	}
	if err := r.player.Play(ctx); err != nil {
		return false, fmt.Errorf("start alert: %w", err)
	}
	r.playing = true
	metrics.SetRingerActive(true)
	r.log.Debug("ringer started")
	return true, nil
}

// Stop reports whether this call halted playback.
func (r *Ringer) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.playing {
		return false
	}
	if err := r.player.Stop(); err != nil {
		r.log.Warn("failed to stop alert player", slog.String("error", err.Error()))
	}
	r.playing = false
	metrics.SetRingerActive(false)
	r.log.Debug("ringer stopped")
	return true
}

func (r *Ringer) Playing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.playing
}

// Close silences the ringer for good; later starts are ignored.
func (r *Ringer) Close() {
	r.Stop()

	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}
