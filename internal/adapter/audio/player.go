package audio

import (
	"context"
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

const restartDelay = time.Second

// CommandPlayer loops an external player command (e.g. `paplay alert.wav`)
// until stopped. With no command configured the alert is only logged.
type CommandPlayer struct {
	command string
	args    []string
	log     *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewCommandPlayer(command string, args []string, log *slog.Logger) *CommandPlayer {
	return &CommandPlayer{command: command, args: args, log: log}
}

// Play returns immediately; a second Play while looping is a no-op.
func (p *CommandPlayer) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	p.cancel, p.done = cancel, done

	if p.command == "" {
		p.log.Info("alert sounding (no player command configured)")
		close(done)
		return nil
	}

	go p.loop(loopCtx, done)
	return nil
}

// Stop returns once the player process has exited.
func (p *CommandPlayer) Stop() error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func (p *CommandPlayer) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		cmd := exec.CommandContext(ctx, p.command, p.args...)
		if err := cmd.Run(); err != nil && ctx.Err() == nil {
			p.log.Warn("alert player failed", slog.String("command", p.command), slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
			case <-time.After(restartDelay):
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}
