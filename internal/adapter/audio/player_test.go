package audio

import (
	"context"
	"testing"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandPlayer_NoCommand(t *testing.T) {
	p := NewCommandPlayer("", nil, logging.Discard())

	require.NoError(t, p.Play(context.Background()))
	require.NoError(t, p.Play(context.Background()))
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestCommandPlayer_StopKillsLoop(t *testing.T) {
	p := NewCommandPlayer("sleep", []string{"30"}, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, p.Play(ctx))
	// The loop outlives the caller's context.
	cancel()

	stopped := make(chan struct{})
	go func() {
		_ = p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("player did not stop")
	}
}
