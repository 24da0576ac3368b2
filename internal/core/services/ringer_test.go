package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/srgjo27/partner_dispatch/internal/core/ports/mocks"
	"github.com/srgjo27/partner_dispatch/internal/core/services"
	"github.com/srgjo27/partner_dispatch/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRinger_StartStopBalance(t *testing.T) {
	player := mocks.NewAudioPlayer(t)
	player.On("Play", mock.Anything).Return(nil).Once()
	player.On("Stop").Return(nil).Once()

	ringer := services.NewRinger(player, logging.Discard())
	ctx := context.Background()

	started, err := ringer.Start(ctx)
	require.NoError(t, err)
	assert.True(t, started)

	started, err = ringer.Start(ctx)
	require.NoError(t, err)
	assert.False(t, started)

	assert.True(t, ringer.Stop())
	assert.False(t, ringer.Stop())
	assert.False(t, ringer.Playing())
}

func TestRinger_ConcurrentStartsPlayOnce(t *testing.T) {
	player := mocks.NewAudioPlayer(t)
	player.On("Play", mock.Anything).Return(nil).Once()

	ringer := services.NewRinger(player, logging.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ringer.Start(context.Background())
		}()
	}
	wg.Wait()

	assert.True(t, ringer.Playing())
}

func TestRinger_PlayFailureLeavesSilent(t *testing.T) {
	player := mocks.NewAudioPlayer(t)
	player.On("Play", mock.Anything).Return(errors.New("device busy")).Once()

	ringer := services.NewRinger(player, logging.Discard())

	started, err := ringer.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, started)
	assert.False(t, ringer.Playing())
	assert.False(t, ringer.Stop())
}

func TestRinger_CloseIgnoresLaterStarts(t *testing.T) {
	player := mocks.NewAudioPlayer(t)
	player.On("Play", mock.Anything).Return(nil).Once()
	player.On("Stop").Return(nil).Once()

	ringer := services.NewRinger(player, logging.Discard())
	_, _ = ringer.Start(context.Background())
	ringer.Close()

	started, err := ringer.Start(context.Background())
	assert.NoError(t, err)
	assert.False(t, started)
}
