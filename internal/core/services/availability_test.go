package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports/mocks"
	"github.com/srgjo27/partner_dispatch/internal/core/services"
	"github.com/srgjo27/partner_dispatch/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityService_SetAvailableFollowsRefetch(t *testing.T) {
	partners := mocks.NewPartnerAPI(t)
	live := mocks.NewLiveChannel(t)
	svc := services.NewAvailabilityService(partners, live, logging.Discard())
	ctx := context.Background()

	partners.On("UpdateAvailability", ctx, true).Return(&domain.Partner{ID: "P1", IsAvailable: true}, nil).Once()
	// The backend refuses to put the partner online; the re-fetch wins.
	partners.On("GetPartner", ctx).Return(&domain.Partner{ID: "P1", IsAvailable: false}, nil).Once()
	live.On("Emit", ctx, domain.EventGoOffline, nil).Return(nil).Once()

	partner, err := svc.SetAvailable(ctx, true)

	require.NoError(t, err)
	assert.False(t, partner.IsAvailable)
	current, ok := svc.Current()
	require.True(t, ok)
	assert.False(t, current.IsAvailable)
}

func TestAvailabilityService_Toggle(t *testing.T) {
	partners := mocks.NewPartnerAPI(t)
	live := mocks.NewLiveChannel(t)
	svc := services.NewAvailabilityService(partners, live, logging.Discard())
	ctx := context.Background()

	partners.On("GetPartner", ctx).Return(&domain.Partner{ID: "P1", IsAvailable: false}, nil).Once()
	partners.On("UpdateAvailability", ctx, true).Return(&domain.Partner{ID: "P1", IsAvailable: true}, nil).Once()
	partners.On("GetPartner", ctx).Return(&domain.Partner{ID: "P1", IsAvailable: true}, nil).Once()
	live.On("Emit", ctx, domain.EventGoOnline, nil).Return(domain.ErrLiveChannelDown).Once()

	partner, err := svc.Toggle(ctx)

	require.NoError(t, err)
	assert.True(t, partner.IsAvailable)
}

func TestAvailabilityService_UpdateFailure(t *testing.T) {
	partners := mocks.NewPartnerAPI(t)
	live := mocks.NewLiveChannel(t)
	svc := services.NewAvailabilityService(partners, live, logging.Discard())
	ctx := context.Background()

	partners.On("UpdateAvailability", ctx, false).Return(nil, errors.New("boom")).Once()

	_, err := svc.SetAvailable(ctx, false)
	assert.Error(t, err)
	_, ok := svc.Current()
	assert.False(t, ok)
}
