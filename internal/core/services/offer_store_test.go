package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOffer(id string, total int64, channel domain.Channel) domain.IncomingBookingOffer {
	return domain.IncomingBookingOffer{
		BookingID:   id,
		ServiceName: "Full Wash",
		TotalAmount: &total,
		Address:     domain.Address{Street: "12 MG Road", City: "Pune"},
		Channel:     channel,
		ReceivedAt:  time.Now(),
	}
}

func TestIncomingOfferStore_SetIsIdempotent(t *testing.T) {
	store := services.NewIncomingOfferStore()

	assert.True(t, store.Set(newOffer("B1", 499, domain.ChannelPush)))
	seq := store.Snapshot().Seq

	assert.False(t, store.Set(newOffer("B1", 499, domain.ChannelLive)))
	assert.Equal(t, seq, store.Snapshot().Seq)

	active, ok := store.Active()
	require.True(t, ok)
	assert.Equal(t, domain.ChannelPush, active.Channel)
}

func TestIncomingOfferStore_LastWriteWins(t *testing.T) {
	store := services.NewIncomingOfferStore()

	store.Set(newOffer("B1", 499, domain.ChannelLive))
	store.Set(newOffer("B2", 799, domain.ChannelLive))

	active, ok := store.Active()
	require.True(t, ok)
	assert.Equal(t, "B2", active.BookingID)
	assert.Equal(t, uint64(2), store.Snapshot().Seq)
}

func TestIncomingOfferStore_ClearIfKeepsNewerOffer(t *testing.T) {
	store := services.NewIncomingOfferStore()
	store.Set(newOffer("B1", 499, domain.ChannelLive))
	store.Set(newOffer("B2", 799, domain.ChannelLive))

	assert.False(t, store.ClearIf("B1"))
	_, ok := store.Active()
	assert.True(t, ok)

	assert.True(t, store.ClearIf("B2"))
	assert.False(t, store.Clear())

	snap := store.Snapshot()
	assert.False(t, snap.Visible)
	assert.Nil(t, snap.Offer)
}

func TestIncomingOfferStore_SingleDecisionInFlight(t *testing.T) {
	store := services.NewIncomingOfferStore()
	store.Set(newOffer("B1", 499, domain.ChannelLive))

	_, err := store.BeginDecision("B9")
	assert.ErrorIs(t, err, domain.ErrNoActiveOffer)

	offer, err := store.BeginDecision("B1")
	require.NoError(t, err)
	assert.Equal(t, "B1", offer.BookingID)

	_, err = store.BeginDecision("B1")
	assert.ErrorIs(t, err, domain.ErrDecisionInProgress)
	assert.False(t, store.ClearIfIdle("B1"))

	store.EndDecision("B1")
	assert.True(t, store.ClearIfIdle("B1"))
}

func TestIncomingOfferStore_Subscribe(t *testing.T) {
	store := services.NewIncomingOfferStore()
	store.Set(newOffer("B1", 499, domain.ChannelLive))

	updates, cancel := store.Subscribe(4)
	defer cancel()

	first := <-updates
	require.NotNil(t, first.Offer)
	assert.Equal(t, "B1", first.Offer.BookingID)

	store.Clear()
	second := <-updates
	assert.False(t, second.Visible)
	assert.Greater(t, second.Seq, first.Seq)

	cancel()
	_, open := <-updates
	assert.False(t, open)
}

func TestIncomingOfferStore_RetiredBookingStaysRetired(t *testing.T) {
	store := services.NewIncomingOfferStore()
	store.Set(newOffer("B1", 499, domain.ChannelLive))

	assert.True(t, store.Retire("B1"))
	assert.False(t, store.Set(newOffer("B1", 499, domain.ChannelPush)))
	_, ok := store.Active()
	assert.False(t, ok)

	assert.True(t, store.Set(newOffer("B2", 799, domain.ChannelPush)))
}

func TestIncomingOfferStore_RetireRemembersWithoutActiveOffer(t *testing.T) {
	store := services.NewIncomingOfferStore()
	store.Set(newOffer("B2", 799, domain.ChannelLive))

	assert.False(t, store.Retire("B1"))
	assert.True(t, store.Decided("B1"))
	active, ok := store.Active()
	require.True(t, ok)
	assert.Equal(t, "B2", active.BookingID)
}

func TestIncomingOfferStore_DecidedMemoryIsBounded(t *testing.T) {
	store := services.NewIncomingOfferStore()
	for i := range 100 {
		store.Retire(fmt.Sprintf("B%d", i))
	}

	assert.False(t, store.Decided("B0"))
	assert.True(t, store.Decided("B99"))
	assert.True(t, store.Set(newOffer("B0", 499, domain.ChannelLive)))
}
