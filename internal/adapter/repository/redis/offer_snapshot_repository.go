package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

const (
	offerSnapshotKey        = "partner:offer:active"
	DefaultOfferSnapshotTTL = 10 * time.Minute
)

// OfferSnapshotRepository keeps the visible offer across restarts.
type OfferSnapshotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOfferSnapshotRepository(client *redis.Client, ttl time.Duration) *OfferSnapshotRepository {
	if ttl <= 0 {
		ttl = DefaultOfferSnapshotTTL
	}
	return &OfferSnapshotRepository{client: client, ttl: ttl}
}

func (r *OfferSnapshotRepository) Save(ctx context.Context, offer domain.IncomingBookingOffer) error {
	data, err := json.Marshal(offer)
	if err != nil {
		return fmt.Errorf("failed to encode offer snapshot: %w", err)
	}

	if err := r.client.Set(ctx, offerSnapshotKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save offer snapshot: %w", err)
	}

	return nil
}

// Load returns nil when nothing is stored.
func (r *OfferSnapshotRepository) Load(ctx context.Context) (*domain.IncomingBookingOffer, error) {
	data, err := r.client.Get(ctx, offerSnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load offer snapshot: %w", err)
	}

	var offer domain.IncomingBookingOffer
	if err := json.Unmarshal(data, &offer); err != nil {
		return nil, fmt.Errorf("failed to decode offer snapshot: %w", err)
	}

	return &offer, nil
}

func (r *OfferSnapshotRepository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, offerSnapshotKey).Err()
}
