package location

import (
	"context"
	"sync"
	"time"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

// LastKnown serves the most recent fix reported by the device. A fix older
// than maxAge is treated as unknown; zero disables the age check.
type LastKnown struct {
	maxAge time.Duration
	now    func() time.Time

	mu  sync.RWMutex
	loc *domain.Location
	at  time.Time
}

func NewLastKnown(maxAge time.Duration) *LastKnown {
	return &LastKnown{maxAge: maxAge, now: time.Now}
}

func (l *LastKnown) Update(loc domain.Location) error {
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return domain.ValidationError{Field: "latitude", Msg: "latitude must be within [-90, 90]"}
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return domain.ValidationError{Field: "longitude", Msg: "longitude must be within [-180, 180]"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.loc = &loc
	l.at = l.now()
	return nil
}

func (l *LastKnown) Current(ctx context.Context) (domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return domain.Location{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.loc == nil {
		return domain.Location{}, domain.ErrLocationUnknown
	}
	if l.maxAge > 0 && l.now().Sub(l.at) > l.maxAge {
		return domain.Location{}, domain.ErrLocationUnknown
	}
	return *l.loc, nil
}
