package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
)

// AvailabilityService keeps the partner's dispatch eligibility. A change is
// written to the backend, then the profile is re-read and only the re-read
// value is trusted and advertised on the live channel.
type AvailabilityService struct {
	partners ports.PartnerAPI
	live     ports.LiveChannel
	log      *slog.Logger

	mu      sync.Mutex
	partner *domain.Partner
}

func NewAvailabilityService(partners ports.PartnerAPI, live ports.LiveChannel, log *slog.Logger) *AvailabilityService {
	return &AvailabilityService{partners: partners, live: live, log: log}
}

func (s *AvailabilityService) Refresh(ctx context.Context) (*domain.Partner, error) {
	partner, err := s.partners.GetPartner(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch partner profile: %w", err)
	}

	stored := *partner
	s.mu.Lock()
	s.partner = &stored
	s.mu.Unlock()

	out := *partner
	return &out, nil
}

func (s *AvailabilityService) SetAvailable(ctx context.Context, available bool) (*domain.Partner, error) {
	if _, err := s.partners.UpdateAvailability(ctx, available); err != nil {
		return nil, fmt.Errorf("update availability: %w", err)
	}

	partner, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	event := domain.EventGoOffline
	if partner.IsAvailable {
		event = domain.EventGoOnline
	}
	if err := s.live.Emit(ctx, event, nil); err != nil {
		s.log.Warn("failed to announce availability",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}

	s.log.Info("availability updated",
		slog.Bool("requested", available),
		slog.Bool("is_available", partner.IsAvailable),
	)
	return partner, nil
}

// Toggle flips the last confirmed availability.
func (s *AvailabilityService) Toggle(ctx context.Context) (*domain.Partner, error) {
	current, ok := s.Current()
	if !ok {
		fetched, err := s.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		current = fetched
	}
	return s.SetAvailable(ctx, !current.IsAvailable)
}

func (s *AvailabilityService) Current() (*domain.Partner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.partner == nil {
		return nil, false
	}
	out := *s.partner
	return &out, true
}

func (s *AvailabilityService) Forget() {
	s.mu.Lock()
	s.partner = nil
	s.mu.Unlock()
}
