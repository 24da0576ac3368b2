package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
)

// SessionService holds the partner's backend token. Invalidate runs the
// registered hooks so that an auth failure anywhere tears down the live
// channel and the pending offer.
type SessionService struct {
	repo     ports.SessionRepository
	partners ports.PartnerAPI
	notices  *NoticeBoard
	now      func() time.Time
	log      *slog.Logger

	mu    sync.Mutex
	hooks []func(context.Context)
}

func NewSessionService(repo ports.SessionRepository, partners ports.PartnerAPI, notices *NoticeBoard, log *slog.Logger) *SessionService {
	return &SessionService{
		repo:     repo,
		partners: partners,
		notices:  notices,
		now:      time.Now,
		log:      log,
	}
}

func (s *SessionService) OnInvalidate(hook func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, hook)
}

func (s *SessionService) SignIn(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ValidationError{Field: "token", Msg: "must not be empty"}
	}
	if tokenExpired(token, s.now()) {
		return domain.ErrUnauthorized
	}
	if err := s.repo.SetToken(ctx, token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	s.log.Info("session started")
	return nil
}

// Token returns the stored token, or ErrUnauthorized when there is none or it
// has expired. It never runs the invalidation hooks itself; callers that hit
// ErrUnauthorized report it through Invalidate.
func (s *SessionService) Token(ctx context.Context) (string, error) {
	token, err := s.repo.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("load session token: %w", err)
	}
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	if tokenExpired(token, s.now()) {
		return "", domain.ErrUnauthorized
	}
	return token, nil
}

// Invalidate ends the session after an authentication failure.
func (s *SessionService) Invalidate(ctx context.Context) {
	s.end(ctx)
	s.notices.Publish(domain.NoticeError, "", "Session expired", "Please sign in again")
	s.log.Warn("session invalidated")
}

func (s *SessionService) SignOut(ctx context.Context) {
	s.end(ctx)
	s.log.Info("session ended")
}

func (s *SessionService) end(ctx context.Context) {
	if err := s.repo.ClearToken(ctx); err != nil {
		s.log.Warn("failed to clear session token", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	hooks := make([]func(context.Context), len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx)
	}
}

func (s *SessionService) RegisterPushToken(ctx context.Context, pushToken string) error {
	pushToken = strings.TrimSpace(pushToken)
	if pushToken == "" {
		return domain.ValidationError{Field: "pushToken", Msg: "must not be empty"}
	}
	if err := s.partners.UpdatePushToken(ctx, pushToken); err != nil {
		return fmt.Errorf("register push token: %w", err)
	}
	return nil
}

// tokenExpired reads the exp claim without verifying the signature; the
// backend stays the judge of validity. Opaque tokens never expire here.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return !exp.After(now)
}
