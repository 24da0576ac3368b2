package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports/mocks"
	"github.com/srgjo27/partner_dispatch/internal/core/services"
	"github.com/srgjo27/partner_dispatch/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "partner-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newSession(t *testing.T) (*services.SessionService, *mocks.SessionRepository, *mocks.PartnerAPI, *services.NoticeBoard) {
	repo := mocks.NewSessionRepository(t)
	partners := mocks.NewPartnerAPI(t)
	notices := services.NewNoticeBoard(10)
	return services.NewSessionService(repo, partners, notices, logging.Discard()), repo, partners, notices
}

func TestSessionService_SignIn(t *testing.T) {
	svc, repo, _, _ := newSession(t)
	ctx := context.Background()
	token := signedToken(t, time.Now().Add(time.Hour))

	repo.On("SetToken", ctx, token).Return(nil).Once()

	require.NoError(t, svc.SignIn(ctx, "  "+token+"\n"))
}

func TestSessionService_SignInRejects(t *testing.T) {
	svc, repo, _, _ := newSession(t)
	ctx := context.Background()

	var verr domain.ValidationError
	assert.ErrorAs(t, svc.SignIn(ctx, "   "), &verr)
	assert.Equal(t, "token", verr.Field)

	expired := signedToken(t, time.Now().Add(-time.Minute))
	assert.ErrorIs(t, svc.SignIn(ctx, expired), domain.ErrUnauthorized)

	repo.AssertNotCalled(t, "SetToken", mock.Anything, mock.Anything)
}

func TestSessionService_TokenWithoutSessionRunsNoHooks(t *testing.T) {
	svc, repo, _, notices := newSession(t)
	ctx := context.Background()

	hooked := false
	svc.OnInvalidate(func(context.Context) { hooked = true })
	repo.On("GetToken", ctx).Return("", nil).Once()

	_, err := svc.Token(ctx)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, hooked)
	assert.Empty(t, notices.Recent())
}

func TestSessionService_TokenExpired(t *testing.T) {
	svc, repo, _, _ := newSession(t)
	ctx := context.Background()

	repo.On("GetToken", ctx).Return(signedToken(t, time.Now().Add(-time.Second)), nil).Once()

	_, err := svc.Token(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSessionService_OpaqueTokenIsKept(t *testing.T) {
	svc, repo, _, _ := newSession(t)
	ctx := context.Background()

	repo.On("GetToken", ctx).Return("opaque-token", nil).Once()

	token, err := svc.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", token)
}

func TestSessionService_InvalidateRunsHooks(t *testing.T) {
	svc, repo, _, notices := newSession(t)
	ctx := context.Background()

	var order []string
	svc.OnInvalidate(func(context.Context) { order = append(order, "disconnect") })
	svc.OnInvalidate(func(context.Context) { order = append(order, "reset") })
	repo.On("ClearToken", ctx).Return(nil).Once()

	svc.Invalidate(ctx)

	assert.Equal(t, []string{"disconnect", "reset"}, order)
	recent := notices.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, domain.NoticeError, recent[0].Level)
	assert.Equal(t, "Session expired", recent[0].Title)
}

func TestSessionService_SignOutIsQuiet(t *testing.T) {
	svc, repo, _, notices := newSession(t)
	ctx := context.Background()

	calls := 0
	svc.OnInvalidate(func(context.Context) { calls++ })
	repo.On("ClearToken", ctx).Return(assert.AnError).Once()

	svc.SignOut(ctx)

	assert.Equal(t, 1, calls)
	assert.Empty(t, notices.Recent())
}

func TestSessionService_RegisterPushToken(t *testing.T) {
	svc, _, partners, _ := newSession(t)
	ctx := context.Background()

	partners.On("UpdatePushToken", ctx, "fcm-123").Return(nil).Once()

	require.NoError(t, svc.RegisterPushToken(ctx, " fcm-123 "))

	var verr domain.ValidationError
	assert.ErrorAs(t, svc.RegisterPushToken(ctx, ""), &verr)
}
