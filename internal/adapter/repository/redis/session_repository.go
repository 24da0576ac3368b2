package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const sessionTokenKey = "partner:session:token"

type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// GetToken returns "" when no session is stored.
func (r *SessionRepository) GetToken(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, sessionTokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}

func (r *SessionRepository) SetToken(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, sessionTokenKey, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

func (r *SessionRepository) ClearToken(ctx context.Context) error {
	return r.client.Del(ctx, sessionTokenKey).Err()
}
