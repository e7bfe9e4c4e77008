package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"myShopHub/domain"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found or expired")

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func userKey(userID uint) string {
	return fmt.Sprintf("token:user:%d", userID)
}

func lookupKey(token string) string {
	return fmt.Sprintf("token:lookup:%s", token)
}

func userTokensKey(userID uint) string {
	return fmt.Sprintf("token:user:%d:all", userID)
}

// StoreToken records the latest session of a user, a reverse lookup
// token -> user_id used by the auth middleware and the set of every live
// token of the user.
func (r *TokenRepository) StoreToken(ctx context.Context, data domain.Session, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, userKey(data.UserID), jsonData, ttl)
		pipe.Set(ctx, lookupKey(data.Token), strconv.FormatUint(uint64(data.UserID), 10), ttl)
		pipe.SAdd(ctx, userTokensKey(data.UserID), data.Token)
		pipe.Expire(ctx, userTokensKey(data.UserID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	return nil
}

// GetSession retrieves the latest session of a user
func (r *TokenRepository) GetSession(ctx context.Context, userID uint) (*domain.Session, error) {
	val, err := r.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}

	return &session, nil
}

// ValidateToken checks if a token exists and returns its owner.
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (uint, error) {
	val, err := r.client.Get(ctx, lookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrTokenNotFound
		}
		return 0, fmt.Errorf("failed to validate token: %w", err)
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt token lookup: %w", err)
	}

	return uint(userID), nil
}

// RevokeToken removes the lookup entry, and the user entry when it still
// describes the same token.
func (r *TokenRepository) RevokeToken(ctx context.Context, userID uint, token string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, lookupKey(token))
		pipe.SRem(ctx, userTokensKey(userID), token)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	data, err := r.GetSession(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil
		}
		return err
	}

	if data.Token == token {
		if err := r.client.Del(ctx, userKey(userID)).Err(); err != nil {
			return fmt.Errorf("failed to revoke token: %w", err)
		}
	}

	return nil
}

// RevokeUserTokens drops every live token of a user.
func (r *TokenRepository) RevokeUserTokens(ctx context.Context, userID uint) error {
	tokens, err := r.client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list user tokens: %w", err)
	}

	keys := []string{userKey(userID), userTokensKey(userID)}
	for _, token := range tokens {
		keys = append(keys, lookupKey(token))
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}

	return nil
}
