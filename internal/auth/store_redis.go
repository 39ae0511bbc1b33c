// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/constants"
)

// RedisCodeRepository implements [CodeRepository] using Redis.
//
// Redis is the natural home for confirmation codes: they are transient,
// carry a TTL, and must never become a relational column.
type RedisCodeRepository struct {
	client *redis.Client
}

// NewCodeRepository creates a new Redis-backed CodeRepository.
func NewCodeRepository(client *redis.Client) *RedisCodeRepository {
	return &RedisCodeRepository{client: client}
}

/*
Set stores the hash of a confirmation code under the email with TTL.

Description: SET is an unconditional overwrite, so requesting a new code
atomically replaces and re-times any previous one for the same email.

Parameters:
  - ctx: context.Context
  - email: string
  - codeHash: string (SHA-256 hex of the plain code)
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisCodeRepository) Set(ctx context.Context, email, codeHash string, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixConfirmCode + email

	// Set the code hash with TTL
	if err := repository.client.Set(ctx, key, codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirm_code_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Get retrieves the stored code hash for an email.

Description: Returns apperr.NotFound if no code is live for the email.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - string: Stored SHA-256 code hash
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisCodeRepository) Get(ctx context.Context, email string) (string, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixConfirmCode + email

	// Get the code hash from Redis
	codeHash, err := repository.client.Get(ctx, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation code is invalid or expired")
		}
		return "", fmt.Errorf("redis_confirm_code_get_failed: %w", err)
	}

	// Return the code hash
	return codeHash, nil
}

/*
Delete removes the code for an email, consuming it.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisCodeRepository) Delete(ctx context.Context, email string) error {

	// Use constants for key prefix
	key := constants.RedisPrefixConfirmCode + email

	// Delete the code from Redis
	if err := repository.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_confirm_code_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
