package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/menstyle/storefront/internal/domain"
	apperrors "github.com/menstyle/storefront/pkg/errors"
)

const draftKeyPrefix = "pos:draft:"

// DraftRepository implements repository.DraftRepository using Redis. One draft
// per register id, discarded after the sale is submitted or the TTL lapses.
type DraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftRepository creates a new Redis-backed point-of-sale draft repository.
func NewDraftRepository(client *redis.Client, ttl time.Duration) *DraftRepository {
	return &DraftRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a draft by register ID from Redis.
func (r *DraftRepository) Get(ctx context.Context, registerID string) (*domain.SaleDraft, error) {
	key := draftKeyPrefix + registerID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("sale draft", registerID)
		}
		return nil, fmt.Errorf("redis get draft: %w", err)
	}

	var draft domain.SaleDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}

	return &draft, nil
}

// Save persists a draft to Redis with the configured TTL.
func (r *DraftRepository) Save(ctx context.Context, draft *domain.SaleDraft) error {
	key := draftKeyPrefix + draft.RegisterID

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}

	return nil
}

// Delete removes a draft from Redis by register ID.
func (r *DraftRepository) Delete(ctx context.Context, registerID string) error {
	key := draftKeyPrefix + registerID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del draft: %w", err)
	}

	return nil
}
