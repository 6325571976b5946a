package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tembopay/gw-momo-wallet/internal/logger"
	"github.com/tembopay/gw-momo-wallet/internal/models"
)

// TransactionViewCacheRepository caches terminal transaction views in Redis.
// Terminal states never change, so serving them from the cache spares the
// store and the provider a round trip on repeated polls.
type TransactionViewCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration for cached views
}

// NewTransactionViewCacheRepository creates a new repository instance with optional TTL
func NewTransactionViewCacheRepository(client *redis.Client, expiration time.Duration) *TransactionViewCacheRepository {
	return &TransactionViewCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// GetView fetches a cached transaction view by transaction id.
func (r *TransactionViewCacheRepository) GetView(ctx context.Context, transactionID uuid.UUID) (*models.TransactionView, error) {
	key := fmt.Sprintf("transaction_view:%s", transactionID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow("transaction view cache read",
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return nil, fmt.Errorf("transaction view not found in cache for %s", transactionID)
		}
		return nil, err
	}

	var view models.TransactionView
	if err := json.Unmarshal([]byte(val), &view); err != nil {
		logger.Log.Errorw("transaction view cache unmarshal failed",
			"key", key,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow("transaction view cache hit",
		"key", key,
		"status", view.Status,
	)

	return &view, nil
}

// SetView caches a terminal transaction view. Non-terminal views are refused
// because they may still change.
func (r *TransactionViewCacheRepository) SetView(ctx context.Context, view models.TransactionView) error {
	if !view.Status.Terminal() {
		return fmt.Errorf("refusing to cache non-terminal view for %s", view.TransactionID)
	}

	key := fmt.Sprintf("transaction_view:%s", view.TransactionID)

	data, err := json.Marshal(view)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("transaction view cache write",
		"key", key,
		"status", view.Status,
		"error", err,
	)

	return err
}
