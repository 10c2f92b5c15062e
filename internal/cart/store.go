package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/angelmondragon/bakehouse-backend/pkg/redis"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the persisted form of a cart: ids and quantities only. Prices
// and names are re-read from the catalog on load.
type Snapshot struct {
	Items []SnapshotItem `json:"items"`
}

type SnapshotItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SnapshotOf strips a cart down to its persisted form.
func SnapshotOf(c Cart) Snapshot {
	snap := Snapshot{Items: make([]SnapshotItem, 0, len(c.Lines))}
	for _, line := range c.Lines {
		snap.Items = append(snap.Items, SnapshotItem{ProductID: line.Product.ID, Quantity: line.Quantity})
	}
	return snap
}

// Store persists carts per session. Load of an unknown session returns an
// empty snapshot.
type Store interface {
	Load(ctx context.Context, sessionID string) (Snapshot, error)
	Save(ctx context.Context, sessionID string, snap Snapshot) error
	Delete(ctx context.Context, sessionID string) error
}

type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type redisStore struct {
	kv  kv
	ttl time.Duration
}

// NewRedisStore keeps carts in redis. Every save refreshes the TTL.
func NewRedisStore(client kv, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &redisStore{kv: client, ttl: ttl}, nil
}

func (s *redisStore) Load(ctx context.Context, sessionID string) (Snapshot, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	if err != nil {
		if pkgredis.IsNil(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("load cart: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode cart: %w", err)
	}
	return snap, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	if len(snap.Items) == 0 {
		return s.Delete(ctx, sessionID)
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
