// Package redis stores mix state and orders in Redis under a namespace.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/repositories/memory"
)

// NewClient connects and pings the server.
func NewClient(ctx context.Context, addr string, db int) (*goredis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type MixStateRepository struct {
	rdb *goredis.Client
	key string
}

func NewMixStateRepository(rdb *goredis.Client, namespace string) *MixStateRepository {
	return &MixStateRepository{rdb: rdb, key: namespace}
}

func (r *MixStateRepository) Load(ctx context.Context) (*models.MixState, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, models.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	var state models.MixState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode mix state: %w", err)
	}
	return &state, nil
}

func (r *MixStateRepository) Save(ctx context.Context, state models.MixState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key, raw, 0).Err()
}

// OrderRepository keeps every order as a field of one hash.
type OrderRepository struct {
	rdb *goredis.Client
	key string
}

func NewOrderRepository(rdb *goredis.Client, namespace string) *OrderRepository {
	return &OrderRepository{rdb: rdb, key: namespace + ":orders"}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.OrderSnapshot) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	created, err := r.rdb.HSetNX(ctx, r.key, order.OrderNumber, raw).Result()
	if err != nil {
		return fmt.Errorf("redis hsetnx: %w", err)
	}
	if !created {
		return fmt.Errorf("order %s already exists", order.OrderNumber)
	}
	return nil
}

func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*models.OrderSnapshot, error) {
	raw, err := r.rdb.HGet(ctx, r.key, orderNumber).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, orderNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget: %w", err)
	}
	return decodeOrder(raw)
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]*models.OrderSnapshot, error) {
	all, err := r.rdb.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	orders := make([]*models.OrderSnapshot, 0, len(all))
	for _, raw := range all {
		order, err := decodeOrder([]byte(raw))
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	memory.SortOrders(orders)
	return orders, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	n, err := r.rdb.HLen(ctx, r.key).Result()
	return int(n), err
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}

func decodeOrder(raw []byte) (*models.OrderSnapshot, error) {
	var order models.OrderSnapshot
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}
