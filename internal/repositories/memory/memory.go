// Package memory keeps mix state and orders in process memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chrisdamba/freshmix/internal/models"
)

type MixStateRepository struct {
	mu    sync.Mutex
	state *models.MixState
	saves int
}

func NewMixStateRepository() *MixStateRepository {
	return &MixStateRepository{}
}

func (r *MixStateRepository) Load(ctx context.Context) (*models.MixState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return nil, models.ErrStateNotFound
	}
	state := cloneState(*r.state)
	return &state, nil
}

func (r *MixStateRepository) Save(ctx context.Context, state models.MixState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cloned := cloneState(state)
	r.state = &cloned
	r.saves++
	return nil
}

// Saves reports how many times Save was called.
func (r *MixStateRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func cloneState(s models.MixState) models.MixState {
	s.Ingredients = append([]models.SelectedIngredient{}, s.Ingredients...)
	return s
}

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*models.OrderSnapshot
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*models.OrderSnapshot)}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.OrderSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.OrderNumber]; exists {
		return fmt.Errorf("order %s already exists", order.OrderNumber)
	}
	r.orders[order.OrderNumber] = order.Clone()
	return nil
}

func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*models.OrderSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[orderNumber]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, orderNumber)
	}
	return order.Clone(), nil
}

// GetAll returns orders oldest first.
func (r *OrderRepository) GetAll(ctx context.Context) ([]*models.OrderSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orders := make([]*models.OrderSnapshot, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, order.Clone())
	}
	SortOrders(orders)
	return orders, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders), nil
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = make(map[string]*models.OrderSnapshot)
	return nil
}

// SortOrders orders snapshots by creation time, then order number.
func SortOrders(orders []*models.OrderSnapshot) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].OrderNumber < orders[j].OrderNumber
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}
