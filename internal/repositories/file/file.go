// Package file persists mix state and order history as JSON documents in a
// local directory, one file per namespace.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/repositories/memory"
)

type MixStateRepository struct {
	path string
}

// NewMixStateRepository stores state at <dir>/<namespace>.json.
func NewMixStateRepository(dir, namespace string) *MixStateRepository {
	return &MixStateRepository{path: filepath.Join(dir, namespace+".json")}
}

func (r *MixStateRepository) Load(ctx context.Context) (*models.MixState, error) {
	var state models.MixState
	if err := readJSON(r.path, &state); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, models.ErrStateNotFound
		}
		return nil, err
	}
	return &state, nil
}

func (r *MixStateRepository) Save(ctx context.Context, state models.MixState) error {
	return writeJSON(r.path, state)
}

type OrderRepository struct {
	mu   sync.Mutex
	path string
}

// NewOrderRepository keeps order history at <dir>/<namespace>-orders.json.
func NewOrderRepository(dir, namespace string) *OrderRepository {
	return &OrderRepository{path: filepath.Join(dir, namespace+"-orders.json")}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.OrderSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders, err := r.readAll()
	if err != nil {
		return err
	}
	for _, existing := range orders {
		if existing.OrderNumber == order.OrderNumber {
			return fmt.Errorf("order %s already exists", order.OrderNumber)
		}
	}
	return writeJSON(r.path, append(orders, order))
}

func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*models.OrderSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		if order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, orderNumber)
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]*models.OrderSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders, err := r.readAll()
	if err != nil {
		return nil, err
	}
	memory.SortOrders(orders)
	return orders, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders, err := r.readAll()
	return len(orders), err
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (r *OrderRepository) readAll() ([]*models.OrderSnapshot, error) {
	var orders []*models.OrderSnapshot
	if err := readJSON(r.path, &orders); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return orders, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeJSON replaces the file atomically so a crash never leaves a torn record.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
