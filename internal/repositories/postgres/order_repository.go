package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/freshmix/internal/models"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `order_number, customer, items, size, liquid, ice, pricing, total, status, created_at`

func (r *OrderRepository) BulkCreate(ctx context.Context, orders []*models.OrderSnapshot) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"orders"},
		[]string{
			"order_number", "customer", "items", "size", "liquid",
			"ice", "pricing", "total", "status", "created_at",
		},
		pgx.CopyFromSlice(len(orders), func(i int) ([]interface{}, error) {
			return orderValues(orders[i]), nil
		}),
	)
	return err
}

func (r *OrderRepository) Create(ctx context.Context, order *models.OrderSnapshot) error {
	query := `
        INSERT INTO orders (` + orderColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.pool.Exec(ctx, query, orderValues(order)...)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", order.OrderNumber, err)
	}
	return nil
}

func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*models.OrderSnapshot, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, orderNumber)
	}
	return order, err
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]*models.OrderSnapshot, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at, order_number`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.OrderSnapshot
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	return count, err
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE orders")
	return err
}

func orderValues(o *models.OrderSnapshot) []interface{} {
	return []interface{}{
		o.OrderNumber,
		o.Customer,
		o.Items,
		string(o.Size),
		string(o.Liquid),
		o.Ice,
		o.Pricing,
		o.Total,
		o.Status,
		o.CreatedAt,
	}
}

func scanOrder(row pgx.Row) (*models.OrderSnapshot, error) {
	order := &models.OrderSnapshot{}
	var size, liquid string
	err := row.Scan(
		&order.OrderNumber,
		&order.Customer,
		&order.Items,
		&size,
		&liquid,
		&order.Ice,
		&order.Pricing,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Size = models.SizeID(size)
	order.Liquid = models.LiquidID(liquid)
	return order, nil
}
