package repositories

import (
	"context"

	"github.com/chrisdamba/freshmix/internal/models"
)

// MixStateRepository persists the projection of a single mix configuration.
// Load returns models.ErrStateNotFound when nothing has been saved.
type MixStateRepository interface {
	Load(ctx context.Context) (*models.MixState, error)
	Save(ctx context.Context, state models.MixState) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.OrderSnapshot) error
	GetByNumber(ctx context.Context, orderNumber string) (*models.OrderSnapshot, error)
	GetAll(ctx context.Context) ([]*models.OrderSnapshot, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
