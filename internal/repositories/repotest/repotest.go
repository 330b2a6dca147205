// Package repotest holds the behavior every repository backend must share.
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/repositories"
)

func sampleState() models.MixState {
	mango, _ := models.LookupIngredient(models.IngredientMango)
	kiwi, _ := models.LookupIngredient(models.IngredientKiwi)
	return models.MixState{
		Ingredients: []models.SelectedIngredient{
			{Ingredient: mango, Token: "mango-1"},
			{Ingredient: kiwi, Token: "kiwi-2"},
			{Ingredient: mango, Token: "mango-3"},
		},
		Size:     models.SizeLarge,
		Liquid:   models.LiquidMilk,
		Ice:      true,
		Language: models.LanguageArabic,
	}
}

// SampleOrder builds an order created offset after a fixed instant.
func SampleOrder(number string, offset time.Duration) *models.OrderSnapshot {
	orange, _ := models.LookupIngredient(models.IngredientOrange)
	return &models.OrderSnapshot{
		OrderNumber: number,
		Customer: models.CustomerDetails{
			Name:          "Salma Bennani",
			Phone:         "0612345678",
			City:          models.CityAgadir,
			Address:       "Boulevard du 20 Août",
			PaymentMethod: models.PaymentCashOnDelivery,
		},
		Items:     []models.SelectedIngredient{{Ingredient: orange, Token: "orange-1"}},
		Size:      models.SizeSmall,
		Liquid:    models.LiquidWater,
		Pricing:   models.PriceBreakdown{IngredientsTotal: 5, ContainerPrice: 5, Total: 10},
		Total:     10,
		Status:    models.OrderStatusPlaced,
		CreatedAt: time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC).Add(offset),
	}
}

// MixStateContract exercises Load and Save against an empty repository.
func MixStateContract(t *testing.T, repo repositories.MixStateRepository) {
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, models.ErrStateNotFound)

	state := sampleState()
	require.NoError(t, repo.Save(ctx, state))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, *loaded)

	state.Ingredients = state.Ingredients[:1]
	state.Ice = false
	require.NoError(t, repo.Save(ctx, state))

	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, *loaded)
}

// OrderContract exercises every OrderRepository method against an empty repository.
func OrderContract(t *testing.T, repo repositories.OrderRepository) {
	ctx := context.Background()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.GetByNumber(ctx, "FM-MISSING")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	later := SampleOrder("FM-B", time.Minute)
	earlier := SampleOrder("FM-A", 0)
	require.NoError(t, repo.Create(ctx, later))
	require.NoError(t, repo.Create(ctx, earlier))
	assert.Error(t, repo.Create(ctx, earlier), "duplicate order number")

	got, err := repo.GetByNumber(ctx, "FM-A")
	require.NoError(t, err)
	assert.Equal(t, earlier.Customer, got.Customer)
	assert.Equal(t, earlier.Items, got.Items)
	assert.Equal(t, earlier.Pricing, got.Pricing)
	assert.True(t, earlier.CreatedAt.Equal(got.CreatedAt))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "FM-A", all[0].OrderNumber)
	assert.Equal(t, "FM-B", all[1].OrderNumber)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.DeleteAll(ctx))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// SampleOrders builds n orders one minute apart.
func SampleOrders(n int) []*models.OrderSnapshot {
	orders := make([]*models.OrderSnapshot, n)
	for i := range orders {
		orders[i] = SampleOrder(fmt.Sprintf("FM-%03d", i), time.Duration(i)*time.Minute)
	}
	return orders
}
