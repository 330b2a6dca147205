package factories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/freshmix/internal/checkout"
	"github.com/chrisdamba/freshmix/internal/mixer"
	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/repositories/memory"
)

func TestCreateCustomerPassesValidation(t *testing.T) {
	cf := NewCustomerFactory(42)
	for i := 0; i < 50; i++ {
		details := cf.CreateCustomer()
		assert.NoError(t, checkout.Validate(&details), "%+v", details)
	}
}

func TestCustomerFactoryIsDeterministic(t *testing.T) {
	a := NewCustomerFactory(7).CreateCustomer()
	b := NewCustomerFactory(7).CreateCustomer()
	assert.Equal(t, a, b)
}

func TestFillMixRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	mf := NewMixFactory(3)
	for i := 0; i < 50; i++ {
		store := mixer.NewStore(memory.NewMixStateRepository())
		require.NoError(t, mf.FillMix(ctx, store))

		size, ok := models.LookupSize(store.Size())
		require.True(t, ok)
		assert.NotEmpty(t, store.Ingredients())
		assert.LessOrEqual(t, len(store.Ingredients()), size.MaxIngredients)
	}
}
