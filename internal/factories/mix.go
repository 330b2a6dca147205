package factories

import (
	"context"
	"math/rand"

	"github.com/chrisdamba/freshmix/internal/mixer"
	"github.com/chrisdamba/freshmix/internal/models"
)

// MixFactory fills a store the way a shopper would: a menu item, a preset,
// or a hand-picked mix.
type MixFactory struct {
	rng *rand.Rand
}

func NewMixFactory(seed int64) *MixFactory {
	return &MixFactory{rng: rand.New(rand.NewSource(seed))}
}

func (mf *MixFactory) FillMix(ctx context.Context, store *mixer.Store) error {
	switch mf.rng.Intn(3) {
	case 0:
		menu := models.Menu(models.MenuCategoryAll)
		return store.LoadMenuItem(ctx, menu[mf.rng.Intn(len(menu))].ID)
	case 1:
		names := models.PresetNames()
		if _, err := store.LoadPreset(ctx, names[mf.rng.Intn(len(names))]); err != nil {
			return err
		}
	default:
		sizes := models.Sizes()
		size := sizes[mf.rng.Intn(len(sizes))]
		if err := store.SetSize(ctx, size.ID); err != nil {
			return err
		}
		ingredients := models.Ingredients()
		count := 1 + mf.rng.Intn(size.MaxIngredients)
		for i := 0; i < count; i++ {
			if _, err := store.Add(ctx, ingredients[mf.rng.Intn(len(ingredients))].ID); err != nil {
				return err
			}
		}
	}

	liquids := models.Liquids()
	if err := store.SetLiquid(ctx, liquids[mf.rng.Intn(len(liquids))].ID); err != nil {
		return err
	}
	return store.SetIce(ctx, mf.rng.Intn(2) == 0)
}
