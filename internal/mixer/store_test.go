package mixer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/repositories/memory"
)

func newTestStore(t *testing.T) (*Store, *memory.MixStateRepository) {
	t.Helper()
	repo := memory.NewMixStateRepository()
	return NewStore(repo, WithTokenSource(&SequentialTokens{})), repo
}

func addAll(t *testing.T, s *Store, ids ...models.IngredientID) {
	t.Helper()
	for _, id := range ids {
		outcome, err := s.Add(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, StatusAdded, outcome.Status, "adding %s", id)
	}
}

func tokens(items []models.SelectedIngredient) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Token
	}
	return out
}

func TestNewStoreDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Empty(t, s.Ingredients())
	assert.Equal(t, models.SizeMedium, s.Size())
	assert.Equal(t, models.LiquidWater, s.Liquid())
	assert.False(t, s.Ice())
	assert.Equal(t, models.LanguageEnglish, s.Language())
	assert.Nil(t, s.Order())
	assert.False(t, s.CheckoutComplete())
}

func TestAddUpToCapacity(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for i := 0; i < 6; i++ {
		outcome, err := s.Add(ctx, models.IngredientOrange)
		require.NoError(t, err)
		assert.Equal(t, StatusAdded, outcome.Status)
		assert.Equal(t, models.MessageAddedToMix, outcome.MessageKey)
		assert.Len(t, s.Ingredients(), i+1)
	}

	before := s.State()
	outcome, err := s.Add(ctx, models.IngredientLemon)
	require.NoError(t, err)
	assert.Equal(t, StatusCapacityExceeded, outcome.Status)
	assert.Equal(t, models.MessageMaxFruits, outcome.MessageKey)
	assert.False(t, outcome.Success())
	assert.Equal(t, before, s.State())
}

func TestAddCapacityFollowsSize(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		size models.SizeID
		cap  int
	}{
		{models.SizeSmall, 4},
		{models.SizeMedium, 6},
		{models.SizeLarge, 8},
	}
	for _, tc := range cases {
		t.Run(string(tc.size), func(t *testing.T) {
			s, _ := newTestStore(t)
			require.NoError(t, s.SetSize(ctx, tc.size))

			added := 0
			for i := 0; i < tc.cap+3; i++ {
				outcome, err := s.Add(ctx, models.IngredientKiwi)
				require.NoError(t, err)
				if outcome.Success() {
					added++
				}
			}
			assert.Equal(t, tc.cap, added)
			assert.Len(t, s.Ingredients(), tc.cap)
		})
	}
}

func TestAddUnknownIngredient(t *testing.T) {
	s, repo := newTestStore(t)

	outcome, err := s.Add(context.Background(), models.IngredientID("durian"))
	require.NoError(t, err)
	assert.Equal(t, StatusUnknownIngredient, outcome.Status)
	assert.Empty(t, outcome.MessageKey)
	assert.Empty(t, s.Ingredients())
	assert.Zero(t, repo.Saves())
}

func TestAddCopiesCatalogFields(t *testing.T) {
	s, _ := newTestStore(t)
	addAll(t, s, models.IngredientMango)

	got := s.Ingredients()[0]
	want, _ := models.LookupIngredient(models.IngredientMango)
	assert.Equal(t, want, got.Ingredient)
	assert.NotEmpty(t, got.Token)
}

func TestAddDuplicatesGetDistinctTokens(t *testing.T) {
	s, _ := newTestStore(t)
	addAll(t, s, models.IngredientApple, models.IngredientApple, models.IngredientApple)

	toks := tokens(s.Ingredients())
	assert.Len(t, toks, 3)
	assert.NotEqual(t, toks[0], toks[1])
	assert.NotEqual(t, toks[1], toks[2])
	assert.NotEqual(t, toks[0], toks[2])
}

type repeatingTokens struct {
	values []string
	i      int
}

func (r *repeatingTokens) NewToken(models.IngredientID) string {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

func TestAddNeverReusesLiveToken(t *testing.T) {
	ts := &repeatingTokens{values: []string{"same", "same", "other"}}
	s := NewStore(nil, WithTokenSource(ts))

	addAll(t, s, models.IngredientLemon, models.IngredientLemon)
	assert.Equal(t, []string{"same", "other"}, tokens(s.Ingredients()))
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	addAll(t, s, models.IngredientOrange, models.IngredientOrange, models.IngredientLemon)
	items := s.Ingredients()

	outcome, err := s.Remove(ctx, items[0].Token)
	require.NoError(t, err)
	assert.Equal(t, StatusRemoved, outcome.Status)
	assert.Equal(t, models.MessageRemovedFromMix, outcome.MessageKey)
	assert.Equal(t, []string{items[1].Token, items[2].Token}, tokens(s.Ingredients()))
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)
	addAll(t, s, models.IngredientOrange, models.IngredientLemon)
	token := s.Ingredients()[1].Token

	_, err := s.Remove(ctx, token)
	require.NoError(t, err)
	after := s.State()
	saves := repo.Saves()

	outcome, err := s.Remove(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, StatusRemoved, outcome.Status)
	assert.Equal(t, after, s.State())
	assert.Equal(t, saves, repo.Saves())
}

func TestSetSizeTruncatesFromTheEnd(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.SetSize(ctx, models.SizeLarge))
	addAll(t, s,
		models.IngredientOrange, models.IngredientLemon, models.IngredientMango, models.IngredientKiwi,
		models.IngredientApple, models.IngredientPeach, models.IngredientMint,
	)
	before := s.Ingredients()

	require.NoError(t, s.SetSize(ctx, models.SizeSmall))

	assert.Equal(t, models.SizeSmall, s.Size())
	assert.Equal(t, before[:4], s.Ingredients())
}

func TestSetSizeLargerKeepsEverything(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	addAll(t, s, models.IngredientOrange, models.IngredientLemon)
	before := s.Ingredients()

	require.NoError(t, s.SetSize(ctx, models.SizeLarge))
	assert.Equal(t, before, s.Ingredients())
}

func TestSetSizeUnknownIsRejected(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)
	addAll(t, s, models.IngredientOrange)
	before := s.State()
	saves := repo.Saves()

	err := s.SetSize(ctx, models.SizeID("bucket"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnknownSize))
	assert.Equal(t, before, s.State())
	assert.Equal(t, saves, repo.Saves())
}

func TestSetLiquid(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.SetLiquid(ctx, models.LiquidMilk))
	assert.Equal(t, models.LiquidMilk, s.Liquid())

	err := s.SetLiquid(ctx, models.LiquidID("soda"))
	assert.ErrorIs(t, err, models.ErrUnknownLiquid)
	assert.Equal(t, models.LiquidMilk, s.Liquid())
}

func TestToggleAndSetIce(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.ToggleIce(ctx))
	assert.True(t, s.Ice())
	require.NoError(t, s.ToggleIce(ctx))
	assert.False(t, s.Ice())
	require.NoError(t, s.SetIce(ctx, true))
	assert.True(t, s.Ice())
}

func TestClearResetsEverything(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.SetSize(ctx, models.SizeLarge))
	require.NoError(t, s.SetLiquid(ctx, models.LiquidOrange))
	require.NoError(t, s.SetIce(ctx, true))
	addAll(t, s, models.IngredientGrape, models.IngredientMint)

	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Ingredients())
	assert.Equal(t, models.SizeMedium, s.Size())
	assert.Equal(t, models.LiquidWater, s.Liquid())
	assert.False(t, s.Ice())
}

func TestCalculateTotalEmptyDefault(t *testing.T) {
	s, _ := newTestStore(t)

	b := s.CalculateTotal()
	assert.Equal(t, models.PriceBreakdown{ContainerPrice: 8, Total: 8}, b)
}

func TestCalculateTotalBreakdown(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	// prices 5, 3 and 8
	addAll(t, s, models.IngredientOrange, models.IngredientLemon, models.IngredientStrawberry)
	require.NoError(t, s.SetSize(ctx, models.SizeSmall))
	require.NoError(t, s.SetLiquid(ctx, models.LiquidMilk))
	require.NoError(t, s.SetIce(ctx, true))

	b := s.CalculateTotal()
	assert.Equal(t, 16, b.IngredientsTotal)
	assert.Equal(t, 5, b.ContainerPrice)
	assert.Equal(t, 3, b.LiquidPrice)
	assert.Equal(t, 1, b.IcePrice)
	assert.Equal(t, 25, b.Total)
	assert.Equal(t, b.IngredientsTotal+b.ContainerPrice+b.LiquidPrice+b.IcePrice, b.Total)
}

func TestCalculateTotalCountsDuplicates(t *testing.T) {
	s, _ := newTestStore(t)
	addAll(t, s, models.IngredientMango, models.IngredientMango)

	assert.Equal(t, 24, s.CalculateTotal().IngredientsTotal)
}

func TestBlendedColor(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, models.DefaultBlendColor, s.BlendedColor())

	addAll(t, s, models.IngredientBlueberry)
	assert.Equal(t, "#5352ed", s.BlendedColor())

	addAll(t, s, models.IngredientOrange)
	// (0x53+0xFF)/2=169, (0x52+0x95)/2=115.5, (0xED+0x00)/2=118.5
	assert.Equal(t, "#a97477", s.BlendedColor())
}

func TestLoadPresetReplacesIngredients(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	addAll(t, s, models.IngredientKiwi, models.IngredientKiwi)
	oldTokens := tokens(s.Ingredients())

	ok, err := s.LoadPreset(ctx, "tropical")
	require.NoError(t, err)
	require.True(t, ok)

	state := s.State()
	assert.Equal(t, []models.IngredientID{models.IngredientMango, models.IngredientPineapple, models.IngredientOrange}, state.IngredientIDs())
	for _, tok := range tokens(state.Ingredients) {
		assert.NotContains(t, oldTokens, tok)
	}
}

func TestLoadPresetUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)
	addAll(t, s, models.IngredientKiwi)
	before := s.State()
	saves := repo.Saves()

	ok, err := s.LoadPreset(ctx, "spicy")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, s.State())
	assert.Equal(t, saves, repo.Saves())
}

func TestLoadPresetIgnoresCapacityUntilNextSetSize(t *testing.T) {
	ctx := context.Background()
	big := []models.IngredientID{
		models.IngredientOrange, models.IngredientLemon, models.IngredientMango,
		models.IngredientKiwi, models.IngredientApple, models.IngredientPeach,
	}
	s := NewStore(nil, WithTokenSource(&SequentialTokens{}), WithPresets(func(name string) ([]models.IngredientID, bool) {
		return big, name == "big"
	}))
	require.NoError(t, s.SetSize(ctx, models.SizeSmall))

	ok, err := s.LoadPreset(ctx, "big")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, s.Ingredients(), 6, "presets are not clamped to the active size")

	outcome, err := s.Add(ctx, models.IngredientHoney)
	require.NoError(t, err)
	assert.Equal(t, StatusCapacityExceeded, outcome.Status)

	require.NoError(t, s.SetSize(ctx, models.SizeSmall))
	assert.Equal(t, big[:4], s.State().IngredientIDs())
}

func TestReferencePresets(t *testing.T) {
	ctx := context.Background()
	want := map[string][]models.IngredientID{
		"tropical": {models.IngredientMango, models.IngredientPineapple, models.IngredientOrange},
		"berry":    {models.IngredientStrawberry, models.IngredientBlueberry, models.IngredientGrape},
		"green":    {models.IngredientCucumber, models.IngredientApple, models.IngredientMint, models.IngredientLemon},
	}
	for name, ids := range want {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestStore(t)
			ok, err := s.LoadPreset(ctx, name)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, ids, s.State().IngredientIDs())
		})
	}
}

func TestLoadMenuItem(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.SetSize(ctx, models.SizeLarge))
	require.NoError(t, s.SetIce(ctx, true))
	addAll(t, s, models.IngredientKiwi)

	require.NoError(t, s.LoadMenuItem(ctx, "peachyDream"))

	state := s.State()
	assert.Equal(t, []models.IngredientID{models.IngredientPeach, models.IngredientMango, models.IngredientHoney}, state.IngredientIDs())
	assert.Equal(t, models.LiquidMilk, state.Liquid)
	assert.Equal(t, models.SizeMedium, state.Size)
	assert.False(t, state.Ice)

	err := s.LoadMenuItem(ctx, "coffee")
	assert.ErrorIs(t, err, models.ErrUnknownMenuItem)
	assert.Equal(t, state, s.State())
}

func TestHas(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	addAll(t, s, models.IngredientOrange)
	token := s.Ingredients()[0].Token

	assert.True(t, s.Has(token))
	assert.False(t, s.Has("missing"))

	_, err := s.Remove(ctx, token)
	require.NoError(t, err)
	assert.False(t, s.Has(token))
}

func TestConcurrentMutationsSaveLatestState(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)
	liquids := []models.LiquidID{models.LiquidWater, models.LiquidMilk, models.LiquidOrange}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.ToggleIce(ctx))
			assert.NoError(t, s.SetLiquid(ctx, liquids[i%len(liquids)]))
			_, err := s.Add(ctx, models.IngredientOrange)
			assert.NoError(t, err)
			if items := s.Ingredients(); len(items) > 0 {
				_, err = s.Remove(ctx, items[0].Token)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	saved, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.State(), *saved)
}

func TestMutationsPersist(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)

	addAll(t, s, models.IngredientOrange, models.IngredientHoney)
	require.NoError(t, s.SetSize(ctx, models.SizeLarge))
	require.NoError(t, s.SetLiquid(ctx, models.LiquidOrange))
	require.NoError(t, s.ToggleIce(ctx))
	require.NoError(t, s.SetLanguage(ctx, models.LanguageFrench))

	saved, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.State(), *saved)
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)
	addAll(t, s, models.IngredientOrange, models.IngredientOrange, models.IngredientMint)
	require.NoError(t, s.SetSize(ctx, models.SizeLarge))
	require.NoError(t, s.SetLiquid(ctx, models.LiquidMilk))
	require.NoError(t, s.SetIce(ctx, true))
	require.NoError(t, s.SetLanguage(ctx, models.LanguageArabic))

	restored := NewStore(repo, WithTokenSource(&SequentialTokens{}))
	require.NoError(t, restored.Restore(ctx))

	assert.Equal(t, s.State().IngredientIDs(), restored.State().IngredientIDs())
	assert.Equal(t, s.Size(), restored.Size())
	assert.Equal(t, s.Liquid(), restored.Liquid())
	assert.Equal(t, s.Ice(), restored.Ice())
	assert.Equal(t, s.Language(), restored.Language())
	assert.Equal(t, s.CalculateTotal(), restored.CalculateTotal())
	assert.Equal(t, s.BlendedColor(), restored.BlendedColor())
}

func TestRestoreMissingStateKeepsDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Restore(context.Background()))
	assert.Equal(t, models.DefaultMixState(), s.State())
}

func TestRestoreRejectsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	cases := map[string]models.MixState{
		"ingredient": {
			Ingredients: []models.SelectedIngredient{{Ingredient: models.Ingredient{ID: "durian"}, Token: "t1"}},
			Size:        models.SizeSmall,
			Liquid:      models.LiquidWater,
		},
		"size":   {Size: "bucket", Liquid: models.LiquidWater},
		"liquid": {Size: models.SizeSmall, Liquid: "soda"},
	}
	for name, state := range cases {
		t.Run(name, func(t *testing.T) {
			repo := memory.NewMixStateRepository()
			require.NoError(t, repo.Save(ctx, state))
			s := NewStore(repo)

			err := s.Restore(ctx)
			assert.ErrorIs(t, err, models.ErrInvalidState)
			assert.Equal(t, models.DefaultMixState(), s.State())
		})
	}
}

func TestRestoreRefreshesCatalogFieldsAndTokens(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMixStateRepository()
	require.NoError(t, repo.Save(ctx, models.MixState{
		Ingredients: []models.SelectedIngredient{
			{Ingredient: models.Ingredient{ID: models.IngredientMango, Price: 1, Color: "nope"}, Token: "dup"},
			{Ingredient: models.Ingredient{ID: models.IngredientMango}, Token: "dup"},
			{Ingredient: models.Ingredient{ID: models.IngredientLemon}},
		},
		Size:     models.SizeSmall,
		Liquid:   models.LiquidMilk,
		Language: "xx",
	}))

	s := NewStore(repo, WithTokenSource(&SequentialTokens{}))
	require.NoError(t, s.Restore(ctx))

	items := s.Ingredients()
	require.Len(t, items, 3)
	mango, _ := models.LookupIngredient(models.IngredientMango)
	assert.Equal(t, mango, items[0].Ingredient)
	assert.Equal(t, "dup", items[0].Token)
	assert.NotEqual(t, "dup", items[1].Token)
	assert.NotEmpty(t, items[2].Token)
	assert.Equal(t, models.LanguageEnglish, s.Language())
}

type failingRepo struct{ err error }

func (f failingRepo) Load(context.Context) (*models.MixState, error) { return nil, f.err }
func (f failingRepo) Save(context.Context, models.MixState) error    { return f.err }

func TestSaveFailureIsReturnedButMutationStands(t *testing.T) {
	boom := errors.New("disk full")
	s := NewStore(failingRepo{err: boom})

	outcome, err := s.Add(context.Background(), models.IngredientOrange)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusAdded, outcome.Status)
	assert.Len(t, s.Ingredients(), 1)

	assert.ErrorIs(t, s.Restore(context.Background()), boom)
}

func TestOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.NewOrderSnapshot(models.CustomerDetails{}, "FM-1", time.Now())
	assert.ErrorIs(t, err, models.ErrEmptyMix)

	addAll(t, s, models.IngredientOrange, models.IngredientLemon)
	require.NoError(t, s.SetIce(ctx, true))
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	customer := models.CustomerDetails{Name: "Sam", City: models.CityRabat}

	order, err := s.NewOrderSnapshot(customer, "FM-1", createdAt)
	require.NoError(t, err)
	assert.Equal(t, 17, order.Total)
	assert.Equal(t, s.CalculateTotal(), order.Pricing)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, createdAt, order.CreatedAt)

	s.SetOrderDetails(order)
	assert.True(t, s.CheckoutComplete())

	// later edits never reach the placed order
	addAll(t, s, models.IngredientMango)
	order.Items[0].Token = "tampered"
	stored := s.Order()
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 2)
	assert.NotEqual(t, "tampered", stored.Items[0].Token)
	assert.Equal(t, 17, stored.Total)

	require.NoError(t, s.ResetOrder(ctx))
	assert.Nil(t, s.Order())
	assert.False(t, s.CheckoutComplete())
	assert.Equal(t, models.DefaultMixState(), s.State())
}

func TestSetLanguage(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)

	require.NoError(t, s.SetLanguage(ctx, models.LanguageSpanish))
	assert.Equal(t, models.LanguageSpanish, s.Language())

	saves := repo.Saves()
	err := s.SetLanguage(ctx, models.Language("de"))
	assert.ErrorIs(t, err, models.ErrUnknownLanguage)
	assert.Equal(t, models.LanguageSpanish, s.Language())
	assert.Equal(t, saves, repo.Saves())
}
