// Package mixer holds the mix configuration store: ingredient selection under
// the active size's capacity, size/liquid/ice choices, pricing and the blended
// preview color.
package mixer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chrisdamba/freshmix/internal/logger"
	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/repositories"
)

// Store is the live mix configuration of one session. Every mutator persists
// the resulting projection through the repository before returning; a save
// error is returned but the in-memory change stands. Mutators are serialized
// through saving, so the last save always matches the live state.
type Store struct {
	saveMu           sync.Mutex
	mu               sync.RWMutex
	ingredients      []models.SelectedIngredient
	size             models.SizeID
	liquid           models.LiquidID
	ice              bool
	language         models.Language
	order            *models.OrderSnapshot
	checkoutComplete bool

	repo    repositories.MixStateRepository
	tokens  TokenSource
	presets PresetLookup
	log     *logger.Logger
}

// PresetLookup resolves a preset name to its ingredient list.
type PresetLookup func(name string) ([]models.IngredientID, bool)

type Option func(*Store)

func WithTokenSource(ts TokenSource) Option {
	return func(s *Store) { s.tokens = ts }
}

func WithPresets(lookup PresetLookup) Option {
	return func(s *Store) { s.presets = lookup }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore returns an empty configuration. A nil repo disables persistence.
func NewStore(repo repositories.MixStateRepository, opts ...Option) *Store {
	s := &Store{
		ingredients: []models.SelectedIngredient{},
		size:        models.DefaultSize,
		liquid:      models.DefaultLiquid,
		language:    models.DefaultLanguage,
		repo:        repo,
		tokens:      UUIDTokens{},
		presets:     models.LookupPreset,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "mixer")
	return s
}

// Restore seeds the store from the repository. A missing record is not an
// error. A record naming ids outside the catalog is rejected as a whole and
// the store keeps its defaults.
func (s *Store) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	state, err := s.repo.Load(ctx)
	if errors.Is(err, models.ErrStateNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load mix state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	valid, err := s.validateState(*state)
	if err != nil {
		s.log.Warn("discarding persisted mix state", "error", err)
		return err
	}
	s.ingredients = valid.Ingredients
	s.size = valid.Size
	s.liquid = valid.Liquid
	s.ice = valid.Ice
	s.language = valid.Language
	s.log.Debug("restored mix state", "ingredients", len(s.ingredients), "size", s.size, "liquid", s.liquid)
	return nil
}

func (s *Store) validateState(state models.MixState) (models.MixState, error) {
	out := models.DefaultMixState()
	out.Ice = state.Ice

	if state.Size != "" {
		if _, ok := models.LookupSize(state.Size); !ok {
			return out, fmt.Errorf("%w: size %q", models.ErrInvalidState, state.Size)
		}
		out.Size = state.Size
	}
	if state.Liquid != "" {
		if _, ok := models.LookupLiquid(state.Liquid); !ok {
			return out, fmt.Errorf("%w: liquid %q", models.ErrInvalidState, state.Liquid)
		}
		out.Liquid = state.Liquid
	}
	if state.Language != "" {
		lang, err := models.ParseLanguage(string(state.Language))
		if err != nil {
			s.log.Warn("unknown persisted language, using default", "language", state.Language)
		} else {
			out.Language = lang
		}
	}

	seen := make(map[string]bool, len(state.Ingredients))
	for _, item := range state.Ingredients {
		ing, ok := models.LookupIngredient(item.ID)
		if !ok {
			return models.DefaultMixState(), fmt.Errorf("%w: ingredient %q", models.ErrInvalidState, item.ID)
		}
		token := item.Token
		if token == "" || seen[token] {
			token = s.tokens.NewToken(ing.ID)
		}
		seen[token] = true
		out.Ingredients = append(out.Ingredients, models.SelectedIngredient{Ingredient: ing, Token: token})
	}
	return out, nil
}

// Add appends one unit of the ingredient unless the active size is full.
func (s *Store) Add(ctx context.Context, id models.IngredientID) (Outcome, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	outcome := s.addLocked(id)
	if !outcome.Success() {
		s.mu.Unlock()
		s.log.Debug("add rejected", "ingredient", id, "status", outcome.Status)
		return outcome, nil
	}
	state := s.stateLocked()
	s.mu.Unlock()
	return outcome, s.persist(ctx, state)
}

func (s *Store) addLocked(id models.IngredientID) Outcome {
	if len(s.ingredients) >= s.activeSizeLocked().MaxIngredients {
		return outcomeCapacityExceeded
	}
	ing, ok := models.LookupIngredient(id)
	if !ok {
		return outcomeUnknownIngredient
	}
	s.ingredients = append(s.ingredients, s.newInstanceLocked(ing))
	return outcomeAdded
}

// newInstanceLocked mints a token that no current instance carries.
func (s *Store) newInstanceLocked(ing models.Ingredient) models.SelectedIngredient {
	for {
		token := s.tokens.NewToken(ing.ID)
		if !s.hasTokenLocked(token) {
			return models.SelectedIngredient{Ingredient: ing, Token: token}
		}
		s.log.Warn("token collision, minting another", "token", token)
	}
}

// Has reports whether an instance with the token is in the mix.
func (s *Store) Has(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasTokenLocked(token)
}

func (s *Store) hasTokenLocked(token string) bool {
	for _, item := range s.ingredients {
		if item.Token == token {
			return true
		}
	}
	return false
}

// Remove drops the instance with the given token. Unknown tokens are ignored.
func (s *Store) Remove(ctx context.Context, token string) (Outcome, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	kept := s.ingredients[:0:0]
	for _, item := range s.ingredients {
		if item.Token != token {
			kept = append(kept, item)
		}
	}
	changed := len(kept) != len(s.ingredients)
	s.ingredients = kept
	state := s.stateLocked()
	s.mu.Unlock()

	if !changed {
		return outcomeRemoved, nil
	}
	return outcomeRemoved, s.persist(ctx, state)
}

// SetSize switches the container. When the new size holds fewer ingredients
// than are selected, the most recently added ones are dropped.
func (s *Store) SetSize(ctx context.Context, id models.SizeID) error {
	size, ok := models.LookupSize(id)
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrUnknownSize, id)
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if len(s.ingredients) > size.MaxIngredients {
		s.log.Info("size change truncated mix", "size", id, "dropped", len(s.ingredients)-size.MaxIngredients)
		s.ingredients = append([]models.SelectedIngredient(nil), s.ingredients[:size.MaxIngredients]...)
	}
	s.size = id
	state := s.stateLocked()
	s.mu.Unlock()
	return s.persist(ctx, state)
}

func (s *Store) SetLiquid(ctx context.Context, id models.LiquidID) error {
	if _, ok := models.LookupLiquid(id); !ok {
		return fmt.Errorf("%w: %q", models.ErrUnknownLiquid, id)
	}
	return s.mutate(ctx, func() { s.liquid = id })
}

func (s *Store) ToggleIce(ctx context.Context) error {
	return s.mutate(ctx, func() { s.ice = !s.ice })
}

func (s *Store) SetIce(ctx context.Context, ice bool) error {
	return s.mutate(ctx, func() { s.ice = ice })
}

func (s *Store) SetLanguage(ctx context.Context, lang models.Language) error {
	if _, err := models.ParseLanguage(string(lang)); err != nil {
		return err
	}
	return s.mutate(ctx, func() { s.language = lang })
}

// Clear resets ingredients, size, liquid and ice to their defaults.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, s.clearLocked)
}

func (s *Store) clearLocked() {
	s.ingredients = []models.SelectedIngredient{}
	s.size = models.DefaultSize
	s.liquid = models.DefaultLiquid
	s.ice = false
}

// LoadPreset replaces the ingredients with the named preset. It reports
// false for unknown names. The active size's capacity is not applied; the
// next SetSize does that.
func (s *Store) LoadPreset(ctx context.Context, name string) (bool, error) {
	ids, ok := s.presets(name)
	if !ok {
		return false, nil
	}
	err := s.mutate(ctx, func() {
		s.ingredients = make([]models.SelectedIngredient, 0, len(ids))
		for _, id := range ids {
			ing, ok := models.LookupIngredient(id)
			if !ok {
				s.log.Warn("preset names unknown ingredient", "preset", name, "ingredient", id)
				continue
			}
			s.ingredients = append(s.ingredients, s.newInstanceLocked(ing))
		}
	})
	return true, err
}

// LoadMenuItem starts a fresh mix from a signature juice.
func (s *Store) LoadMenuItem(ctx context.Context, id string) error {
	item, err := models.LookupMenuItem(id)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() {
		s.clearLocked()
		for _, ingID := range item.Ingredients {
			if outcome := s.addLocked(ingID); !outcome.Success() {
				s.log.Warn("menu ingredient rejected", "menu_item", id, "ingredient", ingID, "status", outcome.Status)
			}
		}
		s.liquid = item.Liquid
	})
}

// SetOrderDetails records a placed order and marks checkout complete. The
// store keeps its own copy of the snapshot.
func (s *Store) SetOrderDetails(order *models.OrderSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order.Clone()
	s.checkoutComplete = order != nil
}

// ResetOrder clears the mix together with the placed order.
func (s *Store) ResetOrder(ctx context.Context) error {
	return s.mutate(ctx, func() {
		s.clearLocked()
		s.order = nil
		s.checkoutComplete = false
	})
}

// NewOrderSnapshot freezes the current mix into an order for the customer.
func (s *Store) NewOrderSnapshot(customer models.CustomerDetails, orderNumber string, createdAt time.Time) (*models.OrderSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.ingredients) == 0 {
		return nil, models.ErrEmptyMix
	}
	pricing := s.calculateTotalLocked()
	return &models.OrderSnapshot{
		OrderNumber: orderNumber,
		Customer:    customer,
		Items:       append([]models.SelectedIngredient(nil), s.ingredients...),
		Size:        s.size,
		Liquid:      s.liquid,
		Ice:         s.ice,
		Pricing:     pricing,
		Total:       pricing.Total,
		Status:      models.OrderStatusPlaced,
		CreatedAt:   createdAt,
	}, nil
}

// CalculateTotal prices the current configuration.
func (s *Store) CalculateTotal() models.PriceBreakdown {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calculateTotalLocked()
}

func (s *Store) calculateTotalLocked() models.PriceBreakdown {
	var b models.PriceBreakdown
	for _, item := range s.ingredients {
		b.IngredientsTotal += item.Price
	}
	b.ContainerPrice = s.activeSizeLocked().Price
	if liquid, ok := models.LookupLiquid(s.liquid); ok {
		b.LiquidPrice = liquid.Price
	}
	if s.ice {
		b.IcePrice = models.IcePrice
	}
	b.Total = b.IngredientsTotal + b.ContainerPrice + b.LiquidPrice + b.IcePrice
	return b
}

// BlendedColor is the preview color of the mix.
func (s *Store) BlendedColor() string {
	s.mu.RLock()
	colors := make([]string, len(s.ingredients))
	for i, item := range s.ingredients {
		colors[i] = item.Color
	}
	s.mu.RUnlock()
	return BlendColors(colors)
}

func (s *Store) Ingredients() []models.SelectedIngredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SelectedIngredient{}, s.ingredients...)
}

func (s *Store) Size() models.SizeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

func (s *Store) Liquid() models.LiquidID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liquid
}

func (s *Store) Ice() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ice
}

func (s *Store) Language() models.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

func (s *Store) Order() *models.OrderSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Clone()
}

func (s *Store) CheckoutComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkoutComplete
}

// State returns the persisted projection of the configuration.
func (s *Store) State() models.MixState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() models.MixState {
	return models.MixState{
		Ingredients: append([]models.SelectedIngredient{}, s.ingredients...),
		Size:        s.size,
		Liquid:      s.liquid,
		Ice:         s.ice,
		Language:    s.language,
	}
}

func (s *Store) activeSizeLocked() models.Size {
	size, _ := models.LookupSize(s.size)
	return size
}

func (s *Store) mutate(ctx context.Context, fn func()) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	fn()
	state := s.stateLocked()
	s.mu.Unlock()
	return s.persist(ctx, state)
}

func (s *Store) persist(ctx context.Context, state models.MixState) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, state); err != nil {
		s.log.Error("failed to persist mix state", "error", err)
		return fmt.Errorf("save mix state: %w", err)
	}
	return nil
}
