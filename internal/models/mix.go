package models

// SelectedIngredient is one unit of a catalog ingredient inside a mix. Token
// distinguishes repeated additions of the same ingredient.
type SelectedIngredient struct {
	Ingredient
	Token string `json:"uniqueId"`
}

// MixState is the persisted projection of a mix configuration. Transient
// checkout state is deliberately absent.
type MixState struct {
	Ingredients []SelectedIngredient `json:"selectedFruits"`
	Size        SizeID               `json:"selectedSize"`
	Liquid      LiquidID             `json:"selectedLiquid"`
	Ice         bool                 `json:"addIce"`
	Language    Language             `json:"language"`
}

// DefaultMixState is the empty configuration every session starts from.
func DefaultMixState() MixState {
	return MixState{
		Ingredients: []SelectedIngredient{},
		Size:        DefaultSize,
		Liquid:      DefaultLiquid,
		Language:    DefaultLanguage,
	}
}

// IngredientIDs lists the ingredient identifiers in insertion order.
func (s MixState) IngredientIDs() []IngredientID {
	ids := make([]IngredientID, len(s.Ingredients))
	for i, ing := range s.Ingredients {
		ids[i] = ing.ID
	}
	return ids
}

type PriceBreakdown struct {
	IngredientsTotal int `json:"fruitsTotal"`
	ContainerPrice   int `json:"bottlePrice"`
	LiquidPrice      int `json:"liquidPrice"`
	IcePrice         int `json:"icePrice"`
	Total            int `json:"total"`
}
