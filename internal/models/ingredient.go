package models

import "fmt"

type IngredientID string

const (
	IngredientOrange     IngredientID = "orange"
	IngredientLemon      IngredientID = "lemon"
	IngredientStrawberry IngredientID = "strawberry"
	IngredientBlueberry  IngredientID = "blueberry"
	IngredientMango      IngredientID = "mango"
	IngredientPineapple  IngredientID = "pineapple"
	IngredientGrape      IngredientID = "grape"
	IngredientKiwi       IngredientID = "kiwi"
	IngredientApple      IngredientID = "apple"
	IngredientPeach      IngredientID = "peach"
	IngredientCarrot     IngredientID = "carrot"
	IngredientCucumber   IngredientID = "cucumber"
	IngredientMint       IngredientID = "mint"
	IngredientHoney      IngredientID = "honey"
)

// Ingredient is a fruit (or add-in) catalog entry. Colors are 6-digit hex strings.
type Ingredient struct {
	ID         IngredientID `json:"id"`
	Price      int          `json:"price"`
	Color      string       `json:"color"`
	ColorLight string       `json:"colorLight"`
}

var ingredients = []Ingredient{
	{ID: IngredientOrange, Price: 5, Color: "#FF9500", ColorLight: "#FFB74D"},
	{ID: IngredientLemon, Price: 3, Color: "#FFE135", ColorLight: "#FFF59D"},
	{ID: IngredientStrawberry, Price: 8, Color: "#FF4757", ColorLight: "#FF8A80"},
	{ID: IngredientBlueberry, Price: 10, Color: "#5352ED", ColorLight: "#7C4DFF"},
	{ID: IngredientMango, Price: 12, Color: "#FFA502", ColorLight: "#FFCA28"},
	{ID: IngredientPineapple, Price: 7, Color: "#FFD93D", ColorLight: "#FFF176"},
	{ID: IngredientGrape, Price: 6, Color: "#8E44AD", ColorLight: "#BA68C8"},
	{ID: IngredientKiwi, Price: 8, Color: "#7CB342", ColorLight: "#AED581"},
	{ID: IngredientApple, Price: 4, Color: "#E74C3C", ColorLight: "#EF5350"},
	{ID: IngredientPeach, Price: 9, Color: "#FFAB91", ColorLight: "#FFCCBC"},
	{ID: IngredientCarrot, Price: 3, Color: "#FF7043", ColorLight: "#FFAB91"},
	{ID: IngredientCucumber, Price: 2, Color: "#66BB6A", ColorLight: "#A5D6A7"},
	{ID: IngredientMint, Price: 2, Color: "#26A69A", ColorLight: "#80CBC4"},
	{ID: IngredientHoney, Price: 5, Color: "#FFB300", ColorLight: "#FFD54F"},
}

var ingredientsByID = indexIngredients(ingredients)

func indexIngredients(list []Ingredient) map[IngredientID]Ingredient {
	index := make(map[IngredientID]Ingredient, len(list))
	for _, ing := range list {
		index[ing.ID] = ing
	}
	return index
}

// Ingredients returns the catalog in display order.
func Ingredients() []Ingredient {
	out := make([]Ingredient, len(ingredients))
	copy(out, ingredients)
	return out
}

func LookupIngredient(id IngredientID) (Ingredient, bool) {
	ing, ok := ingredientsByID[id]
	return ing, ok
}

// ParseIngredientID validates an untrusted identifier against the catalog.
func ParseIngredientID(s string) (IngredientID, error) {
	id := IngredientID(s)
	if _, ok := ingredientsByID[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownIngredient, s)
	}
	return id, nil
}
