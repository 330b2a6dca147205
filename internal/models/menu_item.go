package models

import "fmt"

const (
	MenuCategoryAll      = "all"
	MenuCategoryEnergy   = "energy"
	MenuCategoryImmunity = "immunity"
	MenuCategoryDetox    = "detox"
	MenuCategoryRefresh  = "refresh"
)

// MenuItem is a signature juice. Price is the listed menu price; ordering one
// loads its ingredients into the mixer, where the regular pricing applies.
type MenuItem struct {
	ID          string         `json:"id"`
	Ingredients []IngredientID `json:"fruits"`
	Liquid      LiquidID       `json:"liquid"`
	Price       int            `json:"price"`
	Calories    int            `json:"calories"`
	Category    string         `json:"category"`
	Popular     bool           `json:"popular"`
	IsNew       bool           `json:"isNew"`
}

var menu = []MenuItem{
	{ID: "tropicalSunrise", Ingredients: []IngredientID{IngredientMango, IngredientPineapple, IngredientOrange, IngredientHoney}, Liquid: LiquidOrange, Price: 45, Calories: 180, Category: MenuCategoryEnergy, Popular: true},
	{ID: "berryBlast", Ingredients: []IngredientID{IngredientStrawberry, IngredientBlueberry, IngredientGrape}, Liquid: LiquidWater, Price: 48, Calories: 150, Category: MenuCategoryImmunity, Popular: true},
	{ID: "greenDetox", Ingredients: []IngredientID{IngredientCucumber, IngredientApple, IngredientMint, IngredientLemon}, Liquid: LiquidWater, Price: 36, Calories: 90, Category: MenuCategoryDetox, Popular: true},
	{ID: "citrusBurst", Ingredients: []IngredientID{IngredientOrange, IngredientLemon, IngredientPineapple, IngredientHoney}, Liquid: LiquidWater, Price: 42, Calories: 160, Category: MenuCategoryImmunity, IsNew: true},
	{ID: "peachyDream", Ingredients: []IngredientID{IngredientPeach, IngredientMango, IngredientHoney}, Liquid: LiquidMilk, Price: 50, Calories: 220, Category: MenuCategoryRefresh},
	{ID: "carrotGinger", Ingredients: []IngredientID{IngredientCarrot, IngredientApple, IngredientLemon, IngredientHoney}, Liquid: LiquidWater, Price: 38, Calories: 120, Category: MenuCategoryDetox},
	{ID: "kiwiRefresh", Ingredients: []IngredientID{IngredientKiwi, IngredientApple, IngredientMint, IngredientCucumber}, Liquid: LiquidWater, Price: 40, Calories: 100, Category: MenuCategoryRefresh, IsNew: true},
	{ID: "mangoLassi", Ingredients: []IngredientID{IngredientMango, IngredientHoney}, Liquid: LiquidMilk, Price: 44, Calories: 250, Category: MenuCategoryEnergy, Popular: true},
}

func MenuCategories() []string {
	return []string{MenuCategoryAll, MenuCategoryEnergy, MenuCategoryImmunity, MenuCategoryDetox, MenuCategoryRefresh}
}

// Menu returns the menu filtered by category; "all" or "" returns every item.
func Menu(category string) []MenuItem {
	var out []MenuItem
	for _, item := range menu {
		if category == "" || category == MenuCategoryAll || item.Category == category {
			out = append(out, item.clone())
		}
	}
	return out
}

func LookupMenuItem(id string) (MenuItem, error) {
	for _, item := range menu {
		if item.ID == id {
			return item.clone(), nil
		}
	}
	return MenuItem{}, fmt.Errorf("%w: %q", ErrUnknownMenuItem, id)
}

func (m MenuItem) clone() MenuItem {
	m.Ingredients = append([]IngredientID(nil), m.Ingredients...)
	return m
}
