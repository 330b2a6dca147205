package models

import "sort"

// presets are the quick-start mixes offered in the mixer.
var presets = map[string][]IngredientID{
	"tropical": {IngredientMango, IngredientPineapple, IngredientOrange},
	"berry":    {IngredientStrawberry, IngredientBlueberry, IngredientGrape},
	"green":    {IngredientCucumber, IngredientApple, IngredientMint, IngredientLemon},
}

// LookupPreset returns a copy of the preset's ingredient list.
func LookupPreset(name string) ([]IngredientID, bool) {
	ids, ok := presets[name]
	if !ok {
		return nil, false
	}
	out := make([]IngredientID, len(ids))
	copy(out, ids)
	return out, true
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
