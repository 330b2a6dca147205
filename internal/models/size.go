package models

import "fmt"

type SizeID string

const (
	SizeSmall  SizeID = "small"
	SizeMedium SizeID = "medium"
	SizeLarge  SizeID = "large"

	DefaultSize = SizeMedium
)

type Size struct {
	ID             SizeID `json:"id"`
	Milliliters    int    `json:"ml"`
	Label          string `json:"label"`
	Price          int    `json:"price"`
	MaxIngredients int    `json:"maxFruits"`
}

var sizes = []Size{
	{ID: SizeSmall, Milliliters: 250, Label: "250ml", Price: 5, MaxIngredients: 4},
	{ID: SizeMedium, Milliliters: 500, Label: "500ml", Price: 8, MaxIngredients: 6},
	{ID: SizeLarge, Milliliters: 1000, Label: "1L", Price: 10, MaxIngredients: 8},
}

func Sizes() []Size {
	out := make([]Size, len(sizes))
	copy(out, sizes)
	return out
}

func LookupSize(id SizeID) (Size, bool) {
	for _, s := range sizes {
		if s.ID == id {
			return s, true
		}
	}
	return Size{}, false
}

func ParseSizeID(s string) (SizeID, error) {
	id := SizeID(s)
	if _, ok := LookupSize(id); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSize, s)
	}
	return id, nil
}
