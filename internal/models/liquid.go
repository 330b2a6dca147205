package models

import "fmt"

type LiquidID string

const (
	LiquidWater  LiquidID = "water"
	LiquidMilk   LiquidID = "milk"
	LiquidOrange LiquidID = "orange"

	DefaultLiquid = LiquidWater
)

// IcePrice is the flat surcharge for adding ice.
const IcePrice = 1

type Liquid struct {
	ID    LiquidID `json:"id"`
	Price int      `json:"price"`
	Color string   `json:"color"`
}

var liquids = []Liquid{
	{ID: LiquidWater, Price: 0, Color: "#87CEEB"},
	{ID: LiquidMilk, Price: 3, Color: "#FFFEF0"},
	{ID: LiquidOrange, Price: 5, Color: "#FFA500"},
}

func Liquids() []Liquid {
	out := make([]Liquid, len(liquids))
	copy(out, liquids)
	return out
}

func LookupLiquid(id LiquidID) (Liquid, bool) {
	for _, l := range liquids {
		if l.ID == id {
			return l, true
		}
	}
	return Liquid{}, false
}

func ParseLiquidID(s string) (LiquidID, error) {
	id := LiquidID(s)
	if _, ok := LookupLiquid(id); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLiquid, s)
	}
	return id, nil
}
