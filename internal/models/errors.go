package models

import "errors"

var (
	ErrUnknownIngredient = errors.New("unknown ingredient")
	ErrUnknownSize       = errors.New("unknown size")
	ErrUnknownLiquid     = errors.New("unknown liquid")
	ErrUnknownLanguage   = errors.New("unknown language")
	ErrUnknownCity       = errors.New("unknown city")
	ErrUnknownMenuItem   = errors.New("unknown menu item")

	// ErrStateNotFound is returned by state repositories when nothing was saved yet.
	ErrStateNotFound = errors.New("mix state not found")
	// ErrInvalidState marks a persisted record that references ids outside the catalog.
	ErrInvalidState  = errors.New("invalid mix state")
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyMix      = errors.New("mix has no ingredients")
)
