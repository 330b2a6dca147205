package mixer

import "github.com/chrisdamba/freshmix/internal/models"

type Status int

const (
	StatusAdded Status = iota + 1
	StatusRemoved
	StatusCapacityExceeded
	StatusUnknownIngredient
)

func (s Status) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusRemoved:
		return "removed"
	case StatusCapacityExceeded:
		return "capacity_exceeded"
	case StatusUnknownIngredient:
		return "unknown_ingredient"
	default:
		return "unknown"
	}
}

// Outcome reports what an add or remove did. Rejections are ordinary
// outcomes, not errors; MessageKey is a localization key for the caller.
type Outcome struct {
	Status     Status
	MessageKey string
}

func (o Outcome) Success() bool {
	return o.Status == StatusAdded || o.Status == StatusRemoved
}

var (
	outcomeAdded             = Outcome{Status: StatusAdded, MessageKey: models.MessageAddedToMix}
	outcomeRemoved           = Outcome{Status: StatusRemoved, MessageKey: models.MessageRemovedFromMix}
	outcomeCapacityExceeded  = Outcome{Status: StatusCapacityExceeded, MessageKey: models.MessageMaxFruits}
	outcomeUnknownIngredient = Outcome{Status: StatusUnknownIngredient}
)
