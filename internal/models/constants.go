package models

const (
	MessageAddedToMix     = "addedToMix"
	MessageRemovedFromMix = "removedFromMix"
	MessageMaxFruits      = "maxFruits"

	// DefaultBlendColor is the preview color of an empty mix.
	DefaultBlendColor = "#FFE4C4"

	// DefaultNamespace keys the persisted mix state.
	DefaultNamespace = "freshmix-store"

	OrderNumberPrefix = "FM-"

	OrderStatusPlaced    = "placed"
	OrderStatusDelivered = "delivered"

	PaymentCashOnDelivery = "cod"
	PaymentCard           = "card"

	StagePreparing = "preparing"
	StageOnTheWay  = "onTheWay"
	StageArriving  = "arriving"
	StageDelivered = "delivered"

	EventOrderPlaced    = "order_placed"
	EventDeliveryStatus = "delivery_status"

	TopicOrders   = "orders"
	TopicDelivery = "delivery_status"
)

// DeliveryStages lists tracking stages in the order they are reached.
var DeliveryStages = []string{StagePreparing, StageOnTheWay, StageArriving, StageDelivered}
