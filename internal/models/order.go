package models

import "time"

// OrderSnapshot is an immutable record of a submitted order. It owns its own
// copy of the items so later edits to the mixer never reach it.
type OrderSnapshot struct {
	OrderNumber string               `json:"orderNumber"`
	Customer    CustomerDetails      `json:"customer"`
	Items       []SelectedIngredient `json:"items"`
	Size        SizeID               `json:"size"`
	Liquid      LiquidID             `json:"liquid"`
	Ice         bool                 `json:"addIce"`
	Pricing     PriceBreakdown       `json:"pricing"`
	Total       int                  `json:"total"`
	Status      string               `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// Clone returns a deep copy of the snapshot.
func (o *OrderSnapshot) Clone() *OrderSnapshot {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]SelectedIngredient(nil), o.Items...)
	return &c
}

// OrderEvent is the message published when an order is placed.
type OrderEvent struct {
	EventType   string   `json:"event_type"`
	Timestamp   int64    `json:"timestamp"`
	OrderNumber string   `json:"order_number"`
	City        string   `json:"city"`
	Payment     string   `json:"payment_method"`
	Size        string   `json:"size"`
	Liquid      string   `json:"liquid"`
	Ice         bool     `json:"add_ice"`
	Ingredients []string `json:"ingredients"`
	Total       int      `json:"total"`
}

// DeliveryUpdate is emitted each time a tracked order reaches a new stage.
type DeliveryUpdate struct {
	EventType   string        `json:"event_type"`
	Timestamp   int64         `json:"timestamp"`
	OrderNumber string        `json:"order_number"`
	Stage       string        `json:"stage"`
	StageIndex  int           `json:"stage_index"`
	Progress    float64       `json:"progress"`
	ETAMinutes  int           `json:"eta_minutes"`
	Store       StoreLocation `json:"store"`
}

// NewOrderEvent flattens a snapshot into its published form.
func NewOrderEvent(o *OrderSnapshot) OrderEvent {
	ids := make([]string, len(o.Items))
	for i, item := range o.Items {
		ids[i] = string(item.ID)
	}
	return OrderEvent{
		EventType:   EventOrderPlaced,
		Timestamp:   o.CreatedAt.Unix(),
		OrderNumber: o.OrderNumber,
		City:        string(o.Customer.City),
		Payment:     o.Customer.PaymentMethod,
		Size:        string(o.Size),
		Liquid:      string(o.Liquid),
		Ice:         o.Ice,
		Ingredients: ids,
		Total:       o.Total,
	}
}
