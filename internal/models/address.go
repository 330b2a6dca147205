package models

// CustomerDetails holds what the checkout form collects.
type CustomerDetails struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	City          City   `json:"city"`
	Address       string `json:"address"`
	Notes         string `json:"notes,omitempty"`
	PaymentMethod string `json:"paymentMethod"`
}
