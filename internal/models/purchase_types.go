package models

import "time"

// HistoryRow is one line of a user's purchase history, joined with the sweet.
type HistoryRow struct {
	SweetID           int64     `json:"sweetId"`
	Name              string    `json:"name"`
	Image             *string   `json:"image,omitempty"`
	Price             float64   `json:"price"`
	PurchasedQuantity int       `json:"purchasedQuantity"`
	PurchaseDate      time.Time `json:"purchaseDate"`
}

// CheckoutLine is one line of a batch purchase.
type CheckoutLine struct {
	SweetID  int64 `json:"sweetId" binding:"required,gt=0"`
	Quantity int   `json:"quantity" binding:"required,gt=0"`
}
