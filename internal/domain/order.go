package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BasketStatus enumerates the basket lifecycle.
type BasketStatus string

const (
	BasketNew        BasketStatus = "NEW"
	BasketInProgress BasketStatus = "IN_PROGRESS"
	BasketCompleted  BasketStatus = "COMPLETED"
	BasketCancelled  BasketStatus = "CANCELLED"
)

// ValidBasketStatus reports whether s is a known status value.
func ValidBasketStatus(s BasketStatus) bool {
	switch s {
	case BasketNew, BasketInProgress, BasketCompleted, BasketCancelled:
		return true
	}
	return false
}

// Basket is a user's order-in-progress. UserID references the users service.
type Basket struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Status      BasketStatus    `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []OrderProduct  `json:"orderProducts"`
	Checkout    *Checkout       `json:"checkout,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OrderProduct is one line of a basket: a product variant, a quantity of at
// least 1, and the price captured at order time. (productId, basketId) is
// unique within a basket.
type OrderProduct struct {
	ID               string          `json:"id"`
	BasketID         string          `json:"basketId"`
	ProductID        string          `json:"productId"`
	ProductVariantID string          `json:"productVariantId"`
	Qty              int             `json:"qty"`
	ProductPrice     decimal.Decimal `json:"productPrice"`
}

// Address is a user's delivery address.
type Address struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	ReceiverName  string    `json:"receiverName"`
	ReceiverPhone string    `json:"receiverPhone"`
	Address       string    `json:"address"`
	RoomOrOffice  string    `json:"roomOrOffice,omitempty"`
	Door          string    `json:"door,omitempty"`
	Floor         string    `json:"floor,omitempty"`
	RingBell      string    `json:"ringBell,omitempty"`
	ZipCode       string    `json:"zipCode,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Checkout ties a basket to a delivery address.
type Checkout struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	AddressID string    `json:"addressId"`
	BasketID  string    `json:"basketId"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
