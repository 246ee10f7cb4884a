package entity

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryDelivered DeliveryStatus = "delivered"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryDelivered:
		return true
	}
	return false
}

type Order struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Items          []OrderItem    `json:"items"`
	Total          float64        `json:"total"`
	PaymentStatus  PaymentStatus  `json:"paymentStatus"`
	DeliveryStatus DeliveryStatus `json:"deliveryStatus"`
	CreatedAt      time.Time      `json:"createdAt"`
	Email          string         `json:"email"`
	PaymentID      string         `json:"paymentId,omitempty"`
	AccountData    string         `json:"accountData,omitempty"`
}

// OrderItem snapshots name and price at order-creation time; later product
// edits never change an existing order's totals.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}
