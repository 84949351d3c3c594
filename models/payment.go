package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	MethodCard PaymentMethod = "card"
	MethodUPI  PaymentMethod = "upi"
	MethodCOD  PaymentMethod = "cod"
)

// Valid reports whether m is one of card, upi, cod.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodUPI, MethodCOD:
		return true
	}
	return false
}

type PaymentStatus string

const (
	// checkout
	StatusPaid         PaymentStatus = "Paid"
	StatusCODToCollect PaymentStatus = "COD - To be collected"

	// standalone payments
	StatusSuccess         PaymentStatus = "success"
	StatusPendingDelivery PaymentStatus = "pending_delivery"
	StatusPending         PaymentStatus = "pending"
	StatusFailed          PaymentStatus = "failed"
)

// LineItem records one purchased book at the price charged.
type LineItem struct {
	BookID          primitive.ObjectID `json:"bookId" bson:"bookId"`
	Quantity        int                `json:"quantity" bson:"quantity"`
	PriceAtPurchase float64            `json:"priceAtPurchase" bson:"priceAtPurchase"`
}

// Payment is immutable once inserted. Full card numbers and security codes
// are never stored.
type Payment struct {
	ID             primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID         *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	Books          []LineItem          `json:"books,omitempty" bson:"books,omitempty"`
	Amount         float64             `json:"amount" bson:"amount"`
	Method         PaymentMethod       `json:"method" bson:"method"`
	CardholderName string              `json:"cardholderName,omitempty" bson:"cardholderName,omitempty"`
	Last4Digits    string              `json:"last4CardDigits,omitempty" bson:"last4CardDigits,omitempty"`
	CardExpiry     string              `json:"cardExpiry,omitempty" bson:"cardExpiry,omitempty"`
	UPIID          string              `json:"upiId,omitempty" bson:"upiId,omitempty"`
	TransactionID  string              `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Status         PaymentStatus       `json:"status" bson:"status"`
	PaymentDate    time.Time           `json:"paymentDate" bson:"paymentDate"`
}

// CheckoutItem is one entry of a checkout request.
type CheckoutItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

type CheckoutRequest struct {
	UserID      string         `json:"userId"`
	Books       []CheckoutItem `json:"books"`
	TotalAmount float64        `json:"totalAmount"`
	Method      PaymentMethod  `json:"method"`
	Name        string         `json:"name"`
	CardNumber  string         `json:"cardNumber"`
	Expiry      string         `json:"expiry"`
	CVV         string         `json:"cvv"`
	UPIID       string         `json:"upiId"`
}

type CheckoutResponse struct {
	Message     string        `json:"message"`
	PaymentID   string        `json:"paymentId"`
	Status      PaymentStatus `json:"status"`
	TotalAmount float64       `json:"totalAmount"`
}

// PaymentRequest is the body of the standalone POST /payments.
type PaymentRequest struct {
	Amount     *float64      `json:"amount"`
	Method     PaymentMethod `json:"method"`
	Name       string        `json:"name"`
	CardNumber string        `json:"cardNumber"`
	Expiry     string        `json:"expiry"`
	CVV        string        `json:"cvv"`
	UPIID      string        `json:"upiId"`
}

type PaymentResponse struct {
	Message   string        `json:"message"`
	PaymentID string        `json:"paymentId"`
	Status    PaymentStatus `json:"status"`
}

// CheckoutEvent is published after a checkout commits.
type CheckoutEvent struct {
	EventType   string        `json:"event_type"`
	PaymentID   string        `json:"payment_id"`
	UserID      string        `json:"user_id"`
	Items       []LineItem    `json:"items"`
	TotalAmount float64       `json:"total_amount"`
	Method      PaymentMethod `json:"method"`
	Status      PaymentStatus `json:"status"`
	Timestamp   time.Time     `json:"timestamp"`
}
