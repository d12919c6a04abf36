package models

import "time"

// --- Core Models ---

// Product is a single inventory entry. Code is the identity key.
type Product struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// CartItem is a product plus a quantity. It only lives between "add to
// cart" and checkout, at which point it is captured by value into a Bill.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity for this line.
func (ci CartItem) Subtotal() float64 {
	return ci.Price * float64(ci.Quantity)
}

// Bill is a finalized sales transaction. Immutable after creation except
// for EmailSent (set once after the receipt attempt) and Feedback (set at
// most once by the customer).
type Bill struct {
	ID            string     `json:"id"`
	Date          time.Time  `json:"date"`
	Items         []CartItem `json:"items"`
	Total         float64    `json:"total"`
	PaymentMethod string     `json:"paymentMethod"`
	CustomerName  string     `json:"customerName,omitempty"`
	CustomerEmail string     `json:"customerEmail,omitempty"`
	EmailSent     *bool      `json:"emailSent,omitempty"`
	Feedback      *Feedback  `json:"feedback,omitempty"`
}

// Feedback is a customer rating attached to a bill. One per bill.
type Feedback struct {
	ID      string    `json:"id"`
	BillID  string    `json:"billId"`
	Rating  int       `json:"rating"`
	Emoji   string    `json:"emoji"`
	Comment string    `json:"comment,omitempty"`
	Date    time.Time `json:"date"`
}

// EmailSettings holds the SendGrid credentials used for receipt emails.
type EmailSettings struct {
	APIKey      string `json:"apiKey"`
	SenderEmail string `json:"senderEmail"`
	SenderName  string `json:"senderName"`
}

// PaymentMethods lists the accepted payment method values.
var PaymentMethods = map[string]bool{
	"cash":       true,
	"card":       true,
	"netbanking": true,
	"upi":        true,
}

// --- API Request Structs ---

// ProductRequest is the body for creating or updating a product.
type ProductRequest struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// AddCartItemRequest is the body for adding a product to the cart.
type AddCartItemRequest struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// UpdateCartItemRequest changes the quantity of a cart line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CardDetails carries card fields for card payments. They are validated
// for presence only; nothing is charged or stored.
type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
	Name   string `json:"name"`
}

// CheckoutRequest is the body for finalizing a sale.
type CheckoutRequest struct {
	PaymentMethod  string       `json:"paymentMethod"`
	CustomerName   string       `json:"customerName,omitempty"`
	CustomerEmail  string       `json:"customerEmail,omitempty"`
	AmountReceived float64      `json:"amountReceived,omitempty"`
	CardDetails    *CardDetails `json:"cardDetails,omitempty"`
	Bank           string       `json:"bank,omitempty"`
}

// FeedbackRequest is the body for leaving feedback on a bill.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Emoji   string `json:"emoji"`
	Comment string `json:"comment,omitempty"`
}

// InsightsRequest is the body for the AI insights endpoint.
type InsightsRequest struct {
	Prompt string `json:"prompt,omitempty"`
}
