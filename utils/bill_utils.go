package utils

import (
	"fmt"
	"time"
)

// NewBillID generates a bill identifier in the format BILL-<unix-millis>.
// Checkout is serialized behind the store lock, so two bills cannot share
// a millisecond.
func NewBillID(now time.Time) string {
	return fmt.Sprintf("BILL-%d", now.UnixMilli())
}

// FormatMoney renders an amount the way receipts show it, e.g. ₹1500.00.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}
