package utils

import (
	"fmt"
	"net/url"
	"strconv"
)

// BuildUPIPayString builds the upi://pay deep link for a payment amount.
// Amounts are formatted without trailing zeros, matching what UPI apps
// expect in the am parameter.
func BuildUPIPayString(upiID, merchantName string, amount float64) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR",
		upiID, url.QueryEscape(merchantName), formatUPIAmount(amount))
}

// BuildUPIQRURL wraps the pay string in a QR image-rendering URL.
func BuildUPIQRURL(upiString string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=" + url.QueryEscape(upiString)
}

func formatUPIAmount(amount float64) string {
	// Always plain decimal: %g flips to scientific notation at 1e6, which
	// UPI apps reject.
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
