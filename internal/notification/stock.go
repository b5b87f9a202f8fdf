package notification

import "fmt"

// LowStockThreshold is the inclusive quantity at which a low-stock alert
// fires. Zero gets the stronger out-of-stock alert instead.
const LowStockThreshold = 5

type Message struct {
	Title string
	Body  string
}

// StockAlert maps a quantity change to at most one alert: out-of-stock at
// zero, low-stock at or below the threshold, nothing otherwise.
func StockAlert(productName string, branchID int64, quantity int) (Message, bool) {
	switch {
	case quantity == 0:
		return Message{
			Title: "Out of stock",
			Body:  fmt.Sprintf("%s is out of stock in branch %d", productName, branchID),
		}, true
	case quantity <= LowStockThreshold:
		return Message{
			Title: "Low stock",
			Body:  fmt.Sprintf("%s has only %d left", productName, quantity),
		}, true
	default:
		return Message{}, false
	}
}
