package stats

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Vietnamese)

// FormatMoney renders an amount in đồng with vi-VN digit grouping,
// e.g. 50000 -> "50.000 đ".
func FormatMoney(amount float64) string {
	return printer.Sprintf("%d đ", int64(math.Round(amount)))
}
