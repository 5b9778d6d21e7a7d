package alert

import (
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders an amount with two decimals and thousands grouping,
// e.g. 60000 -> 60,000.00.
func FormatMoney(amount decimal.Decimal) string {
	return printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// FormatMessage builds the notification text for a fired alert.
func FormatMessage(alert types.Alert, price decimal.Decimal) string {
	return printer.Sprintf("ALERT: %s is now %s your target of $%s. Current price: $%s",
		alert.Symbol,
		alert.Condition.Word(),
		FormatMoney(alert.TargetPrice),
		FormatMoney(price),
	)
}
