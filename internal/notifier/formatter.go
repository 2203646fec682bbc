package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"StockLens/internal/model"
)

// FormatPredictionReport formats one symbol's prediction as a Telegram message.
func FormatPredictionReport(res *model.PredictionResult, summary *model.Summary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %s\n\n", html.EscapeString(res.Symbol), res.LastDate.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("Last close: %s\n", decimal.NewFromFloat(res.LastClose).String()))

	predicted := decimal.NewFromFloat(res.PredictedClose).Round(3)
	b.WriteString(fmt.Sprintf("Predicted close: <b>%s</b>", predicted))
	if res.LastClose > 0 {
		change := decimal.NewFromFloat((res.PredictedClose - res.LastClose) / res.LastClose * 100)
		sign := ""
		if change.IsPositive() {
			sign = "+"
		}
		b.WriteString(fmt.Sprintf(" (%s%s%%)", sign, change.StringFixed(2)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("RMSE: %s (train %d / test %d)\n", decimal.NewFromFloat(res.RMSE).Round(5), res.TrainSize, res.TestSize))

	if summary != nil {
		if summary.SMA50 != nil {
			b.WriteString(fmt.Sprintf("SMA50: %.2f\n", *summary.SMA50))
		}
		if summary.RSI14 != nil {
			b.WriteString(fmt.Sprintf("RSI14: %.1f\n", *summary.RSI14))
		}
		if summary.High52w != nil && summary.Low52w != nil {
			b.WriteString(fmt.Sprintf("52w: %.2f - %.2f\n", *summary.Low52w, *summary.High52w))
		}
	}
	return b.String()
}

// FormatFailure reports a symbol that could not be analysed.
func FormatFailure(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>%s</b>: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}

// FormatDigestHeader opens a scheduled watchlist run.
func FormatDigestHeader(now time.Time, symbols []string) string {
	return fmt.Sprintf("📊 <b>StockLens daily run</b> | %s\nWatchlist: %s",
		now.Format("2006-01-02"), html.EscapeString(strings.Join(symbols, ", ")))
}

// FormatHelp lists the supported bot commands.
func FormatHelp() string {
	return "<b>Commands</b>\n" +
		"/predict TICKER - predict the next close\n" +
		"/watchlist - show the scheduled symbols\n" +
		"/help - this message"
}
