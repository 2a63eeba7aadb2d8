package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockSync/internal/date"
	"StockSync/internal/model"
)

// FormatSyncReport renders a sync report as a Telegram HTML message.
func FormatSyncReport(day date.Date, report *model.SyncReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📥 <b>StockSync</b> | %s\n\n", day)
	if report == nil || len(report.Outcomes) == 0 {
		b.WriteString("No tickers to sync.\n")
		return b.String()
	}

	stored := 0
	for _, o := range report.Outcomes {
		name := html.EscapeString(o.Ticker)
		switch o.Status {
		case model.StatusUpToDate:
			fmt.Fprintf(&b, "✅ %s: up-to-date\n", name)
		case model.StatusFetched:
			stored += o.Stored
			fmt.Fprintf(&b, "⬇️ %s: %d stored (%d missing)\n", name, o.Stored, o.Missing)
		default:
			fmt.Fprintf(&b, "❌ %s: %s\n", name, html.EscapeString(o.Error))
		}
	}
	fmt.Fprintf(&b, "\n%d tickers, %d records stored, %d failed\n", len(report.Outcomes), stored, report.Failed())
	return b.String()
}

// FormatTickers renders the configured ticker list.
func FormatTickers(tickers []string) string {
	if len(tickers) == 0 {
		return "No tickers configured."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Tickers</b>\n")
	for _, t := range tickers {
		fmt.Fprintf(&b, "• %s\n", html.EscapeString(t))
	}
	return b.String()
}

// FormatError formats an error notification.
func FormatError(what string, err error) string {
	return fmt.Sprintf("⚠️ <b>StockSync error</b>\n\n%s: %s", html.EscapeString(what), html.EscapeString(err.Error()))
}
