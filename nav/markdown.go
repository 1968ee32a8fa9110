package nav

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// Screens are sent with legacy Markdown. Operator and catalog strings go
// through these helpers so a stray '_' or '*' cannot break the entity parse.

// md escapes s for use outside any entity.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// bold wraps s in a bold entity. Legacy Markdown has no escapes inside an
// entity, so the closing delimiter is dropped from s instead.
func bold(s string) string {
	return "*" + strings.ReplaceAll(s, "*", "") + "*"
}

// code wraps s in an inline code span.
func code(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "'") + "`"
}

// FormatVND renders a whole-dong amount with '.' thousands separators and a
// trailing "đ", e.g. 1234567 -> "1.234.567đ".
func FormatVND(amount decimal.Decimal) string {
	digits := amount.Truncate(0).Abs().String()
	var b strings.Builder
	if amount.IsNegative() && digits != "0" {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteString("đ")
	return b.String()
}
