package bot

import (
	"shop-telegram/nav"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// screenMarkup converts screen buttons to an inline keyboard, one button per row
// (URL vs callback). Returns nil when there are no buttons.
func screenMarkup(s nav.Screen) *tgbotapi.InlineKeyboardMarkup {
	if len(s.Buttons) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(s.Buttons))
	for _, btn := range s.Buttons {
		if btn.Action.URL != "" {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(btn.Label, btn.Action.URL)))
		} else {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Action.Token.String())))
		}
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}
