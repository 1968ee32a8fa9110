package bot

import (
	"context"
	"fmt"
	"strings"

	"shop-telegram/nav"
	"shop-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the delivery layer uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Deliverer sends composed screens: as a photo with caption when an image is
// bound to the screen's key, otherwise as text. Long bodies are split at
// paragraph boundaries and the keyboard rides on the last message.
type Deliverer struct {
	api          Sender
	images       services.ImageStore
	textLimit    int
	captionLimit int
	log          *zap.Logger
}

func NewDeliverer(api Sender, images services.ImageStore, textLimit, captionLimit int, log *zap.Logger) *Deliverer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Deliverer{api: api, images: images, textLimit: textLimit, captionLimit: captionLimit, log: log}
}

func (d *Deliverer) Deliver(ctx context.Context, chatID int64, s nav.Screen) error {
	kb := screenMarkup(s)
	if ref, ok := d.imageFor(ctx, s.ImageKey); ok {
		sentPhoto, err := d.sendWithPhoto(chatID, ref, s.Text, kb)
		if err == nil {
			return nil
		}
		if sentPhoto {
			return err
		}
		// A stale file_id should not cost the user the screen.
		d.log.Warn("photo send failed, falling back to text",
			zap.String("image_key", s.ImageKey), zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return d.sendChunks(chatID, SplitMessage(s.Text, d.textLimit), kb)
}

func (d *Deliverer) imageFor(ctx context.Context, key string) (string, bool) {
	if key == "" || d.images == nil {
		return "", false
	}
	ref, ok, err := d.images.GetImage(ctx, key)
	if err != nil {
		d.log.Warn("image lookup failed", zap.String("image_key", key), zap.Error(err))
		return "", false
	}
	return ref, ok
}

// sendWithPhoto reports whether the photo itself went out, so the caller only
// falls back to text when nothing was delivered.
func (d *Deliverer) sendWithPhoto(chatID int64, ref, text string, kb *tgbotapi.InlineKeyboardMarkup) (bool, error) {
	chunks := SplitMessage(text, d.captionLimit)
	caption := chunks[0]
	var rest []string
	if len(chunks) > 1 {
		rest = SplitMessage(strings.Join(chunks[1:], paragraphSep), d.textLimit)
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(ref))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	if len(rest) == 0 && kb != nil {
		photo.ReplyMarkup = *kb
	}
	if _, err := d.api.Send(photo); err != nil {
		return false, fmt.Errorf("send photo: %w", err)
	}
	if len(rest) == 0 {
		return true, nil
	}
	return true, d.sendChunks(chatID, rest, kb)
}

func (d *Deliverer) sendChunks(chatID int64, chunks []string, kb *tgbotapi.InlineKeyboardMarkup) error {
	var nonEmpty []string
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	for i, c := range nonEmpty {
		msg := tgbotapi.NewMessage(chatID, c)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true
		if i == len(nonEmpty)-1 && kb != nil {
			msg.ReplyMarkup = *kb
		}
		if _, err := d.api.Send(msg); err != nil {
			return fmt.Errorf("send message %d/%d: %w", i+1, len(nonEmpty), err)
		}
	}
	return nil
}
