package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shop-telegram/models"
	"shop-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	textNotAdmin       = "⛔ Lệnh này chỉ dành cho admin. Dùng /login <mật khẩu>."
	textLoginDisabled  = "⛔ Đăng nhập admin đang tắt."
	textLoginUsage     = "Cú pháp: /login <mật khẩu>"
	textLoginOK        = "✅ Đăng nhập admin thành công."
	textAlreadyAdmin   = "✅ Bạn đã là admin."
	textWrongPassword  = "❌ Sai mật khẩu."
	textLoggedOut      = "👋 Đã đăng xuất admin."
	textSetImageUsage  = "Cú pháp: /setimg <KEY>\nKEY: START, PAYMENT, CAT_<mã danh mục>, ITEM_<mã sản phẩm>"
	textCancelled      = "✅ Đã huỷ."
	textNothingPending = "Không có thao tác nào đang chờ."
)

func (b *Bot) handleLogin(msg *tgbotapi.Message) {
	chatID, userID := msg.Chat.ID, msg.From.ID
	password := strings.TrimSpace(msg.CommandArguments())

	// The password should not linger in the chat history.
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
		b.log.Debug("delete login message", zap.Error(err))
	}

	if b.admins.IsAdmin(userID) {
		b.send(chatID, textAlreadyAdmin)
		return
	}
	if password == "" {
		b.send(chatID, textLoginUsage)
		return
	}
	err := b.admins.Login(userID, password)
	var throttled *services.ThrottledError
	switch {
	case err == nil:
		b.log.Info("admin login", zap.Int64("user_id", userID))
		b.send(chatID, textLoginOK)
	case errors.Is(err, services.ErrLoginDisabled):
		b.send(chatID, textLoginDisabled)
	case errors.As(err, &throttled):
		b.send(chatID, fmt.Sprintf("⏳ Thử lại sau %d giây.", throttled.Seconds))
	default:
		b.log.Warn("admin login failed", zap.Int64("user_id", userID))
		b.send(chatID, textWrongPassword)
	}
}

func (b *Bot) handleLogout(msg *tgbotapi.Message) {
	b.admins.Logout(msg.From.ID)
	b.send(msg.Chat.ID, textLoggedOut)
}

// handleSetImage opens an upload session; the next photo from the admin
// is bound to the key.
func (b *Bot) handleSetImage(msg *tgbotapi.Message) {
	chatID, userID := msg.Chat.ID, msg.From.ID
	if !b.admins.IsAdmin(userID) {
		b.send(chatID, textNotAdmin)
		return
	}
	key, ok := b.imageKey(msg.CommandArguments())
	if !ok {
		b.send(chatID, textSetImageUsage)
		return
	}
	b.uploads.Begin(userID, key)
	b.send(chatID, fmt.Sprintf("📷 Gửi ảnh cho %s (hết hạn sau %s). /cancel để huỷ.",
		key, formatTTL(b.cfg.Admin.UploadTTL)))
}

func (b *Bot) handleCancel(msg *tgbotapi.Message) {
	if b.uploads.Cancel(msg.From.ID) {
		b.send(msg.Chat.ID, textCancelled)
		return
	}
	b.send(msg.Chat.ID, textNothingPending)
}

// handlePhoto binds an admin's photo to the key named in its caption
// ("/setimg KEY") or to the key of a pending upload session.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	chatID, userID := msg.Chat.ID, msg.From.ID
	if !b.admins.IsAdmin(userID) {
		return
	}

	var key string
	if fields := strings.Fields(msg.Caption); len(fields) > 0 && isSetImageCommand(fields[0]) {
		k, ok := b.imageKey(strings.Join(fields[1:], " "))
		if !ok {
			b.send(chatID, textSetImageUsage)
			return
		}
		key = k
	} else {
		k, ok := b.uploads.Take(userID)
		if !ok {
			return
		}
		key = k
	}

	// Telegram lists sizes smallest first.
	ref := msg.Photo[len(msg.Photo)-1].FileID
	err := b.images.SetImage(ctx, models.ImageBinding{Key: key, Ref: ref, UpdatedBy: userID, UpdatedAt: time.Now()})
	if err != nil {
		b.log.Error("save image binding", zap.String("image_key", key), zap.Error(err))
		b.send(chatID, textApology)
		return
	}
	b.log.Info("image bound", zap.String("image_key", key), zap.Int64("user_id", userID))
	b.send(chatID, fmt.Sprintf("✅ Đã lưu ảnh cho %s.", key))
}

func isSetImageCommand(word string) bool {
	cmd, _, _ := strings.Cut(word, "@")
	return cmd == "/setimg"
}

func (b *Bot) imageKey(arg string) (string, bool) {
	key := strings.TrimSpace(arg)
	if key == "" {
		return "", false
	}
	c := b.engine.Composer()
	if c.KnownImageKey(key) {
		return key, true
	}
	if up := strings.ToUpper(key); c.KnownImageKey(up) {
		return up, true
	}
	return "", false
}

func formatTTL(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%d phút", int(d/time.Minute))
	}
	return d.String()
}
