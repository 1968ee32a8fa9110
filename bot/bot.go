package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"shop-telegram/config"
	"shop-telegram/models"
	"shop-telegram/nav"
	"shop-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	textApology = "⚠️ Có lỗi nhỏ xảy ra. Vui lòng thử lại."
	textHelp    = "📖 *Hướng dẫn*\n\n" +
		"/start hoặc /menu: mở menu chính\n" +
		"/pay: thông tin thanh toán\n" +
		"/help: xem hướng dẫn này\n\n" +
		"Chọn danh mục, chọn sản phẩm rồi bấm *MUA NGAY* để gửi đơn cho admin."
)

// API is the part of *tgbotapi.BotAPI the handlers use.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Deps are the collaborators the bot dispatches to. Ledger is nil when
// order codes are disabled.
type Deps struct {
	Engine  *nav.Engine
	Images  services.ImageStore
	Ledger  services.OrderLedger
	Admins  *services.AdminAuth
	Uploads *services.UploadSessions
	Log     *zap.Logger
}

type Bot struct {
	api     API
	tg      *tgbotapi.BotAPI // nil in tests; used for polling and webhook decoding
	cfg     *config.Config
	engine  *nav.Engine
	deliver *Deliverer
	images  services.ImageStore
	ledger  services.OrderLedger
	admins  *services.AdminAuth
	uploads *services.UploadSessions
	log     *zap.Logger

	updates chan tgbotapi.Update // webhook feed
}

func New(cfg *config.Config, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	b := newBot(api, cfg, deps)
	b.tg = api
	b.log.Info("authorized", zap.String("bot", api.Self.UserName))
	return b, nil
}

func newBot(api API, cfg *config.Config, deps Deps) *Bot {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:     api,
		cfg:     cfg,
		engine:  deps.Engine,
		deliver: NewDeliverer(api, deps.Images, cfg.Telegram.TextLimit, cfg.Telegram.CaptionLimit, log),
		images:  deps.Images,
		ledger:  deps.Ledger,
		admins:  deps.Admins,
		uploads: deps.Uploads,
		log:     log,
		updates: make(chan tgbotapi.Update, 64),
	}
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Menu chính"},
		tgbotapi.BotCommand{Command: "menu", Description: "Menu chính"},
		tgbotapi.BotCommand{Command: "pay", Description: "Thông tin thanh toán"},
		tgbotapi.BotCommand{Command: "help", Description: "Hướng dẫn"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Run receives updates until ctx is cancelled: from the webhook handler when
// WEBHOOK_URL is set, otherwise by long polling.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.setBotCommands(); err != nil {
		b.log.Warn("set bot commands", zap.Error(err))
	}
	if b.cfg.Telegram.WebhookURL != "" {
		return b.runWebhook(ctx)
	}
	return b.runPolling(ctx)
}

func (b *Bot) runPolling(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)
	b.log.Info("polling for updates")
	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) runWebhook(ctx context.Context) error {
	wh, err := tgbotapi.NewWebhook(WebhookURL(b.cfg.Telegram))
	if err != nil {
		return fmt.Errorf("webhook url: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	b.log.Info("webhook registered", zap.String("path", WebhookPath(b.cfg.Telegram)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case upd := <-b.updates:
			b.handleUpdate(ctx, upd)
		}
	}
}

// WebhookPath is the local route Telegram posts updates to.
func WebhookPath(t config.TelegramConfig) string {
	return "/webhook/" + t.WebhookSecret
}

// WebhookURL is the public address registered with Telegram.
func WebhookURL(t config.TelegramConfig) string {
	return strings.TrimRight(t.WebhookURL, "/") + WebhookPath(t)
}

// WebhookHandler decodes posted updates and queues them for Run.
func (b *Bot) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tg := b.tg
		if tg == nil {
			tg = &tgbotapi.BotAPI{}
		}
		upd, err := tg.HandleUpdate(r)
		if err != nil {
			b.log.Warn("bad webhook update", zap.Error(err))
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		select {
		case b.updates <- *upd:
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	chatID := updateChatID(upd)
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("handler panic", zap.Any("panic", r), zap.Int("update_id", upd.UpdateID))
			if chatID != 0 {
				b.send(chatID, textApology)
			}
		}
	}()

	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func updateChatID(upd tgbotapi.Update) int64 {
	switch {
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		return upd.CallbackQuery.Message.Chat.ID
	case upd.Message != nil && upd.Message.Chat != nil:
		return upd.Message.Chat.ID
	}
	return 0
}

func identityOf(u *tgbotapi.User) nav.Identity {
	if u == nil {
		return nav.Identity{}
	}
	return nav.Identity{UserID: u.ID, Username: u.UserName}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	id := identityOf(msg.From)

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}
	if !msg.IsCommand() {
		return
	}
	switch msg.Command() {
	case "start", "menu":
		b.show(ctx, chatID, b.engine.Start(id))
	case "pay":
		b.show(ctx, chatID, b.engine.Resolve(nav.Payment(), id))
	case "help":
		b.sendMarkdown(chatID, textHelp)
	case "login":
		b.handleLogin(msg)
	case "logout":
		b.handleLogout(msg)
	case "setimg":
		b.handleSetImage(msg)
	case "cancel":
		b.handleCancel(msg)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.Debug("answer callback", zap.Error(err))
	}
	if cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	id := identityOf(cq.From)

	tok := nav.ParseToken(cq.Data)
	if tok.Kind == nav.KindOrder && b.ledger != nil {
		b.createOrder(ctx, chatID, tok, id)
		return
	}
	b.show(ctx, chatID, b.engine.Resolve(tok, id))
}

// createOrder records a ledger row for the item and shows its code.
func (b *Bot) createOrder(ctx context.Context, chatID int64, tok nav.Token, id nav.Identity) {
	_, it, ok := b.engine.Composer().Catalog().Item(tok.ID)
	if !ok {
		b.show(ctx, chatID, b.engine.Resolve(tok, id))
		return
	}
	o, err := b.ledger.CreateOrder(ctx, models.CreateOrderInput{
		ChatID:   chatID,
		Username: id.Username,
		ItemID:   it.ID,
		Qty:      1,
		Amount:   it.Amount,
	})
	if err != nil {
		b.log.Error("create order", zap.String("item_id", it.ID), zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, textApology)
		return
	}
	b.log.Info("order created", zap.String("code", o.Code), zap.String("item_id", it.ID), zap.Int64("chat_id", chatID))
	b.show(ctx, chatID, b.engine.OrderCreated(it.ID, o.Code, id))
}

func (b *Bot) show(ctx context.Context, chatID int64, res nav.Result) {
	if err := b.deliver.Deliver(ctx, chatID, res.Screen); err != nil {
		b.log.Error("deliver screen",
			zap.String("screen", string(res.Screen.Kind)),
			zap.String("token", res.Token.String()),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.send(chatID, textApology)
	}
}

// send writes plain text; ids and keys with underscores stay intact.
func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
