package nav

import (
	"go.uber.org/zap"
)

// Result is the outcome of one navigation step.
type Result struct {
	Token  Token
	Screen Screen
	// Back reverses the transition; zero for the main menu and for dead ends.
	Back Token
}

// Engine resolves inbound actions to screens. It keeps no per-user state:
// the same token always yields the same result.
type Engine struct {
	composer *Composer
	log      *zap.Logger
}

func NewEngine(c *Composer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{composer: c, log: log}
}

func (e *Engine) Composer() *Composer {
	return e.composer
}

// Start is the implicit state before any token: the main menu.
func (e *Engine) Start(id Identity) Result {
	return e.Resolve(MainMenu(), id)
}

// Handle parses callback data and resolves it.
func (e *Engine) Handle(data string, id Identity) Result {
	return e.Resolve(ParseToken(data), id)
}

// Resolve composes the screen for tok and attaches the back link.
func (e *Engine) Resolve(tok Token, id Identity) Result {
	s := e.composer.Compose(tok, id)
	return e.finish(tok, s, id)
}

// OrderCreated resolves an order confirmation once the caller has recorded
// the order and obtained its code.
func (e *Engine) OrderCreated(itemID, code string, id Identity) Result {
	tok := Order(itemID)
	return e.finish(tok, e.composer.OrderCreated(itemID, code, id), id)
}

func (e *Engine) finish(tok Token, s Screen, id Identity) Result {
	switch {
	case s.Kind.NotFound():
		e.log.Warn("catalog miss",
			zap.String("token", tok.String()),
			zap.String("screen", string(s.Kind)),
			zap.Int64("user_id", id.UserID))
	case s.Kind == ScreenUnrecognized:
		e.log.Warn("unrecognized action",
			zap.String("data", tok.Raw),
			zap.Int64("user_id", id.UserID))
	}
	if len(s.Buttons) == 0 {
		s.Buttons = []Button{callbackButton(labelMainMenu, MainMenu())}
	}
	return Result{Token: tok, Screen: s, Back: backFor(tok, s.Kind)}
}

func backFor(tok Token, k ScreenKind) Token {
	switch k {
	case ScreenCategory, ScreenPayment:
		return MainMenu()
	case ScreenItem, ScreenOrderCreated:
		return CategoryForItem(tok.ID)
	default:
		return Token{}
	}
}
