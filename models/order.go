package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusCreated is the only status the bot writes; admins settle orders by hand.
const OrderStatusCreated = "CREATED"

type CreateOrderInput struct {
	ChatID   int64
	Username string
	ItemID   string
	Qty      int
	Amount   decimal.Decimal
}

// Order is a row from the orders ledger. The bot only appends these.
type Order struct {
	ID        string
	Code      string
	ChatID    int64
	Username  string
	ItemID    string
	Qty       int
	Amount    decimal.Decimal
	Status    string
	CreatedAt time.Time
}
