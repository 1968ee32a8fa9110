package nav

import "strings"

// Kind is the screen transition a Token requests.
type Kind int

const (
	KindUnknown Kind = iota
	KindMainMenu
	KindCategory
	KindItem
	KindPayment
	KindCategoryForItem
	KindOrder
)

// Callback data grammar.
const (
	dataMainMenu        = "BACK_MAIN"
	dataPayment         = "PAY"
	prefixCategory      = "CAT|"
	prefixItem          = "ITEM|"
	prefixCategoryForIt = "BACKCAT|"
	prefixOrder         = "BUY|"
)

// Token is a parsed navigation action. ID is set for the prefixed kinds;
// Raw keeps the original data of an unrecognized action for logging.
type Token struct {
	Kind Kind
	ID   string
	Raw  string
}

func MainMenu() Token { return Token{Kind: KindMainMenu} }
func Payment() Token { return Token{Kind: KindPayment} }
func Category(id string) Token { return Token{Kind: KindCategory, ID: id} }
func Item(id string) Token { return Token{Kind: KindItem, ID: id} }
func CategoryForItem(id string) Token { return Token{Kind: KindCategoryForItem, ID: id} }
func Order(id string) Token { return Token{Kind: KindOrder, ID: id} }

// ParseToken maps callback data onto a Token. Anything outside the grammar,
// including a known prefix with an empty id, becomes KindUnknown.
func ParseToken(data string) Token {
	switch data {
	case dataMainMenu:
		return MainMenu()
	case dataPayment:
		return Payment()
	}
	prefixes := []struct {
		prefix string
		kind   Kind
	}{
		{prefixCategory, KindCategory},
		{prefixItem, KindItem},
		{prefixCategoryForIt, KindCategoryForItem},
		{prefixOrder, KindOrder},
	}
	for _, p := range prefixes {
		if id, ok := strings.CutPrefix(data, p.prefix); ok && id != "" {
			return Token{Kind: p.kind, ID: id}
		}
	}
	return Token{Kind: KindUnknown, Raw: data}
}

// String renders the token as callback data; ParseToken(t.String()) == t for known kinds.
func (t Token) String() string {
	switch t.Kind {
	case KindMainMenu:
		return dataMainMenu
	case KindPayment:
		return dataPayment
	case KindCategory:
		return prefixCategory + t.ID
	case KindItem:
		return prefixItem + t.ID
	case KindCategoryForItem:
		return prefixCategoryForIt + t.ID
	case KindOrder:
		return prefixOrder + t.ID
	default:
		return t.Raw
	}
}

// IsZero reports whether t is the zero Token (used for "no back link").
func (t Token) IsZero() bool {
	return t == Token{}
}
