package nav

import "shop-telegram/catalog"

// ScreenKind identifies which composition produced a Screen.
type ScreenKind string

const (
	ScreenMainMenu         ScreenKind = "main_menu"
	ScreenCategory         ScreenKind = "category"
	ScreenItem             ScreenKind = "item"
	ScreenPayment          ScreenKind = "payment"
	ScreenOrderCreated     ScreenKind = "order_created"
	ScreenCategoryNotFound ScreenKind = "category_not_found"
	ScreenItemNotFound     ScreenKind = "item_not_found"
	ScreenUnrecognized     ScreenKind = "unrecognized"
)

// NotFound reports whether the screen is a recovered catalog miss.
func (k ScreenKind) NotFound() bool {
	return k == ScreenCategoryNotFound || k == ScreenItemNotFound
}

// Image binding keys for the fixed screens.
const (
	ImageKeyStart   = catalog.ImageKeyStart
	ImageKeyPayment = catalog.ImageKeyPayment
)

// Action is what a button does: exactly one of Token or URL is set.
type Action struct {
	Token Token
	URL   string
}

type Button struct {
	Label  string
	Action Action
}

func callbackButton(label string, t Token) Button {
	return Button{Label: label, Action: Action{Token: t}}
}

func linkButton(label, url string) Button {
	return Button{Label: label, Action: Action{URL: url}}
}

// Screen is one composed message: Markdown text, buttons in display order, and
// the image-binding key the delivery layer should look up (empty = never an image).
type Screen struct {
	Kind     ScreenKind
	Text     string
	Buttons  []Button
	ImageKey string
}
