package nav

import (
	"fmt"
	"strings"

	"shop-telegram/catalog"
)

// Settings are the operator strings substituted into screens.
type Settings struct {
	ShopName      string
	AdminHandle   string
	BankName      string
	AccountName   string
	AccountNumber string
	// Ordering adds the BUY button to item screens (order ledger enabled).
	Ordering bool
}

const (
	labelPayment    = "💳 Thanh toán"
	labelAdmin      = "📩 Liên hệ Admin"
	labelBack       = "⏪ Quay lại"
	labelMainMenu   = "🏠 Menu chính"
	labelBuyNow     = "✅ MUA NGAY"
	labelCreateCode = "🧾 Tạo mã đơn"
	labelSendProof  = "📩 GỬI BILL CHO ADMIN"
	labelBuyMore    = "🛒 Mua thêm"
	labelPayInfo    = "💳 LẤY THÔNG TIN THANH TOÁN"
	labelSendTicket = "📩 NHẮN ADMIN"
)

// Composer turns tokens into screens. It only reads the catalog and its
// settings, so one Composer serves every request concurrently.
type Composer struct {
	cat *catalog.Catalog
	set Settings
}

func NewComposer(cat *catalog.Catalog, set Settings) *Composer {
	return &Composer{cat: cat, set: set}
}

// Catalog returns the catalog the composer reads from.
func (c *Composer) Catalog() *catalog.Catalog {
	return c.cat
}

// Compose renders the screen for tok. It never fails: unknown ids produce
// not-found screens and unknown tokens the restart screen.
func (c *Composer) Compose(tok Token, id Identity) Screen {
	switch tok.Kind {
	case KindMainMenu:
		return c.mainMenu()
	case KindCategory:
		return c.category(tok.ID)
	case KindCategoryForItem:
		owner, _, ok := c.cat.Item(tok.ID)
		if !ok {
			return c.categoryNotFound()
		}
		return c.category(owner.ID)
	case KindItem:
		return c.item(tok.ID, id)
	case KindOrder:
		// Without a ledger code an order request shows the item it was made from.
		return c.item(tok.ID, id)
	case KindPayment:
		return c.payment()
	default:
		return c.unrecognized()
	}
}

func (c *Composer) adminURL() string {
	return AdminURL(c.set.AdminHandle)
}

func (c *Composer) mainMenu() Screen {
	var b strings.Builder
	b.WriteString("👋 " + bold("Chào mừng bạn đến với "+c.set.ShopName) + "\n\n")
	b.WriteString("⚡ Hàng sẵn – giao nhanh – hỗ trợ tận tình\n")
	b.WriteString("🛡️ Uy tín – rõ ràng – xử lý nhanh gọn\n\n")
	fmt.Fprintf(&b, "📩 Admin: %s\n\n", md(c.set.AdminHandle))
	b.WriteString("👉 Vui lòng chọn dịch vụ bên dưới 👇")

	cats := c.cat.Categories()
	buttons := make([]Button, 0, len(cats)+2)
	for _, cat := range cats {
		buttons = append(buttons, callbackButton(cat.Title, Category(cat.ID)))
	}
	buttons = append(buttons,
		callbackButton(labelPayment, Payment()),
		linkButton(labelAdmin, c.adminURL()),
	)
	return Screen{Kind: ScreenMainMenu, Text: b.String(), Buttons: buttons, ImageKey: ImageKeyStart}
}

func (c *Composer) category(catID string) Screen {
	cat, ok := c.cat.Category(catID)
	if !ok {
		return c.categoryNotFound()
	}

	var b strings.Builder
	b.WriteString(bold(cat.Title))
	if cat.Description != "" {
		b.WriteString("\n\n" + md(cat.Description))
	}
	if cat.Warranty != "" {
		b.WriteString("\n\n" + md(cat.Warranty))
	}

	buttons := make([]Button, 0, len(cat.Items)+2)
	for _, it := range cat.Items {
		buttons = append(buttons, callbackButton(it.Name+" | "+it.Price, Item(it.ID)))
	}
	buttons = append(buttons,
		callbackButton(labelPayment, Payment()),
		callbackButton(labelBack, MainMenu()),
	)
	return Screen{Kind: ScreenCategory, Text: b.String(), Buttons: buttons, ImageKey: CategoryImageKey(cat)}
}

func (c *Composer) categoryNotFound() Screen {
	return Screen{
		Kind:    ScreenCategoryNotFound,
		Text:    "❌ Danh mục không tồn tại.",
		Buttons: []Button{callbackButton(labelBack, MainMenu())},
	}
}

func (c *Composer) item(itemID string, id Identity) Screen {
	_, it, ok := c.cat.Item(itemID)
	if !ok {
		return Screen{Kind: ScreenItemNotFound, Text: "❌ Sản phẩm không tồn tại."}
	}

	var b strings.Builder
	b.WriteString("✅ " + bold(it.Name) + "\n\n")
	fmt.Fprintf(&b, "💰 *Giá:* %s", md(it.Price))
	if it.Detail != "" {
		b.WriteString("\n\n" + md(it.Detail))
	}
	if it.Hint != "" {
		fmt.Fprintf(&b, "\n\n📝 *Khi nhắn admin vui lòng ghi:* %s", md(it.Hint))
	}
	b.WriteString("\n\n👉 Nhấn *MUA NGAY* để gửi mẫu đơn cho admin 👇")

	ticket := RenderPurchaseIntent(it, id)
	buttons := []Button{linkButton(labelBuyNow, PurchaseLink(c.set.AdminHandle, ticket))}
	if c.set.Ordering {
		buttons = append(buttons, callbackButton(labelCreateCode, Order(it.ID)))
	}
	buttons = append(buttons,
		callbackButton(labelPayment, Payment()),
		linkButton(labelAdmin, c.adminURL()),
		callbackButton(labelBack, CategoryForItem(it.ID)),
	)
	return Screen{Kind: ScreenItem, Text: b.String(), Buttons: buttons, ImageKey: ItemImageKey(it)}
}

func (c *Composer) payment() Screen {
	var b strings.Builder
	b.WriteString("💳 " + bold("THÔNG TIN THANH TOÁN – "+c.set.ShopName) + "\n\n")
	fmt.Fprintf(&b, "🏦 *Ngân hàng:* %s\n", md(c.set.BankName))
	fmt.Fprintf(&b, "👤 *Chủ tài khoản:* %s\n", md(c.set.AccountName))
	fmt.Fprintf(&b, "🔢 *Số tài khoản:* %s\n\n", code(c.set.AccountNumber))
	b.WriteString("📌 Sau khi chuyển khoản, vui lòng *chụp bill* và gửi admin kèm mẫu đơn hàng.")

	return Screen{
		Kind: ScreenPayment,
		Text: b.String(),
		Buttons: []Button{
			linkButton(labelSendProof, c.adminURL()),
			callbackButton(labelBack, MainMenu()),
		},
		ImageKey: ImageKeyPayment,
	}
}

func (c *Composer) unrecognized() Screen {
	return Screen{
		Kind:    ScreenUnrecognized,
		Text:    "❓ Không hiểu thao tác. Gõ /start để bắt đầu lại.",
		Buttons: []Button{callbackButton(labelMainMenu, MainMenu())},
	}
}

// OrderCreated renders the confirmation for a ledger entry with the given
// code. The code doubles as the bank-transfer reference. An unknown item
// yields the item-not-found screen.
func (c *Composer) OrderCreated(itemID, orderCode string, id Identity) Screen {
	_, it, ok := c.cat.Item(itemID)
	if !ok {
		return Screen{Kind: ScreenItemNotFound, Text: "❌ Sản phẩm không tồn tại."}
	}
	ticket := RenderPurchaseIntent(it, id)

	var b strings.Builder
	b.WriteString("✅ *TẠO ĐƠN THÀNH CÔNG*\n\n")
	fmt.Fprintf(&b, "🧾 *Mã đơn:* %s\n", code(orderCode))
	fmt.Fprintf(&b, "📦 *Sản phẩm:* %s\n", md(it.Name))
	fmt.Fprintf(&b, "💰 *Giá:* %s\n\n", md(it.Price))
	fmt.Fprintf(&b, "🏦 *NỘI DUNG CHUYỂN KHOẢN:* %s\n", code(orderCode))
	b.WriteString("📌 Sau khi chuyển khoản, vui lòng *chụp bill* và gửi admin kèm nội dung:\n")
	b.WriteString(code(TransferNote(orderCode, it)) + "\n\n")
	b.WriteString("👉 Bước tiếp theo: Nhắn admin để được xử lý nhanh ⚡\n\n")
	b.WriteString("*📋 MẪU NHẮN ADMIN (COPY):*\n")
	b.WriteString(code(ticket))

	return Screen{
		Kind: ScreenOrderCreated,
		Text: b.String(),
		Buttons: []Button{
			linkButton(labelSendTicket, PurchaseLink(c.set.AdminHandle, ticket)),
			callbackButton(labelPayInfo, Payment()),
			callbackButton(labelBuyMore, CategoryForItem(it.ID)),
			callbackButton(labelBack, MainMenu()),
		},
	}
}

// TransferNote is the line a buyer sends with the transfer proof:
// "ĐÃ CK <code> | <amount>". Items without a fixed amount show their price.
func TransferNote(orderCode string, it *catalog.Item) string {
	amount := it.Price
	if !it.Amount.IsZero() {
		amount = FormatVND(it.Amount)
	}
	return "ĐÃ CK " + orderCode + " | " + amount
}

// CategoryImageKey is the binding key for a category screen.
func CategoryImageKey(cat *catalog.Category) string {
	return cat.ImageKey()
}

// ItemImageKey is the binding key for an item screen.
func ItemImageKey(it *catalog.Item) string {
	return it.ImageKey()
}

// KnownImageKey reports whether key is one a screen will ever look up.
func (c *Composer) KnownImageKey(key string) bool {
	switch key {
	case ImageKeyStart, ImageKeyPayment:
		return true
	}
	for _, cat := range c.cat.Categories() {
		if CategoryImageKey(cat) == key {
			return true
		}
		for _, it := range cat.Items {
			if ItemImageKey(it) == key {
				return true
			}
		}
	}
	return false
}
