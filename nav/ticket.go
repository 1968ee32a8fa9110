package nav

import (
	"fmt"
	"net/url"
	"strings"

	"shop-telegram/catalog"
)

// placeholderHandle tells the admin the buyer has no public handle and must give one.
const placeholderHandle = "@username"

// Identity is the requester as seen by the core.
type Identity struct {
	UserID   int64
	Username string // public handle without '@', may be empty
}

// Handle returns "@handle", or the "@username" placeholder when there is none.
func (id Identity) Handle() string {
	h := strings.TrimPrefix(strings.TrimSpace(id.Username), "@")
	if h == "" {
		return placeholderHandle
	}
	return "@" + h
}

// RenderPurchaseIntent builds the order ticket the buyer sends to the admin.
// Quantity is always 1; the hint is copied verbatim as a reminder.
func RenderPurchaseIntent(it *catalog.Item, id Identity) string {
	return fmt.Sprintf("MUA | %s | %s | SL: 1 | %s | Yêu cầu: %s | User: %s",
		it.Group, it.Name, it.Price, it.Hint, id.Handle())
}

// AdminURL is the t.me link for an admin handle given with or without '@'.
func AdminURL(handle string) string {
	return "https://t.me/" + strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// PurchaseLink opens a chat with the admin with ticket pre-filled in the compose box.
func PurchaseLink(adminHandle, ticket string) string {
	return AdminURL(adminHandle) + "?text=" + encodeText(ticket)
}

// encodeText percent-encodes s entirely, with spaces as %20 rather than '+'.
func encodeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
