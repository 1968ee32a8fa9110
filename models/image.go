package models

import "time"

// ImageBinding decorates a screen with a Telegram photo. Key follows the
// START / PAYMENT / CAT_<id> / ITEM_<id> convention; Ref is a Telegram file_id.
type ImageBinding struct {
	Key       string
	Ref       string
	UpdatedBy int64
	UpdatedAt time.Time
}
