// Package catalog holds the operator-authored shop catalog: an ordered list of
// categories, each owning an ordered list of items. A Catalog is built once at
// startup, validated, and never mutated afterwards, so it is safe for
// concurrent readers.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalid wraps every referential or content error found while building a catalog.
var ErrInvalid = errors.New("invalid catalog")

// maxCallbackData is Telegram's callback_data limit in bytes.
const maxCallbackData = 64

// longestPrefix is the longest callback prefix an id is embedded in ("BACKCAT|").
const longestPrefix = len("BACKCAT|")

// Image binding keys. Category and item screens default to the prefix plus
// their id; the Image field overrides that.
const (
	ImageKeyStart   = "START"
	ImageKeyPayment = "PAYMENT"
	imagePrefixCat  = "CAT_"
	imagePrefixItem = "ITEM_"
)

type Category struct {
	ID          string
	Title       string
	Description string
	Warranty    string
	Image       string // image-key override; empty = CAT_<ID>
	Items       []*Item
}

type Item struct {
	ID         string
	CategoryID string
	Name       string
	Price      string // display string: ranges, "see detail" and fixed amounts are all valid
	Detail     string
	Group      string // label used by the order ticket
	Hint       string
	Image      string // image-key override; empty = ITEM_<ID>
	Amount     decimal.Decimal
}

// Catalog is the read-only store. Returned pointers must not be modified.
type Catalog struct {
	categories []*Category
	byCategory map[string]*Category
	byItem     map[string]*Item
}

// New validates doc and builds the lookup indexes.
func New(doc Document) (*Catalog, error) {
	if doc.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported version %d (want %d)", ErrInvalid, doc.Version, SchemaVersion)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalid)
	}

	c := &Catalog{
		byCategory: make(map[string]*Category, len(doc.Categories)),
		byItem:     make(map[string]*Item, len(doc.Items)),
	}
	// image key -> screen that owns it
	keys := map[string]string{
		ImageKeyStart:   "the main menu",
		ImageKeyPayment: "the payment screen",
	}
	claim := func(key, owner string) error {
		if prev, taken := keys[key]; taken {
			return fmt.Errorf("%w: %s: image key %q already used by %s", ErrInvalid, owner, key, prev)
		}
		keys[key] = owner
		return nil
	}
	for i, cd := range doc.Categories {
		if err := checkID(cd.ID); err != nil {
			return nil, fmt.Errorf("%w: category #%d: %v", ErrInvalid, i+1, err)
		}
		if _, dup := c.byCategory[cd.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category id %q", ErrInvalid, cd.ID)
		}
		if strings.TrimSpace(cd.Title) == "" {
			return nil, fmt.Errorf("%w: category %q: title is required", ErrInvalid, cd.ID)
		}
		if err := checkImage(cd.Image); err != nil {
			return nil, fmt.Errorf("%w: category %q: %v", ErrInvalid, cd.ID, err)
		}
		cat := &Category{
			ID:          cd.ID,
			Title:       cd.Title,
			Description: strings.TrimSpace(cd.Description),
			Warranty:    strings.TrimSpace(cd.Warranty),
			Image:       cd.Image,
		}
		if err := claim(cat.ImageKey(), "category "+strconv.Quote(cat.ID)); err != nil {
			return nil, err
		}
		c.categories = append(c.categories, cat)
		c.byCategory[cat.ID] = cat
	}

	for i, id := range doc.Items {
		if err := checkID(id.ID); err != nil {
			return nil, fmt.Errorf("%w: item #%d: %v", ErrInvalid, i+1, err)
		}
		if _, dup := c.byItem[id.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item id %q", ErrInvalid, id.ID)
		}
		cat, ok := c.byCategory[id.Category]
		if !ok {
			return nil, fmt.Errorf("%w: item %q references unknown category %q", ErrInvalid, id.ID, id.Category)
		}
		if strings.TrimSpace(id.Name) == "" {
			return nil, fmt.Errorf("%w: item %q: name is required", ErrInvalid, id.ID)
		}
		if strings.TrimSpace(id.Price) == "" {
			return nil, fmt.Errorf("%w: item %q: price is required", ErrInvalid, id.ID)
		}
		amount := decimal.Zero
		if id.Amount != "" {
			var err error
			amount, err = decimal.NewFromString(id.Amount)
			if err != nil {
				return nil, fmt.Errorf("%w: item %q: amount: %v", ErrInvalid, id.ID, err)
			}
		}
		if err := checkImage(id.Image); err != nil {
			return nil, fmt.Errorf("%w: item %q: %v", ErrInvalid, id.ID, err)
		}
		group := id.Group
		if group == "" {
			group = cat.ID
		}
		it := &Item{
			ID:         id.ID,
			CategoryID: cat.ID,
			Name:       id.Name,
			Price:      id.Price,
			Detail:     strings.TrimSpace(id.Detail),
			Group:      group,
			Hint:       id.Hint,
			Image:      id.Image,
			Amount:     amount,
		}
		if err := claim(it.ImageKey(), "item "+strconv.Quote(it.ID)); err != nil {
			return nil, err
		}
		cat.Items = append(cat.Items, it)
		c.byItem[it.ID] = it
	}
	return c, nil
}

func checkID(id string) error {
	switch {
	case id == "":
		return errors.New("id is required")
	case strings.ContainsAny(id, "| \t\r\n"):
		return fmt.Errorf("id %q contains '|' or whitespace", id)
	case longestPrefix+len(id) > maxCallbackData:
		return fmt.Errorf("id %q too long for callback data", id)
	}
	return nil
}

// checkImage validates an image override; empty means none.
func checkImage(key string) error {
	if key != "" && strings.ContainsAny(key, " \t\r\n") {
		return fmt.Errorf("image key %q contains whitespace", key)
	}
	return nil
}

// ImageKey is the binding key for the category screen.
func (cat *Category) ImageKey() string {
	if cat.Image != "" {
		return cat.Image
	}
	return imagePrefixCat + cat.ID
}

// ImageKey is the binding key for the item screen.
func (it *Item) ImageKey() string {
	if it.Image != "" {
		return it.Image
	}
	return imagePrefixItem + it.ID
}

func (c *Catalog) Category(id string) (*Category, bool) {
	cat, ok := c.byCategory[id]
	return cat, ok
}

// Item returns the item and its owning category.
func (c *Catalog) Item(id string) (*Category, *Item, bool) {
	it, ok := c.byItem[id]
	if !ok {
		return nil, nil, false
	}
	return c.byCategory[it.CategoryID], it, true
}

// Categories returns categories in declared order.
func (c *Catalog) Categories() []*Category {
	return c.categories
}

// ItemCount is the number of items across all categories.
func (c *Catalog) ItemCount() int {
	return len(c.byItem)
}
