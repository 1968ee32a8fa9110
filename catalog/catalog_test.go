package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc() Document {
	return Document{
		Version: 1,
		Categories: []CategoryDef{
			{ID: "B", Title: "Second letter"},
			{ID: "A", Title: "First letter", Warranty: "30 days"},
		},
		Items: []ItemDef{
			{ID: "B2", Category: "B", Name: "b two", Price: "2"},
			{ID: "A1", Category: "A", Name: "a one", Price: "1", Amount: "1000", Group: "GRP"},
			{ID: "B1", Category: "B", Name: "b one", Price: "see detail"},
		},
	}
}

func TestNew_IndexesAndOrder(t *testing.T) {
	c, err := New(testDoc())
	require.NoError(t, err)

	cats := c.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "B", cats[0].ID, "declared order is kept, not sorted")
	assert.Equal(t, "A", cats[1].ID)

	b, ok := c.Category("B")
	require.True(t, ok)
	require.Len(t, b.Items, 2)
	assert.Equal(t, "B2", b.Items[0].ID)
	assert.Equal(t, "B1", b.Items[1].ID)

	owner, it, ok := c.Item("A1")
	require.True(t, ok)
	assert.Equal(t, "A", owner.ID)
	assert.Equal(t, "GRP", it.Group)
	assert.Equal(t, "1000", it.Amount.String())

	_, it, _ = c.Item("B1")
	assert.Equal(t, "B", it.Group, "group defaults to the category id")
	assert.True(t, it.Amount.IsZero())

	_, ok = c.Category("a")
	assert.False(t, ok, "ids are case-sensitive")
	_, _, ok = c.Item("NOPE")
	assert.False(t, ok)
	assert.Equal(t, 3, c.ItemCount())
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Document)
		want   string
	}{
		{"version", func(d *Document) { d.Version = 2 }, "version"},
		{"no categories", func(d *Document) { d.Categories = nil }, "no categories"},
		{"dangling category", func(d *Document) { d.Items[0].Category = "Z" }, "unknown category"},
		{"duplicate item", func(d *Document) { d.Items[2].ID = "B2" }, "duplicate item"},
		{"duplicate category", func(d *Document) { d.Categories[1].ID = "B" }, "duplicate category"},
		{"empty price", func(d *Document) { d.Items[1].Price = "  " }, "price"},
		{"empty name", func(d *Document) { d.Items[1].Name = "" }, "name"},
		{"empty title", func(d *Document) { d.Categories[0].Title = "" }, "title"},
		{"pipe in id", func(d *Document) { d.Items[0].ID = "B|2" }, "'|'"},
		{"long id", func(d *Document) { d.Items[0].ID = strings.Repeat("X", 57) }, "too long"},
		{"bad amount", func(d *Document) { d.Items[1].Amount = "12k" }, "amount"},
		{"shared image override", func(d *Document) {
			d.Items[0].Image = "PROMO"
			d.Items[2].Image = "PROMO"
		}, `image key "PROMO" already used by item "B2"`},
		{"override across category and item", func(d *Document) {
			d.Categories[0].Image = "BANNER"
			d.Items[1].Image = "BANNER"
		}, "already used by category"},
		{"override shadows default key", func(d *Document) { d.Items[0].Image = "CAT_A" }, "already used"},
		{"override takes START", func(d *Document) { d.Categories[1].Image = "START" }, "main menu"},
		{"override takes PAYMENT", func(d *Document) { d.Items[1].Image = "PAYMENT" }, "payment screen"},
		{"whitespace in image", func(d *Document) { d.Items[1].Image = "MY KEY" }, "whitespace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDoc()
			tt.mutate(&d)
			_, err := New(d)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNew_ImageKeys(t *testing.T) {
	d := testDoc()
	d.Categories[1].Image = "BANNER_A"
	c, err := New(d)
	require.NoError(t, err)

	cat, _ := c.Category("A")
	assert.Equal(t, "BANNER_A", cat.ImageKey())
	cat, _ = c.Category("B")
	assert.Equal(t, "CAT_B", cat.ImageKey())
	_, it, _ := c.Item("B1")
	assert.Equal(t, "ITEM_B1", it.ImageKey())
}

func TestLoad_Default(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Categories())

	_, it, ok := c.Item("TELE_BASIC")
	require.True(t, ok)
	assert.Equal(t, "TELE", it.Group)
	assert.Equal(t, "Basic Account", it.Name)
	assert.Equal(t, "25.000đ", it.Price)

	assert.NotPanics(t, func() { MustDefault() })
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	doc := `version: 1
categories:
  - id: VPN
    title: VPN
items:
  - id: VPN_1M
    category: VPN
    name: VPN 1 month
    price: "50.000đ"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	cat, ok := c.Category("VPN")
	require.True(t, ok)
	require.Len(t, cat.Items, 1)
	assert.Equal(t, "VPN_1M", cat.Items[0].ID)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("version: 1\ncategories:\n  - id: A\n    title: A\n    colour: red\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
