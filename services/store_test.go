package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shop-telegram/config"
	"shop-telegram/db"
	"shop-telegram/models"

	"github.com/shopspring/decimal"
)

func openSQLite(t *testing.T) *db.DB {
	t.Helper()
	ctx := context.Background()
	d, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "shop.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(d.Close)
	if err := d.Migrate(ctx, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

// openPostgres connects to TEST_DATABASE_URL; integration tests skip without it.
func openPostgres(t *testing.T) *db.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("skipping postgres integration test: TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	d, err := db.Open(ctx, config.DBConfig{Driver: config.DriverPostgres, URL: dsn})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(d.Close)
	if err := d.Migrate(ctx, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func testImageStore(t *testing.T, s ImageStore) {
	ctx := context.Background()
	key := fmt.Sprintf("ITEM_TEST_%d", time.Now().UnixNano())

	if _, ok, err := s.GetImage(ctx, key); err != nil || ok {
		t.Fatalf("GetImage on empty store = ok %v, err %v", ok, err)
	}
	if err := s.SetImage(ctx, models.ImageBinding{Key: key, Ref: "file-1", UpdatedBy: 42}); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	// Overwrite.
	if err := s.SetImage(ctx, models.ImageBinding{Key: key, Ref: "file-2", UpdatedBy: 42}); err != nil {
		t.Fatalf("SetImage overwrite: %v", err)
	}
	ref, ok, err := s.GetImage(ctx, key)
	if err != nil || !ok || ref != "file-2" {
		t.Fatalf("GetImage = %q, %v, %v; want file-2", ref, ok, err)
	}
}

func TestMemoryImages(t *testing.T) {
	testImageStore(t, NewMemoryImages())
}

func TestSQLiteImages(t *testing.T) {
	testImageStore(t, NewImageStore(openSQLite(t)))
}

func TestPostgresImages(t *testing.T) {
	testImageStore(t, NewImageStore(openPostgres(t)))
}

func testLedger(t *testing.T, l OrderLedger) models.Order {
	ctx := context.Background()
	o, err := l.CreateOrder(ctx, models.CreateOrderInput{
		ChatID:   100,
		Username: "buyer",
		ItemID:   "TELE_BASIC",
		Amount:   decimal.NewFromInt(25000),
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !strings.HasPrefix(o.Code, "DH") || len(o.Code) != 12 {
		t.Errorf("code = %q, want DH + 10 hex digits", o.Code)
	}
	if o.Qty != 1 || o.Status != models.OrderStatusCreated {
		t.Errorf("order = %+v, want qty 1 and status CREATED", o)
	}
	if _, err := l.CreateOrder(ctx, models.CreateOrderInput{ChatID: 100}); err == nil {
		t.Error("missing item id should fail")
	}
	return o
}

func TestMemoryLedger(t *testing.T) {
	l := NewMemoryLedger()
	o := testLedger(t, l)
	got := l.Orders()
	if len(got) != 1 || got[0].Code != o.Code {
		t.Errorf("Orders() = %+v", got)
	}
}

func TestSQLiteLedger(t *testing.T) {
	d := openSQLite(t)
	o := testLedger(t, NewOrderLedger(d))

	var code, amount, status string
	var qty int
	err := d.SQL.QueryRowContext(context.Background(),
		`SELECT code, qty, amount, status FROM orders WHERE id = ?`, o.ID,
	).Scan(&code, &qty, &amount, &status)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if code != o.Code || qty != 1 || amount != "25000" || status != "CREATED" {
		t.Errorf("row = %s %d %s %s", code, qty, amount, status)
	}
}

func TestPostgresLedger(t *testing.T) {
	testLedger(t, NewOrderLedger(openPostgres(t)))
}

func TestCreateWithRetry(t *testing.T) {
	calls := 0
	dup := func(err error) bool { return err != nil && err.Error() == "dup" }
	insert := func(models.Order) error {
		calls++
		if calls < 3 {
			return errString("dup")
		}
		return nil
	}
	if _, err := createWithRetry(models.CreateOrderInput{ItemID: "X"}, insert, dup); err != nil {
		t.Fatalf("expected success on third attempt: %v", err)
	}

	calls = 0
	always := func(models.Order) error { calls++; return errString("dup") }
	if _, err := createWithRetry(models.CreateOrderInput{ItemID: "X"}, always, dup); err == nil {
		t.Fatal("expected failure after retries")
	}
	if calls != orderCodeAttempts {
		t.Errorf("attempts = %d, want %d", calls, orderCodeAttempts)
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestNewOrderCode_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		_, code := NewOrderCode()
		if seen[code] {
			t.Fatalf("duplicate code %s", code)
		}
		seen[code] = true
	}
}
