package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shop-telegram/bot"
	"shop-telegram/catalog"
	"shop-telegram/config"
	"shop-telegram/db"
	"shop-telegram/logging"
	"shop-telegram/nav"
	"shop-telegram/services"
	"shop-telegram/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot and the ping/webhook HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	log.Info("catalog loaded",
		zap.String("path", cfg.CatalogPath),
		zap.Int("categories", len(cat.Categories())),
		zap.Int("items", cat.ItemCount()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer store.Close()

	if cfg.DB.AutoMigrate {
		err := store.Migrate(ctx, func(name string) {
			log.Info("migration applied", zap.String("file", name))
		})
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var ledger services.OrderLedger
	if cfg.OrderLedger {
		ledger = services.NewOrderLedger(store)
	}
	engine := nav.NewEngine(nav.NewComposer(cat, nav.Settings{
		ShopName:      cfg.Shop.Name,
		AdminHandle:   cfg.Shop.AdminUsername,
		BankName:      cfg.Shop.BankName,
		AccountName:   cfg.Shop.AccountName,
		AccountNumber: cfg.Shop.AccountNumber,
		Ordering:      ledger != nil,
	}), log.Named("nav"))

	b, err := bot.New(cfg, bot.Deps{
		Engine:  engine,
		Images:  services.NewImageStore(store),
		Ledger:  ledger,
		Admins:  services.NewAdminAuth(cfg.Admin.IDs, cfg.Admin.PasswordHash, cfg.Admin.SessionTTL),
		Uploads: services.NewUploadSessions(cfg.Admin.UploadTTL),
		Log:     log.Named("bot"),
	})
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	var hook http.Handler
	if cfg.Telegram.WebhookURL != "" {
		hook = b.WebhookHandler()
	}
	router := web.NewRouter(log.Named("web"), bot.WebhookPath(cfg.Telegram), hook)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(gctx)
	})
	g.Go(func() error {
		return web.Serve(gctx, fmt.Sprintf(":%d", cfg.HTTP.Port), router, log.Named("web"))
	})

	log.Info("bot started",
		zap.Int("port", cfg.HTTP.Port),
		zap.Bool("webhook", hook != nil),
		zap.Bool("order_ledger", ledger != nil),
		zap.String("db_driver", cfg.DB.Driver))
	if err := g.Wait(); err != nil {
		log.Error("stopped with error", zap.Error(err))
		return err
	}
	log.Info("bot stopped")
	return nil
}
