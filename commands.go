package main

import (
	"fmt"

	"shop-telegram/catalog"
	"shop-telegram/config"
	"shop-telegram/db"
	"shop-telegram/services"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		ctx := cmd.Context()
		store, err := db.Open(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		defer store.Close()

		err = store.Migrate(ctx, func(name string) {
			fmt.Fprintln(cmd.OutOrStdout(), "applied", name)
		})
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations OK")
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog tools",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate a catalog file (the embedded default when no path is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogCheck,
}

func runCatalogCheck(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else if cfg, err := config.Load(); err == nil {
		path = cfg.CatalogPath
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}
	name := path
	if name == "" {
		name = "embedded default"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %s (%d categories, %d items)\n",
		name, len(cat.Categories()), cat.ItemCount())
	return nil
}

var passwordLength int

var adminPasswordCmd = &cobra.Command{
	Use:   "admin-password",
	Short: "Generate an admin password and its ADMIN_PASSWORD_HASH",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pw, err := services.GenerateSecurePassword(passwordLength)
		if err != nil {
			return err
		}
		hash, err := services.HashPassword(pw)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "password:", pw)
		fmt.Fprintln(out, "ADMIN_PASSWORD_HASH="+hash)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogCheckCmd)
	adminPasswordCmd.Flags().IntVarP(&passwordLength, "length", "n", 16, "password length (minimum 12)")
}
