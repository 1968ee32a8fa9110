package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shopbot",
	Short: "Telegram storefront bot",
	Long: `shopbot runs a menu-driven Telegram storefront: catalog browsing,
purchase tickets for the admin and payment details.

With no subcommand it runs "serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(adminPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
