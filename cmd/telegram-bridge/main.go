package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "telegram-bridge",
		Short: "Telegram bridge for the messaging core",
		Long:  "Connects Telegram bot accounts to the messaging core, translating between native updates and canonical envelopes.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Connect to the core and serve Telegram interfaces",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
