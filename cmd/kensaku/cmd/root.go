package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagAddr   string
	flagAPIKey string
	flagUser   string
)

var rootCmd = &cobra.Command{
	Use:   "kensaku",
	Short: "Enterprise directory search client",
	Long:  "Query the kensaku API, load documents, and inspect indexes from the command line.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", envOr("KENSAKU_ADDR", "http://localhost:8080"), "API server address")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", os.Getenv("KENSAKU_API_KEY"), "API key for Bearer auth")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", os.Getenv("USER"), "username for history attribution")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(rankingsCmd)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
