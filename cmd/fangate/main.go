package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arkadyv/fangate/internal/api"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "fangate",
	Short: "Fangate - fan list campaigns for independent artists",
	Long:  `Fangate runs the backend for artist email campaigns: fan contact lists, the warm-up campaign engine, and deliverability monitoring.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fangate %s (built %s)\n", version, buildTime)
	},
}

func init() {
	api.Version = version

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
