package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    string = "http://localhost:8080"
	output    string = "text" // "text" or "json"
)

var rootCmd = &cobra.Command{
	Use:   "gatherly",
	Short: "Gatherly CLI - Inspect your community activity feed",
	Long: `Gatherly CLI provides command-line access to your Gatherly account.
Preview your activity feed, browse community activity, and log in.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if authToken == "" {
			authToken = os.Getenv("GATHERLY_TOKEN")
		}
		if authToken == "" && cmd.Name() != "help" && cmd.Name() != "login" && cmd.Parent() != nil {
			fmt.Fprintf(os.Stderr, "Error: GATHERLY_TOKEN environment variable not set\n")
			fmt.Fprintf(os.Stderr, "Log in first: gatherly login --email you@example.com\n")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Authentication token (defaults to GATHERLY_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(feedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
