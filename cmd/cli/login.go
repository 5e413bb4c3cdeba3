package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print an auth token",
	Long: `Log in with your email and password. On success the auth token is
printed to stdout; export it as GATHERLY_TOKEN for other commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginEmail == "" {
			return fmt.Errorf("--email is required")
		}

		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		payload := map[string]string{
			"email":    loginEmail,
			"password": string(password),
		}
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}

		resp, err := http.Post(apiURL+"/api/v1/auth/login", "application/json", bytes.NewReader(bodyBytes))
		if err != nil {
			return fmt.Errorf("failed to make request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var errResp map[string]interface{}
			json.Unmarshal(body, &errResp)
			if msg, ok := errResp["error"].(string); ok {
				return fmt.Errorf("login failed: %s", msg)
			}
			return fmt.Errorf("login failed: status %d", resp.StatusCode)
		}

		var result struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		if output == "json" {
			fmt.Println(string(body))
			return nil
		}

		fmt.Println(result.Token)
		fmt.Fprintln(os.Stderr, "Export it: export GATHERLY_TOKEN=<token>")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (required)")
}
