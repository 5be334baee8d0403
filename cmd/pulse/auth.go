package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/studiopulse/pulse/internal/cli"
	"github.com/studiopulse/pulse/internal/config"
	"github.com/studiopulse/pulse/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets via OAuth2",
		Long: `Run the interactive OAuth2 flow for Google Sheets and cache the
resulting token. Requires sheets.client_id and sheets.client_secret in the
config file, or the GOOGLE_SHEETS_CLIENT_ID / GOOGLE_SHEETS_CLIENT_SECRET
environment variables.`,
		RunE: runAuthSheets,
	}
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")
	tokenFile := viper.GetString("sheets.token_file")
	if tokenFile == "" {
		tokenFile = "~/.config/pulse/sheets-token.json"
	}

	oauthConfig := sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    config.ExpandPath(tokenFile),
	}

	if oauthConfig.ClientID == "" {
		oauthConfig.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if oauthConfig.ClientSecret == "" {
		oauthConfig.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if oauthConfig.ClientID == "" || oauthConfig.ClientSecret == "" {
		return fmt.Errorf("missing OAuth2 credentials: set sheets.client_id and sheets.client_secret, or the GOOGLE_SHEETS_CLIENT_ID and GOOGLE_SHEETS_CLIENT_SECRET environment variables")
	}

	token, err := sheets.GetOrCreateToken(ctx, oauthConfig)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Google Sheets authentication complete"))
	if token.RefreshToken != "" {
		fmt.Println(cli.SubtleStyle.Render("Token cached at " + oauthConfig.TokenFile))
	}
	return nil
}
