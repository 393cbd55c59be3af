package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/akwasiboateng/campus-market/internal/transport/middleware"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a short-lived admin API token",
	Long: `Mint an HS256 bearer token for the administrative endpoints, signed with
the configured admin secret. Intended for operators and cron jobs.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.Security.TokenDuration
		}

		token, err := middleware.NewAdminToken(cfg.Security.AdminTokenSecret, ttl)
		if err != nil {
			log.Fatalf("failed to mint token: %v", err)
		}

		fmt.Println(token)
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (0 uses configured token_duration)")
	rootCmd.AddCommand(tokenCmd)
}
