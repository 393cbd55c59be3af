package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/akwasiboateng/campus-market/internal/recon"
	"github.com/akwasiboateng/campus-market/pkg/logger"
)

var (
	syncResource string
	syncTimeout  time.Duration
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a reconciliation pass against Paystack",
	Long: `Fetch transactions and transfers from Paystack and reconcile them into
the local payments and payouts tables. Intended for cron or one-off runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync()
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncResource, "resource", recon.ResourceAll,
		"which ledger to sync: all, transactions or transfers")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 0,
		"override the configured run timeout (0 uses config)")
	rootCmd.AddCommand(syncCmd)
}

func runSync() error {
	config, err := loadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	log := logger.LoggerWrapper()

	if syncTimeout > 0 {
		config.Recon.RunTimeout = syncTimeout
	}

	db, err := initDB(config.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	orchestrator, _, err := buildReconciliation(config, db, log)
	if err != nil {
		return err
	}

	ctx := context.Background()

	switch syncResource {
	case recon.ResourceAll:
		report := orchestrator.SyncAll(ctx)
		printReport(report)
		if runErr := report.Err(); runErr != nil {
			log.Error("reconciliation run finished with stage failures",
				"run_id", report.RunID, "error", runErr)
			return fmt.Errorf("reconciliation run %s had stage failures", report.RunID)
		}
		log.Info("reconciliation run completed",
			"run_id", report.RunID, "duration", report.Duration.String())
		return nil
	case recon.ResourceTransactions:
		report, stageErr := orchestrator.SyncTransactions(ctx)
		printReport(report)
		return stageErr
	case recon.ResourceTransfers:
		report, stageErr := orchestrator.SyncTransfers(ctx)
		printReport(report)
		return stageErr
	default:
		return fmt.Errorf("unknown resource %q", syncResource)
	}
}

func printReport(report interface{}) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode report: %v\n", err)
		return
	}
	fmt.Fprintln(os.Stdout, string(out))
}
