package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"listmaker/pkg/logger"
	"listmaker/pkg/pipeline"
	"listmaker/pkg/progress"
	"listmaker/pkg/sheets"
	"listmaker/pkg/zillow"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one list-making run headlessly",
	Long: `Run the pipeline once without the server: fetch listings, filter,
enrich, and reconcile the Google Sheet. Progress goes to the logger
instead of a websocket channel.`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.GetLogger()

	ctx := context.Background()

	store, err := sheets.NewGoogleStore(ctx, &cfg.Sheets, log)
	if err != nil {
		return fmt.Errorf("failed to open sheet: %w", err)
	}

	client := zillow.NewClient(&cfg.Zillow, log)
	p := pipeline.New(cfg, client, store, progress.NewLogNotifier(log), log)

	summary, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"run_id":        summary.RunID,
		"fetched":       summary.Fetched,
		"after_filters": summary.AfterFilters,
		"new":           summary.NewRecords,
		"stale_removed": summary.StaleRemoved,
		"appended":      summary.Appended,
	}).Info("run summary")

	if summary.Pages.Partial() {
		log.WithField("skipped_pages", len(summary.Pages.Skipped)).Warn("pagination was partial")
	}
	if summary.Enriched.Partial() {
		log.WithField("skipped_listings", len(summary.Enriched.Skipped)).Warn("enrichment was partial")
	}

	return nil
}
