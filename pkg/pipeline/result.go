package pipeline

// Skip records one item a stage gave up on without failing the run
type Skip struct {
	// ID names the skipped item: a page number for pagination, a zpid
	// for enrichment.
	ID     string
	Reason string
}

// StageResult carries what a degrade-gracefully stage accomplished, so
// partial failure is visible to callers instead of only to the logs.
type StageResult struct {
	Succeeded int
	Skipped   []Skip
}

// Partial reports whether the stage skipped anything
func (r StageResult) Partial() bool {
	return len(r.Skipped) > 0
}

// Summary describes one finished pipeline run
type Summary struct {
	RunID string

	// Pages is the pagination stage outcome; a skip means the loop
	// stopped early on that page.
	Pages StageResult

	// Fetched is the raw listing count across all accumulated pages
	Fetched int

	// AfterFilters is what survived the zip and days-on-market filters
	AfterFilters int

	// NewRecords is the insert-candidate count (not already persisted)
	NewRecords int

	// Enriched is the per-record enrichment outcome
	Enriched StageResult

	// StaleRemoved is the number of rows in the delete set
	StaleRemoved int

	// Appended is the number of records in the bulk append
	Appended int
}
