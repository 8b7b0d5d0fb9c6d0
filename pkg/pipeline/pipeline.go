// Package pipeline drives one list-making run end to end: paginate the
// listings API, filter and reshape the results, enrich them record by
// record, and reconcile the outcome against the spreadsheet.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"listmaker/pkg/config"
	"listmaker/pkg/listing"
	"listmaker/pkg/logger"
	"listmaker/pkg/progress"
	"listmaker/pkg/ratelimit"
	"listmaker/pkg/sheets"
	"listmaker/pkg/zillow"
)

// ListingClient defines the scraping API operations the pipeline needs
type ListingClient interface {
	GetListings(ctx context.Context, searchURL string, page int) (*zillow.Page, error)
	GetProperty(ctx context.Context, zpid string) (*zillow.AttributionInfo, error)
}

// Pipeline orchestrates a single run. One Pipeline drives one run at a
// time; concurrent runs against the same sheet are not coordinated here.
type Pipeline struct {
	client   ListingClient
	store    sheets.Store
	notifier progress.Notifier
	cfg      *config.Config
	log      logger.Logger

	listingsLimiter ratelimit.Limiter
	propertyLimiter ratelimit.Limiter
}

// New creates a pipeline with limiters derived from the configured delays
func New(cfg *config.Config, client ListingClient, store sheets.Store, notifier progress.Notifier, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.GetLogger()
	}

	newLimiter := func(d time.Duration) ratelimit.Limiter {
		if d <= 0 {
			return ratelimit.Nop{}
		}
		return ratelimit.NewFixedInterval(d)
	}

	return &Pipeline{
		client:          client,
		store:           store,
		notifier:        notifier,
		cfg:             cfg,
		log:             log,
		listingsLimiter: newLimiter(cfg.Pipeline.ListingsDelay),
		propertyLimiter: newLimiter(cfg.Pipeline.APIDelay),
	}
}

// Run executes the full pipeline. Per-item failures degrade gracefully
// inside their stage; the returned error is reserved for run-fatal
// conditions (sheet access, malformed search URL surfaced via an empty
// first page).
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}
	log := p.log.WithField("run_id", summary.RunID)
	log.Info("starting list-making run")

	p.notify(msgAuthenticating)
	p.pause()

	p.notify(msgFetching)
	accumulated, pages := p.fetchAll(ctx, log)
	summary.Pages = pages
	summary.Fetched = len(accumulated)
	if len(accumulated) == 0 {
		// Nothing fetched at all. Proceeding would diff an empty incoming
		// set against the sheet and delete every persisted row, so stop.
		log.Warn("no listings accumulated, aborting run")
		p.notify(MsgNoListings)
		return summary, nil
	}
	p.pause()

	p.notify(msgFilterZip)
	filtered := listing.FilterByZip(accumulated, p.cfg.Pipeline.ExcludedZipCodes)
	p.pause()

	p.notify(msgFilterDays)
	filtered = listing.FilterByDaysOnMarket(filtered, p.cfg.Pipeline.MaxDaysOnMarket)
	summary.AfterFilters = len(filtered)
	p.pause()

	p.notify(msgDedupe)
	persisted, err := p.store.Identifiers(ctx)
	if err != nil {
		log.WithError(err).Error("failed to read persisted identifiers")
		return summary, fmt.Errorf("reading persisted identifiers: %w", err)
	}

	// The incoming identifier set covers everything that survived the
	// filters; the insert candidates are only those not yet on the sheet.
	incoming := make([]string, 0, len(filtered))
	var fresh []zillow.Listing
	for _, l := range filtered {
		incoming = append(incoming, l.ZPID)
		if !containsID(persisted, l.ZPID) {
			fresh = append(fresh, l)
		}
	}
	summary.NewRecords = len(fresh)
	p.pause()

	p.notify(msgReformat)
	records := listing.Format(fresh)
	p.pause()

	p.notify(msgEnrich)
	records, enriched := p.enrich(ctx, records, log)
	summary.Enriched = enriched
	p.pause()

	p.notify(msgRemoveStale)
	staleRows := StaleRows(persisted, incoming, p.cfg.Sheets.StartingRow)
	summary.StaleRemoved = len(staleRows)
	if err := p.store.DeleteRows(ctx, staleRows); err != nil {
		log.WithError(err).Error("failed to remove stale rows")
		p.notify(fmt.Sprintf("Error removing outdated listings: %v", err))
	}
	p.pause()

	p.notify(msgAppend)
	summary.Appended = len(records)
	if err := p.store.Append(ctx, records); err != nil {
		log.WithError(err).Error("failed to append new rows")
		p.notify(fmt.Sprintf("Error updating the google sheet: %v", err))
	}
	p.pause()

	p.notify(msgTimestamp)
	if err := p.store.UpdateTimestamp(ctx, time.Now()); err != nil {
		log.WithError(err).Error("failed to update timestamp cell")
		p.notify(fmt.Sprintf("Error updating the timestamp: %v", err))
	}
	p.pause()

	log.WithFields(map[string]interface{}{
		"fetched":  summary.Fetched,
		"new":      summary.NewRecords,
		"stale":    summary.StaleRemoved,
		"appended": summary.Appended,
	}).Info("list-making run finished")

	return summary, nil
}

// fetchAll paginates through the listings API accumulating every page.
// currentPage and totalPages start optimistic at 1; the reported total
// replaces totalPages after each page, falling back to 1 when absent or
// zero so a malformed response cannot loop forever. A failed page stops
// the loop and keeps what was accumulated.
func (p *Pipeline) fetchAll(ctx context.Context, log logger.Logger) ([]zillow.Listing, StageResult) {
	var accumulated []zillow.Listing
	var result StageResult

	currentPage := 1
	totalPages := 1

	for currentPage <= totalPages {
		p.listingsLimiter.Wait()

		page, err := p.client.GetListings(ctx, p.cfg.Zillow.SearchURL, currentPage)
		if err != nil {
			log.WithError(err).WithField("page", currentPage).Error("listing page fetch failed")
			p.notify(fmt.Sprintf("Error fetching listings: %v", err))
			result.Skipped = append(result.Skipped, Skip{
				ID:     strconv.Itoa(currentPage),
				Reason: err.Error(),
			})
			break
		}

		accumulated = append(accumulated, page.Listings...)
		result.Succeeded++

		if page.TotalPages > 0 {
			totalPages = page.TotalPages
		} else {
			totalPages = 1
		}

		p.notify(fmt.Sprintf("Successfully retrieved %d listings from page %d out of %d pages from Zillow",
			len(page.Listings), currentPage, totalPages))

		currentPage++
	}

	log.WithFields(map[string]interface{}{
		"listings": len(accumulated),
		"pages":    result.Succeeded,
	}).Info("pagination complete")

	return accumulated, result
}

// enrich looks up attribution details for each record, strictly
// sequentially. The secondary API's rate limit is the reason for the
// serialization; do not parallelize this loop. A failed lookup passes
// the record through unchanged and moves on.
func (p *Pipeline) enrich(ctx context.Context, records []listing.Record, log logger.Logger) ([]listing.Record, StageResult) {
	out := make([]listing.Record, 0, len(records))
	var result StageResult

	for i, record := range records {
		p.propertyLimiter.Wait()
		p.notify(fmt.Sprintf("Updating listing %d of %d: %s", i+1, len(records), record.Address))

		attr, err := p.client.GetProperty(ctx, record.ZPID)
		if err != nil {
			log.WithError(err).WithField("zpid", record.ZPID).Warn("enrichment lookup failed")
			result.Skipped = append(result.Skipped, Skip{ID: record.ZPID, Reason: err.Error()})
			out = append(out, record)
			continue
		}

		out = append(out, listing.MergeAttribution(record, *attr))
		result.Succeeded++
	}

	return out, result
}

func (p *Pipeline) notify(message string) {
	if p.notifier != nil {
		p.notifier.Notify(message)
	}
}

// pause spaces milestone messages out so the client UI is readable
func (p *Pipeline) pause() {
	if d := p.cfg.Pipeline.StatusDelay; d > 0 {
		time.Sleep(d)
	}
}
