// Package sheets is the persistence capability: a previously synced set
// of listing rows living in a spreadsheet, supporting snapshot reads,
// bulk appends, positional row deletes and a timestamp cell update.
package sheets

import (
	"context"
	"time"

	"listmaker/pkg/listing"
)

// Store abstracts the spreadsheet the pipeline reconciles against
type Store interface {
	// Identifiers returns the persisted identifier column, in sheet order.
	// Index 0 corresponds to the configured starting row.
	Identifiers(ctx context.Context) ([]string, error)

	// Append adds the given records to the sheet in one bulk operation
	Append(ctx context.Context, records []listing.Record) error

	// DeleteRows removes the given 1-based sheet rows, one at a time, in
	// the order given. Callers must pass rows in descending order since
	// every delete shifts the rows below it up by one.
	DeleteRows(ctx context.Context, rows []int) error

	// UpdateTimestamp overwrites the timestamp cell with the given time
	UpdateTimestamp(ctx context.Context, t time.Time) error
}
