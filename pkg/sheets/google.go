package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"listmaker/pkg/config"
	"listmaker/pkg/listing"
	"listmaker/pkg/logger"
)

// GoogleStore implements Store against the Google Sheets v4 API
type GoogleStore struct {
	svc    *sheetsv4.Service
	cfg    *config.SheetsConfig
	logger logger.Logger
}

// NewGoogleStore authenticates against the Sheets API with the configured
// service account credentials
func NewGoogleStore(ctx context.Context, cfg *config.SheetsConfig, log logger.Logger) (*GoogleStore, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	opts := []option.ClientOption{option.WithScopes(sheetsv4.SpreadsheetsScope)}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		return nil, fmt.Errorf("no Google credentials configured")
	}

	svc, err := sheetsv4.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleStore{svc: svc, cfg: cfg, logger: log}, nil
}

// Identifiers reads the identifier column snapshot. Blank rows keep their
// position so indices still map to sheet rows.
func (g *GoogleStore) Identifiers(ctx context.Context) ([]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.cfg.SpreadsheetID, g.cfg.ZPIDColumnRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read identifier column: %w", err)
	}

	ids := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) > 0 {
			ids = append(ids, fmt.Sprint(row[0]))
		} else {
			ids = append(ids, "")
		}
	}

	g.logger.WithField("count", len(ids)).Debug("read persisted identifiers")
	return ids, nil
}

// Append bulk-appends the records below the existing rows
func (g *GoogleStore) Append(ctx context.Context, records []listing.Record) error {
	if len(records) == 0 {
		return nil
	}

	body := &sheetsv4.ValueRange{Values: BuildRows(records)}

	resp, err := g.svc.Spreadsheets.Values.Append(g.cfg.SpreadsheetID, g.cfg.AppendRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	if resp.Updates != nil {
		g.logger.WithField("cells", resp.Updates.UpdatedCells).Debug("appended listing rows")
	}
	return nil
}

// DeleteRows removes the given 1-based rows one delete at a time. Rows
// must arrive in descending order; deleting a row shifts everything
// below it up, so ascending deletes would hit the wrong rows.
func (g *GoogleStore) DeleteRows(ctx context.Context, rows []int) error {
	for _, row := range rows {
		req := &sheetsv4.BatchUpdateSpreadsheetRequest{
			Requests: []*sheetsv4.Request{{
				DeleteDimension: &sheetsv4.DeleteDimensionRequest{
					Range: &sheetsv4.DimensionRange{
						SheetId:    g.cfg.SheetID,
						Dimension:  "ROWS",
						StartIndex: int64(row - 1), // 1-based row to 0-based index
						EndIndex:   int64(row),
					},
				},
			}},
		}

		if _, err := g.svc.Spreadsheets.BatchUpdate(g.cfg.SpreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to delete row %d: %w", row, err)
		}
	}

	g.logger.WithField("rows", len(rows)).Debug("removed stale listing rows")
	return nil
}

// UpdateTimestamp overwrites the timestamp cell with the formatted time
func (g *GoogleStore) UpdateTimestamp(ctx context.Context, t time.Time) error {
	body := &sheetsv4.ValueRange{
		Values: [][]interface{}{{listing.Timestamp(t)}},
	}

	_, err := g.svc.Spreadsheets.Values.Update(g.cfg.SpreadsheetID, g.cfg.TimestampCell, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update timestamp cell: %w", err)
	}

	return nil
}
