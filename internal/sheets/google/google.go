// Package google implements the tabular source port against the Google
// Sheets values API, authenticated with an API key.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	ports "tesouraria/internal/sheets"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

var _ ports.RangeReader = (*Client)(nil)

// NewClient creates a Sheets client for a single spreadsheet and range.
func NewClient(ctx context.Context, apiKey, spreadsheetID, readRange string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing sheets API key")
	}
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(readRange) == "" {
		return nil, errors.New("missing read range")
	}

	svc, err := gsheet.NewService(ctx, goption.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

// ReadRange fetches the configured range in a single synchronous round trip.
// No retry, pagination or caching: a non-success response fails the whole
// invocation as a SourceUnavailableError.
func (c *Client) ReadRange(ctx context.Context) ([][]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, toSourceError(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		rows = append(rows, toStrings(row))
	}

	slog.DebugContext(ctx, "Fetched sheet range",
		"spreadsheet_id", c.spreadsheetID,
		"range", c.readRange,
		"rows", len(rows))

	return rows, nil
}

// toSourceError maps upstream failures onto the pipeline's error taxonomy,
// preserving the HTTP status and body when the API reported one.
func toSourceError(err error) error {
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		body := ge.Message
		if body == "" {
			body = ge.Body
		}
		return &ports.SourceUnavailableError{Status: ge.Code, Body: body}
	}
	return fmt.Errorf("fetch sheet values: %w", err)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
