package processor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// The two CellarTracker export tables this pipeline consumes.
const (
	TableList    = "List"
	TableBottles = "Bottles"
)

// Client fetches CSV exports from the CellarTracker query endpoint.
type Client struct {
	BaseURL    string
	User       string
	Password   string
	HTTPClient *http.Client
	Log        *zap.Logger
}

// FetchTable performs one blocking export fetch and returns the response
// decoded to UTF-8. The endpoint serves windows-1252; decoding substitutes
// rather than fails on bad bytes, which the encoding_issues check surfaces
// later.
func (c *Client) FetchTable(ctx context.Context, table string) (string, error) {
	q := url.Values{}
	q.Set("User", c.User)
	q.Set("Password", c.Password)
	q.Set("Format", "csv")
	q.Set("Table", table)
	q.Set("InStock", "0") // include consumed/lost bottles

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", table, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.Log.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("cellartracker api error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(transform.NewReader(resp.Body, charmap.Windows1252.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", table, err)
	}

	c.Log.Debug("Fetched export",
		zap.String("table", table),
		zap.Int("bodySize", len(body)),
	)
	return string(body), nil
}
