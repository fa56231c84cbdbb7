// Package rcsb talks to the RCSB Protein Data Bank: it fetches structure
// detail pages, parses their markup into metadata, and downloads raw
// structure files.
package rcsb

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
)

// Client fetches structure detail pages. Page retrieval is best-effort:
// any transport failure, timeout, or non-2xx status yields an absent
// result rather than an error, since metadata is advisory and a missing
// page must not abort a preparation run.
type Client struct {
	httpClient   *http.Client
	structureURL string
	userAgent    string
	logger       logging.Logger
}

// NewClient builds a page client from the RCSB section of the config.
func NewClient(cfg config.RCSBConfig, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.PageTimeout},
		structureURL: cfg.StructureURL,
		userAgent:    cfg.UserAgent,
		logger:       logger.Named("rcsb.client"),
	}
}

// PageURL returns the structure detail page URL for id.
func (c *Client) PageURL(id structure.ID) string {
	return fmt.Sprintf(c.structureURL, id.String())
}

// FetchPage retrieves the HTML detail page for id. The boolean result
// reports whether a page was obtained; false means the caller should treat
// the metadata as unavailable. FetchPage never returns an error.
func (c *Client) FetchPage(ctx context.Context, id structure.ID) (string, bool) {
	url := c.PageURL(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Warn("failed to build page request",
			logging.String("pdb_id", id.String()), logging.Err(err))
		return "", false
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("structure page request failed",
			logging.String("pdb_id", id.String()),
			logging.String("url", url),
			logging.Err(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("structure page returned non-success status",
			logging.String("pdb_id", id.String()),
			logging.Int("status", resp.StatusCode))
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read structure page body",
			logging.String("pdb_id", id.String()), logging.Err(err))
		return "", false
	}
	return string(body), true
}
