package rcsb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// Downloader retrieves raw .pdb files. Unlike page fetching, a failed
// download is fatal: the caller gets a typed, identifier-bearing error and
// no file is written. There is no retry, checksum, or resumption.
type Downloader struct {
	httpClient  *http.Client
	downloadURL string
	userAgent   string
	logger      logging.Logger
}

// NewDownloader builds a structure-file downloader from the RCSB config.
// Downloads carry no timeout of their own; cancel via ctx if needed.
func NewDownloader(cfg config.RCSBConfig, logger logging.Logger) *Downloader {
	if logger == nil {
		logger = logging.Default()
	}
	return &Downloader{
		httpClient:  &http.Client{},
		downloadURL: cfg.DownloadURL,
		userAgent:   cfg.UserAgent,
		logger:      logger.Named("rcsb.downloader"),
	}
}

// FileURL returns the download URL for the raw structure file of id.
func (d *Downloader) FileURL(id structure.ID) string {
	return fmt.Sprintf(d.downloadURL, id.Filename())
}

// Download fetches the raw structure file for id and writes it to destDir
// as "<ID>.pdb", returning the written path. A non-200 response yields an
// error naming the identifier, and no file is created.
func (d *Downloader) Download(ctx context.Context, id structure.ID, destDir string) (string, error) {
	url := d.FileURL(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodePDBDownloadFailed,
			fmt.Sprintf("failed to build download request for %s", id))
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.CodePDBDownloadFailed,
			fmt.Sprintf("failed to download PDB file for %s", id))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf(errors.CodePDBDownloadFailed,
			"failed to download PDB file for %s: status %d", id, resp.StatusCode)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CodePDBDownloadFailed,
			fmt.Sprintf("failed to create destination directory for %s", id))
	}

	destPath := filepath.Join(destDir, id.Filename())
	out, err := os.Create(destPath)
	if err != nil {
		return "", errors.Wrap(err, errors.CodePDBDownloadFailed,
			fmt.Sprintf("failed to create file for %s", id))
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		// Remove the partial file so a failed download leaves nothing behind.
		os.Remove(destPath)
		return "", errors.Wrap(err, errors.CodePDBDownloadFailed,
			fmt.Sprintf("failed to write PDB file for %s", id))
	}

	d.logger.Info("downloaded structure file",
		logging.String("pdb_id", id.String()),
		logging.String("path", destPath),
		logging.Int64("bytes", written))
	return destPath, nil
}
