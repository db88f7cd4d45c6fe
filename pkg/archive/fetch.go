package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"transcript-export/pkg/httpclient"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// WriteError reports a failure writing the archive to local disk, as opposed to a failure
// talking to the download host.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Fetcher downloads export archives. Download links are pre-signed, so no credential is sent.
type Fetcher struct {
	client *httpclient.HTTPClient
}

// NewFetcher creates a new archive fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{client: httpclient.NewClient(httpclient.DownloadClient, "")}
}

// Fetch streams the archive at downloadURL to dest, creating its directory if needed and
// overwriting any previous archive. The body is written to dest+".part" and renamed into place
// once fully flushed, so a failed download never leaves a truncated archive at dest.
func (f *Fetcher) Fetch(ctx context.Context, downloadURL, dest string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", &WriteError{Path: filepath.Dir(dest), Err: err}
	}

	resp, err := f.client.Get(ctx, downloadURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	tmp := dest + ".part"
	n, err := writePart(tmp, resp.Body)
	if err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", &WriteError{Path: dest, Err: err}
	}

	log.Printf("Fetcher: wrote %d bytes to %s", n, dest)
	return dest, nil
}

// writePart copies body into a fresh file at path and flushes it to disk.
// The caller removes path on failure.
func writePart(path string, body io.Reader) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, &WriteError{Path: path, Err: err}
	}

	n, err := io.Copy(out, body)
	if err != nil {
		out.Close()
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return n, &WriteError{Path: path, Err: err}
		}
		return n, fmt.Errorf("read archive body: %w", err)
	}

	if err := out.Sync(); err != nil {
		out.Close()
		return n, &WriteError{Path: path, Err: err}
	}
	if err := out.Close(); err != nil {
		return n, &WriteError{Path: path, Err: err}
	}
	return n, nil
}
