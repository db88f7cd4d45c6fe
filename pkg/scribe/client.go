// Package scribe talks to the transcription service's REST API: the paginated transcript
// listing and the export endpoints.
package scribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"transcript-export/pkg/config"
	"transcript-export/pkg/domain"
	"transcript-export/pkg/httpclient"
)

var (
	ErrUnexpectedStatus  = errors.New("unexpected status code")
	ErrMalformedResponse = errors.New("malformed response")
	ErrEmptyExportID     = errors.New("export ID is empty")
)

// Client is an authenticated client for the listing and export endpoints.
type Client struct {
	http       *httpclient.HTTPClient
	exportsURL string
}

// NewClient creates a client that authenticates every request with credential.
func NewClient(credential config.Credential, exportsURL string) *Client {
	return &Client{
		http:       httpclient.NewClient(httpclient.APIClient, string(credential)),
		exportsURL: strings.TrimRight(exportsURL, "/"),
	}
}

// Page is one page of the transcript listing.
type Page struct {
	Results []struct {
		ID domain.TranscriptID `json:"id"`
	} `json:"results"`
	Links struct {
		Next *struct {
			URL string `json:"url"`
		} `json:"next"`
	} `json:"_links"`
}

// IDs returns the page's transcript IDs in listing order.
func (p *Page) IDs() []domain.TranscriptID {
	ids := make([]domain.TranscriptID, 0, len(p.Results))
	for _, r := range p.Results {
		ids = append(ids, r.ID)
	}
	return ids
}

// NextURL returns the next page link, or "" when the page has none.
func (p *Page) NextURL() string {
	if p.Links.Next == nil {
		return ""
	}
	return p.Links.Next.URL
}

// ListTranscripts fetches a single listing page.
func (c *Client) ListTranscripts(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := c.doJSON(req, &page); err != nil {
		return nil, fmt.Errorf("list transcripts %s: %w", pageURL, err)
	}
	return &page, nil
}

type createExportRequest struct {
	Export struct {
		Format           string                `json:"format"`
		TranscriptionIDs []domain.TranscriptID `json:"transcription_ids"`
	} `json:"export"`
}

type exportResponse struct {
	ID           domain.TranscriptID `json:"id"`
	DownloadLink string              `json:"download_link"`
}

// CreateExport requests a JSON export of ids and returns the server-assigned export ID.
func (c *Client) CreateExport(ctx context.Context, ids []domain.TranscriptID) (string, error) {
	var body createExportRequest
	body.Export.Format = "json"
	body.Export.TranscriptionIDs = ids
	if body.Export.TranscriptionIDs == nil {
		body.Export.TranscriptionIDs = []domain.TranscriptID{}
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.exportsURL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out exportResponse
	if err := c.doJSON(req, &out); err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("create export: %w: %w", ErrMalformedResponse, ErrEmptyExportID)
	}
	return string(out.ID), nil
}

// GetExport fetches the current status of an export once.
// The job is ExportReady when the service has attached a download link.
func (c *Client) GetExport(ctx context.Context, exportID string) (*domain.ExportJob, error) {
	if strings.TrimSpace(exportID) == "" {
		return nil, ErrEmptyExportID
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.exportsURL+"/"+url.PathEscape(exportID), nil)
	if err != nil {
		return nil, err
	}

	var out exportResponse
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("get export %s: %w", exportID, err)
	}

	job := &domain.ExportJob{ID: exportID, State: domain.ExportPending, DownloadLink: out.DownloadLink}
	if out.DownloadLink != "" {
		job.State = domain.ExportReady
	}
	return job, nil
}

// doJSON executes req and decodes a 2xx JSON body into out.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s - %.200s", ErrUnexpectedStatus, resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

func drainAndClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}
