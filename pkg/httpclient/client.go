package httpclient

import (
	"context"
	"net/http"
)

// ClientType represents the type of HTTP client configuration
type ClientType string

const (
	// APIClient stamps the credential and JSON headers on every request.
	// Used for the listing and export endpoints.
	APIClient ClientType = "api"

	// DownloadClient sends no credential.
	// Export download links are pre-signed and reject extra Authorization headers.
	DownloadClient ClientType = "download"
)

// HTTPClient wraps an http.Client with configuration
type HTTPClient struct {
	client        *http.Client
	clientType    ClientType
	authorization string
}

// NewClient creates a new HTTP client with the specified type.
// authorization is ignored for DownloadClient.
func NewClient(clientType ClientType, authorization string) *HTTPClient {
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Follow up to 10 redirects
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return &HTTPClient{
		client:        client,
		clientType:    clientType,
		authorization: authorization,
	}
}

// Do executes an HTTP request with the appropriate headers for the client type
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// Get is a convenience method for GET requests
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// setHeaders sets the appropriate headers based on client type
func (c *HTTPClient) setHeaders(req *http.Request) {
	switch c.clientType {
	case APIClient:
		req.Header.Set("Authorization", c.authorization)
		req.Header.Set("Accept", "application/json")
		if req.Body != nil && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}

	case DownloadClient:
		// The first request to a pre-signed link goes out without a credential
		req.Header.Del("Authorization")

	default:
		// Default: use Go's default User-Agent
	}
}
