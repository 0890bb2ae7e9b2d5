package ipfs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Gateway fetches documents from a content-addressed storage gateway.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Entry
}

// NewGateway creates a gateway client. timeout bounds every document fetch;
// a gateway that hangs must produce a typed failure, not a stuck request.
func NewGateway(baseURL string, timeout time.Duration, logger *logrus.Logger) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logger.WithField("component", "ipfs"),
	}
}

// BaseURL returns the configured gateway base URL.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// FetchDocument retrieves the raw bytes behind a content identifier.
func (g *Gateway) FetchDocument(ctx context.Context, cid string) ([]byte, error) {
	if !LooksLikeCID(cid) {
		return nil, fmt.Errorf("malformed content identifier %q", cid)
	}

	url := g.baseURL + cid
	g.log.WithField("url", url).Info("fetching document from gateway")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d for %s", resp.StatusCode, cid)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read document body: %w", err)
	}
	return data, nil
}
