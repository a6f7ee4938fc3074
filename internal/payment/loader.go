package payment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPScriptLoader verifies the widget script is reachable before the
// lifecycle reports ready. The script itself runs provider-side; the
// storefront only needs to know the load would succeed.
type HTTPScriptLoader struct {
	client *http.Client
}

// NewHTTPScriptLoader builds a loader with a bounded timeout.
func NewHTTPScriptLoader(timeout time.Duration) *HTTPScriptLoader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPScriptLoader{client: &http.Client{Timeout: timeout}}
}

// Load fetches the script URL and discards the body.
func (l *HTTPScriptLoader) Load(ctx context.Context, widgetURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, widgetURL, nil)
	if err != nil {
		return fmt.Errorf("build widget script request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch widget script: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("widget script returned status %d", resp.StatusCode)
	}
	return nil
}
