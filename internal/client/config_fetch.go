package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/telesense/sensebridge/internal/config"
)

// FetchCaptureConfig polls the bridge's read-only configuration
// endpoint. Adapters call this once at startup.
func FetchCaptureConfig(baseURL string) (config.CaptureView, error) {
	var view config.CaptureView

	httpClient := &http.Client{Timeout: 5 * time.Second}
	resp, err := httpClient.Get(baseURL + "/api/config")
	if err != nil {
		return view, fmt.Errorf("fetch capture config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return view, fmt.Errorf("fetch capture config: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return view, fmt.Errorf("decode capture config: %w", err)
	}
	return view, nil
}
