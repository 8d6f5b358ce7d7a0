package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"storefront-console/internal/core/config"
	"storefront-console/internal/core/httpclient"
)

// AssetHostAdapter implements the AssetHost port against the image hosting
// service. The host accepts exactly one file per request.
type AssetHostAdapter struct {
	// client is the HTTP client used for upload requests.
	client *http.Client
	// config holds the asset host connection details.
	config config.AssetHostConfig
}

// NewAssetHostAdapter creates a new instance of AssetHostAdapter.
func NewAssetHostAdapter(cfg config.AssetHostConfig, timeout time.Duration) *AssetHostAdapter {
	return &AssetHostAdapter{
		client: httpclient.NewHeaderClient(timeout, "X-API-Key", cfg.APIKey),
		config: cfg,
	}
}

// Upload sends one file and returns its hosted URL.
func (a *AssetHostAdapter) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	url := fmt.Sprintf("%s/upload", a.config.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("asset host returned status: %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if result.URL == "" {
		return "", fmt.Errorf("asset host returned no URL for %s", filename)
	}

	return result.URL, nil
}
