package httpclient

import (
	"net/http"
	"time"

	"storefront-console/internal/core/logger"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// headerRoundTripper injects a static header into every outgoing request.
type headerRoundTripper struct {
	proxied http.RoundTripper
	key     string
	value   string
}

// RoundTrip clones the request, sets the auth header and delegates.
func (hrt *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set(hrt.key, hrt.value)
	return hrt.proxied.RoundTrip(cloned)
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
}

// NewBearerClient returns a logging http.Client that attaches a bearer token
// to every request. Used for the order-store and catalog-store collaborators.
func NewBearerClient(timeout time.Duration, token string) *http.Client {
	return NewHeaderClient(timeout, "Authorization", "Bearer "+token)
}

// NewHeaderClient returns a logging http.Client that attaches an arbitrary
// static header, e.g. an API key, to every request.
func NewHeaderClient(timeout time.Duration, key, value string) *http.Client {
	return &http.Client{
		Transport: &headerRoundTripper{
			proxied: &LoggingRoundTripper{
				Proxied: http.DefaultTransport,
			},
			key:   key,
			value: value,
		},
		Timeout: timeout,
	}
}
