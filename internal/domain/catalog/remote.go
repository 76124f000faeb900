package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RemoteSource fetches view definitions from an HTTP endpoint
type RemoteSource struct {
	client  *resty.Client
	url     string
	manager *Manager
	logger  *zap.Logger
}

// NewRemoteSource creates a remote source for url
func NewRemoteSource(manager *Manager, url string, logger *zap.Logger) *RemoteSource {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json, application/yaml, application/toml").
		SetHeader("User-Agent", "AgentOS-Client/1.0")

	return &RemoteSource{
		client:  client,
		url:     url,
		manager: manager,
		logger:  logger,
	}
}

// Fetch downloads the definitions and registers them, returning the count
func (r *RemoteSource) Fetch(ctx context.Context) (int, error) {
	resp, err := r.client.R().SetContext(ctx).Get(r.url)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch catalog from %s: %w", r.url, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("failed to fetch catalog from %s: status %d", r.url, resp.StatusCode())
	}

	format := FormatFromContentType(resp.Header().Get("Content-Type"))
	views, err := Parse(resp.Body(), format)
	if err != nil {
		return 0, err
	}

	for _, v := range views {
		if err := r.manager.Register(v); err != nil {
			return 0, err
		}
	}

	r.logger.Info("Fetched remote views", zap.String("url", r.url), zap.Int("views", len(views)))
	return len(views), nil
}
