package docker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/blackwell-systems/caribic/internal/config"
)

// ServiceStatus represents the status of a service
type ServiceStatus int

const (
	ServiceUnknown ServiceStatus = iota
	ServiceUp
	ServiceDown
	ServiceStarting
)

// StackStatus represents the status of the bridge endpoints
type StackStatus struct {
	Cosmos  ServiceStatus
	Osmosis ServiceStatus
	Mithril ServiceStatus
}

// Status returns health status of the bridge endpoints
func Status(ctx context.Context, cfg *config.Config) (*StackStatus, error) {
	client := &http.Client{Timeout: cfg.Health.Timeout}
	status := &StackStatus{Mithril: ServiceUnknown}

	status.Cosmos = CheckHealth(ctx, client, cfg.Cosmos.RPCURL+"/health")
	status.Osmosis = CheckHealth(ctx, client, cfg.Osmosis.RPCURL+"/health")

	if cfg.Mithril.Enabled {
		status.Mithril = CheckHealth(ctx, client, cfg.Mithril.AggregatorURL)
	}

	return status, nil
}

// CheckHealth probes url and maps the response to a ServiceStatus
func CheckHealth(ctx context.Context, client *http.Client, url string) ServiceStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ServiceUnknown
	}

	resp, err := client.Do(req)
	if err != nil {
		return ServiceDown
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return ServiceUp
	case resp.StatusCode == http.StatusServiceUnavailable:
		return ServiceStarting
	default:
		return ServiceDown
	}
}

// WaitHealthy polls url until it reports ServiceUp or timeout elapses
func WaitHealthy(ctx context.Context, client *http.Client, url string, interval, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if CheckHealth(ctx, client, url) == ServiceUp {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s not healthy after %s: %w", url, timeout, ctx.Err())
		case <-ticker.C:
		}
	}
}
