package database

import (
	"context"
	"fmt"
	"net/http"

	"claims-registry/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// SearchMirror is the elasticsearch client that receives claim documents.
type SearchMirror struct {
	Client *elasticsearch.Client
}

func OpenSearchMirror(cfg config.ElasticsearchConfig) (*SearchMirror, error) {
	addr := cfg.Addresses
	if len(addr) == 0 && cfg.URL != "" {
		addr = []string{cfg.URL}
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     addr,
		Username:      cfg.Username,
		Password:      cfg.Password,
		MaxRetries:    cfg.MaxRetries,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests},
	})
	if err != nil {
		return nil, fmt.Errorf("create search mirror client: %w", err)
	}
	return &SearchMirror{Client: es}, nil
}

func (c *SearchMirror) Role() string { return "searchMirror" }

func (c *SearchMirror) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search mirror ping: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("search mirror ping: %s", res.Status())
	}
	return nil
}

// Close is a no-op; the client holds no pooled resources of its own.
func (c *SearchMirror) Close() error { return nil }
