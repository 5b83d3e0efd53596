// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"autotrader-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchClient wraps the Elasticsearch client
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

// NewElasticsearch creates a new Elasticsearch client
func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}

	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticsearchClient{Client: es}, nil
}

// Ping tests the Elasticsearch connection
func (c *ElasticsearchClient) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(
		c.Client.Ping.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}

	return nil
}

// Search executes a search request against the given index and returns the raw response body.
func (c *ElasticsearchClient) Search(ctx context.Context, index string, body io.Reader) ([]byte, error) {
	res, err := c.Client.Search(
		c.Client.Search.WithContext(ctx),
		c.Client.Search.WithIndex(index),
		c.Client.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch response read failed: %w", err)
	}

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search error [%s]: %s", res.Status(), string(raw))
	}

	return raw, nil
}

// CreateIndex creates an index with the given mapping. Existing indices are left untouched.
func (c *ElasticsearchClient) CreateIndex(ctx context.Context, index string, mapping string) error {
	exists, err := c.Client.Indices.Exists(
		[]string{index},
		c.Client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index check failed: %w", err)
	}
	defer exists.Body.Close()

	if exists.StatusCode == 200 {
		return nil
	}

	res, err := c.Client.Indices.Create(
		index,
		c.Client.Indices.Create.WithContext(ctx),
		c.Client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index create failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch index create error: %s", res.Status())
	}

	return nil
}

// Bulk executes a bulk request (NDJSON body).
func (c *ElasticsearchClient) Bulk(ctx context.Context, body io.Reader) error {
	res, err := c.Client.Bulk(
		body,
		c.Client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch bulk failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch bulk error [%s]: %s", res.Status(), string(raw))
	}

	return nil
}

// Info returns cluster information
func (c *ElasticsearchClient) Info(ctx context.Context) error {
	res, err := c.Client.Info(
		c.Client.Info.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch info error: %s", res.Status())
	}

	return nil
}
