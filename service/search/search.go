// Package search mirrors the catalog feed into Elasticsearch for relevance
// ranked lookups. The in-memory engine stays the source of truth: search only
// returns product ids, which callers resolve against the engine.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"giftshop.GO/catalog"
)

// ErrNotConfigured is returned when no Elasticsearch host is set.
var ErrNotConfigured = errors.New("elasticsearch not configured")

const defaultSize = 20

// SearchService talks to the <prefix>_products index.
type SearchService struct {
	client *elasticsearch.Client
	index  string
	log    *zap.Logger
}

// Document is what gets indexed per product.
type Document struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category,omitempty"`
	Categories         []string `json:"categories,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	VendorName         string   `json:"vendor_name,omitempty"`
	Price              float64  `json:"price"`
	DiscountPercentage int      `json:"discount_percentage"`
}

// NewSearchService builds a client for host. An empty host yields a service
// whose calls return ErrNotConfigured.
func NewSearchService(host, prefix string, log *zap.Logger) *SearchService {
	if log == nil {
		log = zap.NewNop()
	}
	if prefix == "" {
		prefix = "giftshop"
	}
	s := &SearchService{index: prefix + "_products", log: log}
	if host == "" {
		return s
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{host}})
	if err != nil {
		log.Warn("elasticsearch client disabled", zap.String("host", host), zap.Error(err))
		return s
	}
	s.client = client
	return s
}

// Index returns the index name.
func (s *SearchService) Index() string { return s.index }

// Enabled reports whether a client is configured.
func (s *SearchService) Enabled() bool { return s.client != nil }

// ToDocument maps a product to its indexed form.
func ToDocument(p catalog.Product) Document {
	return Document{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Category:           p.Category,
		Categories:         p.Categories,
		Tags:               p.Tags,
		VendorName:         p.VendorName,
		Price:              p.Price.Float(),
		DiscountPercentage: p.DiscountPercentage,
	}
}

// IndexProducts bulk-indexes products, replacing documents with the same id.
// It returns how many documents were indexed.
func (s *SearchService) IndexProducts(ctx context.Context, products []catalog.Product) (int, error) {
	if s.client == nil {
		return 0, ErrNotConfigured
	}
	if len(products) == 0 {
		return 0, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range products {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": s.index, "_id": p.ID}}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(ToDocument(p)); err != nil {
			return 0, err
		}
	}

	res, err := s.client.Bulk(bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithContext(ctx),
		s.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var bulk struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return 0, err
	}
	indexed := 0
	for _, item := range bulk.Items {
		for _, r := range item {
			if r.Status < 300 {
				indexed++
			}
		}
	}
	if bulk.Errors {
		s.log.Warn("bulk index had failures", zap.Int("indexed", indexed), zap.Int("total", len(products)))
	}
	return indexed, nil
}

// Search returns product ids matching query, best match first.
func (s *SearchService) Search(ctx context.Context, query string, size int) ([]string, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}
	if size <= 0 {
		size = defaultSize
	}

	body := map[string]interface{}{
		"size":    size,
		"_source": []string{"id"},
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "tags^2", "category", "categories", "vendor_name", "description"},
			},
		},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				ID     string `json:"_id"`
				Source struct {
					ID string `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		id := hit.Source.ID
		if id == "" {
			id = hit.ID
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Resolve maps ids back to engine products, dropping ids the engine no
// longer knows.
func Resolve(e *catalog.Engine, ids []string) []catalog.Product {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := e.Product(id); ok {
			out = append(out, p)
		}
	}
	return out
}
