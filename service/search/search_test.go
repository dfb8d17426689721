package search

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftshop.GO/catalog"
)

// fakeES records requests and answers like a single-node cluster.
type fakeES struct {
	mu       sync.Mutex
	bulkDocs []string
	query    map[string]interface{}
	index    string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		sc := bufio.NewScanner(strings.NewReader(string(body)))
		var items []string
		for i := 0; sc.Scan(); i++ {
			if i%2 == 1 {
				f.bulkDocs = append(f.bulkDocs, sc.Text())
				items = append(items, `{"index":{"status":201}}`)
			}
		}
		io.WriteString(w, `{"errors":false,"items":[`+strings.Join(items, ",")+`]}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		f.index = strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/_search")
		_ = json.Unmarshal(body, &f.query)
		io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
			{"_id":"prod2","_source":{"id":"prod2"}},
			{"_id":"prod9","_source":{}}
		]}}`)
	default:
		io.WriteString(w, `{}`)
	}
}

func TestSearchService_NotConfigured(t *testing.T) {
	s := NewSearchService("", "", nil)
	assert.False(t, s.Enabled())
	assert.Equal(t, "giftshop_products", s.Index())

	_, err := s.Search(context.Background(), "mug", 5)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = s.IndexProducts(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSearchService_IndexAndSearch(t *testing.T) {
	fake := &fakeES{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s := NewSearchService(srv.URL, "shop", nil)
	require.True(t, s.Enabled())

	n, err := s.IndexProducts(context.Background(), []catalog.Product{
		{ID: "prod1", Name: "Mug", Price: 1500, Tags: []string{"coffee"}},
		{ID: "prod2", Name: "Scarf", Price: 2500, DiscountPercentage: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, fake.bulkDocs, 2)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(fake.bulkDocs[0]), &doc))
	assert.Equal(t, "Mug", doc.Name)
	assert.Equal(t, 15.0, doc.Price)

	ids, err := s.Search(context.Background(), "  scarf ", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod2", "prod9"}, ids)
	assert.Equal(t, "shop_products", fake.index)
	assert.EqualValues(t, defaultSize, fake.query["size"])
}

func TestSearchService_EmptyQuery(t *testing.T) {
	srv := httptest.NewServer(&fakeES{})
	defer srv.Close()
	ids, err := NewSearchService(srv.URL, "", nil).Search(context.Background(), "   ", 3)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestResolve(t *testing.T) {
	e := catalog.NewEngine()
	e.Load(catalog.Snapshot{Products: []catalog.Product{
		{ID: "prod1", Name: "Mug"},
		{ID: "prod2", Name: "Scarf"},
	}})
	got := Resolve(e, []string{"prod2", "gone", "prod1"})
	require.Len(t, got, 2)
	assert.Equal(t, "prod2", got[0].ID)
	assert.Equal(t, "prod1", got[1].ID)
}
