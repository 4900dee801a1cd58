package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

type recorded struct {
	method string
	path   string
	body   []byte
}

type fakeES struct {
	mu   sync.Mutex
	reqs []recorded
}

func (f *fakeES) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.reqs = append(f.reqs, recorded{method: r.Method, path: r.URL.Path, body: body})
		f.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/":
			_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/products/_doc/p1":
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"result":"created"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/products/_doc/p1":
			_, _ = io.WriteString(w, `{"result":"deleted"}`)
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
		case r.URL.Path == "/products/_search":
			_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
				{"_source":{"id":"p1","title":"Coffee Mug","price_cents":500}},
				{"_source":{"id":"p2","title":"Mug Rack","price_cents":1500}}]}}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"unexpected request"}`)
		}
	}
}

func newTestIndex(t *testing.T) (*ESIndex, *fakeES) {
	t.Helper()
	f := &fakeES{}
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	idx, err := NewES(Config{URL: srv.URL, Index: "products"})
	require.NoError(t, err)
	return idx, f
}

func TestESIndex_IndexAndDelete(t *testing.T) {
	t.Parallel()

	idx, f := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Ping(ctx))
	require.NoError(t, idx.IndexProduct(ctx, &models.Product{ID: "p1", Title: "Coffee Mug", PriceCents: 500}))
	require.NoError(t, idx.DeleteProduct(ctx, "p1"))
	require.NoError(t, idx.DeleteProduct(ctx, "unknown"))

	f.mu.Lock()
	defer f.mu.Unlock()
	var indexed *recorded
	for i := range f.reqs {
		if f.reqs[i].method == http.MethodPut {
			indexed = &f.reqs[i]
		}
	}
	require.NotNil(t, indexed)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(indexed.body, &doc))
	assert.Equal(t, "Coffee Mug", doc["title"])
	assert.EqualValues(t, 500, doc["price_cents"])
}

func TestESIndex_Search(t *testing.T) {
	t.Parallel()

	idx, f := newTestIndex(t)
	total, items, err := idx.Search(context.Background(), "mug", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "Mug Rack", items[1].Title)

	f.mu.Lock()
	defer f.mu.Unlock()
	last := f.reqs[len(f.reqs)-1]
	var q map[string]any
	require.NoError(t, json.Unmarshal(last.body, &q))
	assert.EqualValues(t, 10, q["size"])
	assert.Contains(t, string(last.body), `"title^2"`)
}

func TestESIndex_ErrorResponse(t *testing.T) {
	t.Parallel()

	idx, _ := newTestIndex(t)
	err := idx.IndexProduct(context.Background(), &models.Product{ID: "other"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestNewES_RequiresURL(t *testing.T) {
	t.Parallel()

	_, err := NewES(Config{})
	require.Error(t, err)
}
