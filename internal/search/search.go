package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Index keeps a searchable copy of the catalog.
type Index interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
	// Transport overrides the HTTP transport, mostly for tests.
	Transport http.RoundTripper
}

type ESIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewES(cfg Config) (*ESIndex, error) {
	if cfg.URL == "" {
		return nil, errors.New("search: empty elasticsearch url")
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("search: new client: %w", err)
	}
	return &ESIndex{es: es, index: cfg.Index}, nil
}

func (x *ESIndex) Ping(ctx context.Context) error {
	res, err := x.es.Info(x.es.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: info: %w", err)
	}
	defer res.Body.Close()
	return responseError("info", res)
}

func (x *ESIndex) IndexProduct(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("search: marshal product: %w", err)
	}
	res, err := x.es.Index(
		x.index,
		bytes.NewReader(body),
		x.es.Index.WithContext(ctx),
		x.es.Index.WithDocumentID(p.ID),
	)
	if err != nil {
		return fmt.Errorf("search: index %s: %w", p.ID, err)
	}
	defer res.Body.Close()
	return responseError("index", res)
}

func (x *ESIndex) DeleteProduct(ctx context.Context, id string) error {
	res, err := x.es.Delete(x.index, id, x.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError("delete", res)
}

func (x *ESIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if err := responseError("search", res); err != nil {
		return 0, nil, err
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

func responseError(op string, res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("search: %s: %s: %s", op, res.Status(), bytes.TrimSpace(msg))
}
