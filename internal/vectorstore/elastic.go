package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"travel-assistant/internal/common/config"
	errs "travel-assistant/internal/common/errors"
	"travel-assistant/internal/common/logger"
	"travel-assistant/internal/common/metrics"
)

// ElasticStore keeps documents in an elasticsearch index and lets its
// native text ranking order query hits.
type ElasticStore struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticStore(cfg config.ElasticsearchConfig, client *elasticsearch.Client, log logger.Logger) *ElasticStore {
	return &ElasticStore{
		client: client,
		index:  cfg.Index,
		logger: log.With(map[string]interface{}{"component": "vectorstore", "backend": "elasticsearch"}),
	}
}

func (s *ElasticStore) Upsert(ctx context.Context, docs []Document) error {
	for _, doc := range docs {
		body, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", doc.ID, err)
		}
		req := esapi.IndexRequest{
			Index:      s.index,
			DocumentID: doc.ID,
			Body:       bytes.NewReader(body),
		}
		res, err := req.Do(ctx, s.client)
		if err != nil {
			return fmt.Errorf("index document %s: %w", doc.ID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("index document %s: %s", doc.ID, res.Status())
		}
	}
	return nil
}

func (s *ElasticStore) Query(ctx context.Context, query string, topK int) ([]Passage, error) {
	passages, err := s.query(ctx, query, topK)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StoreQueries.WithLabelValues(status).Inc()
	return passages, err
}

func (s *ElasticStore) query(ctx context.Context, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		return nil, nil
	}

	queryBody := map[string]interface{}{
		"size": topK,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"text": query,
			},
		},
	}
	body, err := json.Marshal(queryBody)
	if err != nil {
		return nil, errs.NewStoreQueryFailedError(err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errs.NewStoreQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errs.NewStoreQueryFailedError(fmt.Errorf("search failed: %s", res.Status()))
	}

	var payload struct {
		Hits struct {
			Hits []struct {
				Score  float64  `json:"_score"`
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errs.NewStoreQueryFailedError(err)
	}

	passages := make([]Passage, 0, len(payload.Hits.Hits))
	for _, hit := range payload.Hits.Hits {
		passages = append(passages, Passage{
			Text:     hit.Source.Text,
			SourceID: hit.Source.SourceID,
			Score:    hit.Score,
		})
	}
	return passages, nil
}

func (s *ElasticStore) Count(ctx context.Context) (int, error) {
	res, err := s.client.Count(
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(s.index),
	)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("count failed: %s", res.Status())
	}
	var payload struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

func (s *ElasticStore) Close() error { return nil }
