package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/timshannon/badgerhold/v4"

	"travel-assistant/internal/common/config"
	errs "travel-assistant/internal/common/errors"
	"travel-assistant/internal/common/logger"
	"travel-assistant/internal/common/metrics"
)

// storedDocument is the persisted record. Documents from every collection
// share one badger database, keyed by collection-qualified ID.
type storedDocument struct {
	Key        string `badgerhold:"key"`
	Collection string
	Document
}

// BadgerStore persists documents in an embedded badger database and ranks
// queries with an in-memory TF-IDF index. The index is rebuilt from the
// persisted documents on open and after every upsert, so a process restart
// ranks identically to the run that wrote the data.
type BadgerStore struct {
	store      *badgerhold.Store
	collection string
	logger     logger.Logger

	mu       sync.RWMutex
	embedder *Embedder
	docs     []Document
	vectors  [][]float64
	nextSeq  uint64
}

func NewBadgerStore(cfg config.BadgerConfig, log logger.Logger) (*BadgerStore, error) {
	options := badgerhold.DefaultOptions
	options.Dir = cfg.Path
	options.ValueDir = cfg.Path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger store at %s: %w", cfg.Path, err)
	}

	s := &BadgerStore{
		store:      store,
		collection: cfg.Collection,
		logger:     log.With(map[string]interface{}{"component": "vectorstore", "backend": "badger"}),
	}
	if err := s.rebuildIndex(); err != nil {
		store.Close()
		return nil, err
	}
	s.logger.Info("store opened", map[string]interface{}{
		"path":       cfg.Path,
		"collection": cfg.Collection,
		"documents":  len(s.docs),
	})
	return s, nil
}

func (s *BadgerStore) Upsert(ctx context.Context, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range docs {
		doc := docs[i]
		key := s.key(doc.ID)

		var existing storedDocument
		err := s.store.Get(key, &existing)
		switch err {
		case nil:
			// Replacing a document keeps its sequence so ranking ties
			// stay stable across re-ingestion.
			doc.Seq = existing.Seq
		case badgerhold.ErrNotFound:
			doc.Seq = s.nextSeq
			s.nextSeq++
		default:
			return fmt.Errorf("read document %s: %w", doc.ID, err)
		}

		record := storedDocument{Key: key, Collection: s.collection, Document: doc}
		if err := s.store.Upsert(key, &record); err != nil {
			return fmt.Errorf("upsert document %s: %w", doc.ID, err)
		}
	}

	return s.rebuildIndexLocked()
}

func (s *BadgerStore) Query(ctx context.Context, query string, topK int) ([]Passage, error) {
	passages, err := s.query(query, topK)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StoreQueries.WithLabelValues(status).Inc()
	return passages, err
}

func (s *BadgerStore) query(query string, topK int) ([]Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 || len(s.docs) == 0 {
		return nil, nil
	}

	queryVec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, errs.NewStoreQueryFailedError(err)
	}

	scores := make([]float64, len(s.docs))
	if isZeroVector(queryVec) {
		// No vocabulary overlap with the corpus; fall back to raw token
		// overlap so retrieval still produces something ranked.
		queryTokens := s.embedder.tokenize(query)
		for i, doc := range s.docs {
			scores[i] = lexicalOverlap(queryTokens, s.embedder.tokenize(doc.Text))
		}
	} else {
		for i := range s.vectors {
			scores[i] = dot(s.vectors[i], queryVec)
		}
	}

	order := make([]int, len(s.docs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return s.docs[order[a]].Seq < s.docs[order[b]].Seq
	})

	if topK > len(order) {
		topK = len(order)
	}
	passages := make([]Passage, 0, topK)
	for _, idx := range order[:topK] {
		passages = append(passages, Passage{
			Text:     s.docs[idx].Text,
			SourceID: s.docs[idx].SourceID,
			Score:    scores[idx],
		})
	}
	return passages, nil
}

func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

func (s *BadgerStore) Close() error {
	return s.store.Close()
}

func (s *BadgerStore) key(id string) string {
	return s.collection + "/" + id
}

func (s *BadgerStore) rebuildIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildIndexLocked()
}

func (s *BadgerStore) rebuildIndexLocked() error {
	var records []storedDocument
	err := s.store.Find(&records, badgerhold.Where("Collection").Eq(s.collection))
	if err != nil {
		return fmt.Errorf("load collection %s: %w", s.collection, err)
	}

	docs := make([]Document, len(records))
	for i, record := range records {
		docs[i] = record.Document
	}
	sort.Slice(docs, func(a, b int) bool { return docs[a].Seq < docs[b].Seq })

	s.docs = docs
	s.vectors = nil
	s.nextSeq = 0
	if len(docs) > 0 {
		s.nextSeq = docs[len(docs)-1].Seq + 1
	}
	s.embedder = NewEmbedder()
	if len(docs) == 0 {
		return nil
	}

	corpus := make([]string, len(docs))
	for i, doc := range docs {
		corpus[i] = doc.Text
	}
	if err := s.embedder.Prepare(corpus); err != nil {
		return fmt.Errorf("prepare index: %w", err)
	}

	s.vectors = make([][]float64, len(docs))
	for i, doc := range docs {
		vec, err := s.embedder.Embed(doc.Text)
		if err != nil {
			return fmt.Errorf("embed document %s: %w", doc.ID, err)
		}
		s.vectors[i] = vec
	}
	return nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func isZeroVector(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

// lexicalOverlap scores by the share of query tokens present in the text.
func lexicalOverlap(queryTokens, textTokens []string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(textTokens))
	for _, tok := range textTokens {
		set[tok] = struct{}{}
	}
	matched := 0
	for _, tok := range queryTokens {
		if _, ok := set[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}
