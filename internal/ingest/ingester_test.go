package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-assistant/internal/common/config"
	"travel-assistant/internal/common/logger"
	"travel-assistant/internal/vectorstore"
)

type captureStore struct {
	docs []vectorstore.Document
}

func (s *captureStore) Upsert(ctx context.Context, docs []vectorstore.Document) error {
	s.docs = append(s.docs, docs...)
	return nil
}

func (s *captureStore) Query(ctx context.Context, query string, topK int) ([]vectorstore.Passage, error) {
	return nil, nil
}

func (s *captureStore) Count(ctx context.Context) (int, error) { return len(s.docs), nil }
func (s *captureStore) Close() error                           { return nil }

func TestSentenceChunker_Chunk(t *testing.T) {
	c := NewSentenceChunker(2, 1)
	chunks := c.Chunk("One. Two. Three. Four.")

	require.Len(t, chunks, 3)
	assert.Equal(t, "One. Two.", chunks[0].Text)
	assert.Equal(t, "Two. Three.", chunks[1].Text)
	assert.Equal(t, "Three. Four.", chunks[2].Text)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
	}
}

func TestSentenceChunker_NoTerminators(t *testing.T) {
	c := NewSentenceChunker(3, 1)
	chunks := c.Chunk("just a fragment without punctuation")
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a fragment without punctuation", chunks[0].Text)
}

func TestSentenceChunker_BlankContent(t *testing.T) {
	c := NewSentenceChunker(3, 1)
	assert.Empty(t, c.Chunk("   \n  "))
}

func TestSentenceChunker_OverlapBoundedBelowWindow(t *testing.T) {
	// Overlap equal to the window would never advance.
	c := NewSentenceChunker(2, 5)
	chunks := c.Chunk("One. Two. Three. Four. Five. Six.")
	assert.NotEmpty(t, chunks)
	assert.Less(t, len(chunks), 20)
}

func TestIngester_IngestDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_visas.txt"),
		[]byte("Schengen visas cover 27 countries. Apply early."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_paris.txt"),
		[]byte("Paris has world-class museums. The Louvre is the largest."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"),
		[]byte("ignored"), 0o644))

	store := &captureStore{}
	ing := New(store, config.IngestConfig{SentencesPerChunk: 5, OverlapSentences: 1}, logger.NewTestLogger(t))

	n, err := ing.IngestDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, store.docs, 2)

	// Files load in lexical order with stable chunk IDs.
	assert.Equal(t, "a_paris.txt:0", store.docs[0].ID)
	assert.Equal(t, "a_paris.txt", store.docs[0].SourceID)
	assert.Equal(t, "b_visas.txt:0", store.docs[1].ID)
	assert.Equal(t, map[string]string{"file": "b_visas.txt"}, store.docs[1].Metadata)
}

func TestIngester_IngestFile_StableIDsOnReingest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte("First fact. Second fact. Third fact."), 0o644))

	store := &captureStore{}
	ing := New(store, config.IngestConfig{SentencesPerChunk: 1, OverlapSentences: 0}, logger.NewTestLogger(t))

	_, err := ing.IngestFile(context.Background(), path)
	require.NoError(t, err)
	firstIDs := make([]string, len(store.docs))
	for i, doc := range store.docs {
		firstIDs[i] = doc.ID
	}

	store.docs = nil
	_, err = ing.IngestFile(context.Background(), path)
	require.NoError(t, err)
	for i, doc := range store.docs {
		assert.Equal(t, firstIDs[i], doc.ID)
	}
}
