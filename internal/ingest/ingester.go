package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"travel-assistant/internal/common/config"
	"travel-assistant/internal/common/logger"
	"travel-assistant/internal/vectorstore"
)

// Ingester chunks knowledge files and writes them to the semantic store.
// Chunk IDs are derived from the file name and chunk index, so re-running
// an ingest replaces the previous content instead of duplicating it.
type Ingester struct {
	store   vectorstore.Store
	chunker *SentenceChunker
	logger  logger.Logger
}

func New(store vectorstore.Store, cfg config.IngestConfig, log logger.Logger) *Ingester {
	return &Ingester{
		store:   store,
		chunker: NewSentenceChunker(cfg.SentencesPerChunk, cfg.OverlapSentences),
		logger:  log.With(map[string]interface{}{"component": "ingest"}),
	}
}

// IngestDir loads every .txt file under dir, in lexical order, and returns
// the number of chunks written.
func (i *Ingester) IngestDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	total := 0
	for _, name := range files {
		n, err := i.IngestFile(ctx, filepath.Join(dir, name))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// IngestFile loads one file and returns the number of chunks written.
func (i *Ingester) IngestFile(ctx context.Context, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	chunks := i.chunker.Chunk(string(content))
	if len(chunks) == 0 {
		i.logger.Warn("file produced no chunks", map[string]interface{}{"file": name})
		return 0, nil
	}

	docs := make([]vectorstore.Document, len(chunks))
	for idx, chunk := range chunks {
		docs[idx] = vectorstore.Document{
			ID:       name + ":" + strconv.Itoa(chunk.Index),
			Text:     chunk.Text,
			SourceID: name,
			Metadata: map[string]string{"file": name},
		}
	}
	if err := i.store.Upsert(ctx, docs); err != nil {
		return 0, fmt.Errorf("ingest %s: %w", name, err)
	}

	i.logger.Info("file ingested", map[string]interface{}{
		"file":   name,
		"chunks": len(docs),
	})
	return len(docs), nil
}
