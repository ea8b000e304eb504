package medrag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supermax01/medrag/vecstore"
)

// VectorIndex is the external similarity store. It is independently
// synchronized: the pipeline holds no lock of its own around it, and
// interleaved upserts and queries are allowed.
type VectorIndex interface {
	Upsert(ctx context.Context, entries []vecstore.Entry) error
	Query(ctx context.Context, vector []float32, k int) ([]vecstore.Match, error)
	Sources(ctx context.Context) (map[string]uint32, error)
	RemoveSource(ctx context.Context, source string) error
}

// Embedder maps text into the index's vector space. Indexing and querying
// must go through the same implementation.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator submits a prompt to the model backend and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pipeline is the retrieval-augmented answer core: Ingest builds the index
// from a corpus directory, Ask answers one question against it.
type Pipeline struct {
	log         *slog.Logger
	loader      *CorpusLoader
	chunkifier  Chunkifier
	embedder    Embedder
	index       VectorIndex
	retriever   *Retriever
	synthesizer *Synthesizer
	workers     int
}

func NewPipeline(log *slog.Logger, loader *CorpusLoader, chunkifier Chunkifier,
	embedder Embedder, index VectorIndex, gen Generator, cfg *Config) *Pipeline {
	return &Pipeline{
		log:         log,
		loader:      loader,
		chunkifier:  chunkifier,
		embedder:    embedder,
		index:       index,
		retriever:   NewRetriever(log, embedder, index, cfg.Results, cfg.MinScore),
		synthesizer: NewSynthesizer(log, gen),
		workers:     cfg.IngestWorkers,
	}
}

// Ingest synchronizes the index with the corpus directory. Unchanged
// documents (same content checksum) are left alone, changed and new ones
// are re-chunked, re-embedded and upserted, and entries of documents no
// longer on disk are removed. Safe to re-run: identifiers are stable, so a
// rebuild replaces rather than duplicates.
func (p *Pipeline) Ingest(ctx context.Context, root string) (IngestionReport, error) {
	var report IngestionReport

	docs, warnings, err := p.loader.Load(root)
	if err != nil {
		return report, err
	}
	report.Warnings = warnings
	report.DocumentsSkipped = len(warnings)

	indexed, err := p.index.Sources(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list indexed sources: %w", err)
	}

	var pending []Document
	onDisk := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		onDisk[doc.Source] = struct{}{}
		crc, ok := indexed[doc.Source]
		if ok && crc == doc.Crc {
			report.DocumentsUnchanged++
			continue
		}
		if ok {
			// A changed document may chunk into fewer segments than
			// before. Drop its old entries first so no high-sequence
			// segment outlives the re-ingest.
			if err := p.index.RemoveSource(ctx, doc.Source); err != nil {
				return report, fmt.Errorf("failed to remove outdated entries for %s: %w", doc.Source, err)
			}
		}
		pending = append(pending, doc)
	}

	for source := range indexed {
		if _, ok := onDisk[source]; ok {
			continue
		}
		if err := p.index.RemoveSource(ctx, source); err != nil {
			return report, fmt.Errorf("failed to remove vanished source %s: %w", source, err)
		}
		report.DocumentsRemoved++
		p.log.Info("removed vanished document", "source", source)
	}

	type docResult struct {
		source   string
		segments int
		err      error
	}

	sem := make(chan struct{}, p.workers)
	results := make(chan docResult, len(pending))
	for _, doc := range pending {
		sem <- struct{}{}
		go func(d Document) {
			defer func() { <-sem }()
			n, err := p.ingestDocument(ctx, d)
			results <- docResult{source: d.Source, segments: n, err: err}
		}(doc)
	}

	var firstErr error
	for range pending {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to ingest %s: %w", r.source, r.err)
			}
			continue
		}
		report.DocumentsProcessed++
		report.SegmentsIndexed += r.segments
	}
	if firstErr != nil {
		return report, firstErr
	}

	p.log.Info("corpus ingested",
		"processed", report.DocumentsProcessed,
		"unchanged", report.DocumentsUnchanged,
		"skipped", report.DocumentsSkipped,
		"removed", report.DocumentsRemoved,
		"segments", report.SegmentsIndexed)

	return report, nil
}

func (p *Pipeline) ingestDocument(ctx context.Context, doc Document) (int, error) {
	segments := p.chunkifier.Chunkify(doc)
	if len(segments) == 0 {
		return 0, nil
	}

	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}

	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(segments) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d segments", len(vectors), len(segments))
	}

	entries := make([]vecstore.Entry, 0, len(segments))
	for i, s := range segments {
		entries = append(entries, vecstore.Entry{
			ID:     s.ID(),
			Source: s.Source,
			Seq:    s.Seq,
			Crc:    doc.Crc,
			Text:   s.Text,
			Vector: vectors[i],
		})
	}

	if err := p.index.Upsert(ctx, entries); err != nil {
		return 0, err
	}

	return len(entries), nil
}

// Ask answers a single question end to end: embed, retrieve, synthesize.
// Backend failures surface to the caller, nothing is retried here.
func (p *Pipeline) Ask(ctx context.Context, question string) (Answer, error) {
	matches, err := p.retriever.Retrieve(ctx, question)
	if err != nil {
		return Answer{}, err
	}

	p.log.Debug("retrieved context",
		"question", question,
		"matches", len(matches),
		"sources", distinctSources(matches))

	return p.synthesizer.Answer(ctx, question, matches)
}
