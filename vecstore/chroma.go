package vecstore

import (
	"context"
	"fmt"
	"slices"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

const (
	FilePath = "file_path"
	FileCrc  = "file_crc"
	ChunkSeq = "chunk_seq"
)

// ChromaStore keeps segment vectors in a Chroma collection created with the
// cosine space. Vectors are always supplied explicitly, the collection never
// embeds on the server side.
type ChromaStore struct {
	col         chroma.Collection
	requestSize int
}

type ChromaStoreConfig struct {
	BaseURL     string
	Collection  string
	RequestSize int
	Reset       bool
}

func NewChromaStore(ctx context.Context, cfg ChromaStoreConfig) (*ChromaStore, error) {
	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	if cfg.Reset {
		// Best effort: the collection may not exist yet. Connectivity
		// problems still surface on the create call below.
		_ = client.DeleteCollection(ctx, cfg.Collection)
	}

	col, err := client.GetOrCreateCollection(ctx, cfg.Collection,
		chroma.WithCollectionMetadataCreate(
			chroma.NewMetadata(chroma.NewStringAttribute("hnsw:space", "cosine")),
		))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	return &ChromaStore{col: col, requestSize: cfg.RequestSize}, nil
}

// Upsert writes entries in requestSize buckets. Identifiers are stable per
// source and sequence index, so re-ingesting a document replaces its prior
// entries.
func (ds *ChromaStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	size := ds.requestSize
	if size <= 0 {
		size = len(entries)
	}

	for bucket := range slices.Chunk(entries, size) {
		ids := make([]chroma.DocumentID, 0, len(bucket))
		texts := make([]string, 0, len(bucket))
		vectors := make([]embeddings.Embedding, 0, len(bucket))
		metadatas := make([]chroma.DocumentMetadata, 0, len(bucket))

		for _, e := range bucket {
			ids = append(ids, chroma.DocumentID(e.ID))
			texts = append(texts, e.Text)
			vectors = append(vectors, embeddings.NewEmbeddingFromFloat32(e.Vector))
			metadatas = append(metadatas, chroma.NewDocumentMetadata(
				chroma.NewStringAttribute(FilePath, e.Source),
				chroma.NewIntAttribute(FileCrc, int64(e.Crc)),
				chroma.NewIntAttribute(ChunkSeq, int64(e.Seq)),
			))
		}

		err := ds.col.Upsert(ctx,
			chroma.WithIDs(ids...),
			chroma.WithTexts(texts...),
			chroma.WithEmbeddings(vectors...),
			chroma.WithMetadatas(metadatas...),
		)
		if err != nil {
			return fmt.Errorf("%w: failed to upsert %d entries: %s", ErrUnavailable, len(bucket), err)
		}
	}

	return nil
}

// Query returns the k nearest entries by cosine similarity. Chroma reports
// cosine distance, converted here so that 1.0 means identical direction.
func (ds *ChromaStore) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	r, err := ds.col.Query(ctx,
		chroma.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chroma.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query collection: %s", ErrUnavailable, err)
	}

	docGroups := r.GetDocumentsGroups()
	if len(docGroups) == 0 {
		return []Match{}, nil
	}

	docs := docGroups[0]
	ids := r.GetIDGroups()[0]
	metadatas := r.GetMetadatasGroups()[0]
	distances := r.GetDistancesGroups()[0]

	res := make([]Match, 0, len(docs))
	for i := range docs {
		file, _ := metadatas[i].GetString(FilePath)
		seq, _ := metadatas[i].GetInt(ChunkSeq)
		res = append(res, Match{
			ID:     string(ids[i]),
			Source: file,
			Seq:    int(seq),
			Text:   docs[i].ContentString(),
			Score:  1 - float32(distances[i]),
		})
	}

	return res, nil
}

// Sources lists every ingested source with its content checksum.
func (ds *ChromaStore) Sources(ctx context.Context) (map[string]uint32, error) {
	res, err := ds.col.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list collection: %s", ErrUnavailable, err)
	}

	sources := make(map[string]uint32)
	for _, meta := range res.GetMetadatas() {
		path, _ := meta.GetString(FilePath)
		crc, _ := meta.GetInt(FileCrc)
		sources[path] = uint32(crc)
	}

	return sources, nil
}

// RemoveSource drops every entry belonging to the given source document.
func (ds *ChromaStore) RemoveSource(ctx context.Context, source string) error {
	err := ds.col.Delete(ctx, chroma.WithWhereDelete(chroma.EqString(FilePath, source)))
	if err != nil {
		return fmt.Errorf("%w: failed to remove %s: %s", ErrUnavailable, source, err)
	}

	return nil
}
