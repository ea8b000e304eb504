package vecstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// Memory is an in-process store implementing the same contract as
// ChromaStore. It backs tests and offline runs. Ranking is deterministic:
// equal scores keep insertion order.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
	byID    map[string]int
}

func NewMemory() *Memory {
	return &Memory{byID: make(map[string]int)}
}

func (m *Memory) Upsert(ctx context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if i, ok := m.byID[e.ID]; ok {
			m.entries[i] = e
			continue
		}

		m.byID[e.ID] = len(m.entries)
		m.entries = append(m.entries, e)
	}

	return nil
}

func (m *Memory) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Match, 0, len(m.entries))
	for _, e := range m.entries {
		matches = append(matches, Match{
			ID:     e.ID,
			Source: e.Source,
			Seq:    e.Seq,
			Text:   e.Text,
			Score:  CosineSimilarity(vector, e.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k < len(matches) {
		matches = matches[:k]
	}

	return matches, nil
}

func (m *Memory) Sources(ctx context.Context) (map[string]uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sources := make(map[string]uint32)
	for _, e := range m.entries {
		sources[e.Source] = e.Crc
	}

	return sources, nil
}

func (m *Memory) RemoveSource(ctx context.Context, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.Source != source {
			kept = append(kept, e)
		}
	}
	m.entries = kept

	m.byID = make(map[string]int, len(m.entries))
	for i, e := range m.entries {
		m.byID[e.ID] = i
	}

	return nil
}

// CosineSimilarity is 1 for identical direction, 0 for orthogonal or
// mismatched vectors.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
