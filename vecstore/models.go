package vecstore

import "errors"

// ErrUnavailable marks transport failures against the index backend. An
// empty index is not unavailable, it just yields no matches.
var ErrUnavailable = errors.New("vector index unavailable")

// Entry is one indexed segment: its identifier, provenance metadata and
// embedding vector.
type Entry struct {
	ID     string
	Source string
	Seq    int
	Crc    uint32
	Text   string
	Vector []float32
}

// Match is one similarity-query hit. Score is cosine similarity, higher is
// closer.
type Match struct {
	ID     string
	Source string
	Seq    int
	Text   string
	Score  float32
}
