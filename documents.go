package medrag

import "fmt"

// Document is a single corpus file after text extraction. It only lives
// until it has been chunked.
type Document struct {
	Source string
	Text   string
	Crc    uint32
}

// Segment is the retrieval unit: a bounded slice of one document.
type Segment struct {
	Source string
	Seq    int
	Text   string
}

// ID derives the index identifier for this segment. Re-ingesting the same
// source produces the same IDs, which gives upserts replace-on-conflict
// semantics.
func (s Segment) ID() string {
	return fmt.Sprintf("%s#%d", s.Source, s.Seq)
}

// Answer is the result of a single question. Grounded is false when no
// usable context was found and the text is the stock insufficient-information
// reply rather than model output.
type Answer struct {
	Text     string
	Sources  []string
	Grounded bool
}

// IngestionReport summarizes one Ingest run over the corpus directory.
type IngestionReport struct {
	DocumentsProcessed int
	DocumentsSkipped   int
	DocumentsUnchanged int
	DocumentsRemoved   int
	SegmentsIndexed    int
	Warnings           []string
}
