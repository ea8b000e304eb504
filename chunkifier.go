package medrag

import "errors"

var ErrInvalidChunkConfig = errors.New("chunk overlap must be smaller than chunk size")

type Chunkifier interface {
	Chunkify(doc Document) []Segment
}

// DefaultChunkifier splits text into fixed-size character windows where
// adjacent windows share chunkOverlap characters. Sizes count runes, so
// multi-byte text never gets split mid-character.
type DefaultChunkifier struct {
	chunkSize    int
	chunkOverlap int
}

func NewDefaultChunkifier(size, overlap int) (*DefaultChunkifier, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrInvalidChunkConfig
	}

	return &DefaultChunkifier{chunkSize: size, chunkOverlap: overlap}, nil
}

func (c *DefaultChunkifier) Chunkify(doc Document) []Segment {
	runes := []rune(doc.Text)
	l := len(runes)
	if l == 0 {
		return []Segment{}
	}

	step := c.chunkSize - c.chunkOverlap
	pos := 0
	res := make([]Segment, 0, l/step+1)

	for {
		end := min(pos+c.chunkSize, l)
		res = append(res, Segment{
			Source: doc.Source,
			Seq:    len(res),
			Text:   string(runes[pos:end]),
		})
		if end >= l {
			break
		}

		pos += step
	}

	return res
}
