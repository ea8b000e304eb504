package medrag

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"log/slog"
	"path/filepath"
)

var ErrNoDocuments = errors.New("no readable documents in corpus directory")

type FileReader interface {
	CanRead(path string) bool
	ReadText(path string) (string, error)
}

// CorpusLoader walks a corpus directory and extracts plain text from every
// file one of its readers understands. A file that fails extraction is
// reported as a warning and skipped, it never aborts the rest of the corpus.
type CorpusLoader struct {
	log     *slog.Logger
	readers []FileReader
}

func NewCorpusLoader(log *slog.Logger, readers ...FileReader) *CorpusLoader {
	return &CorpusLoader{log: log, readers: readers}
}

func (l *CorpusLoader) Load(root string) (docs []Document, warnings []string, err error) {
	eligible := 0

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		reader := l.findReader(path)
		if reader == nil {
			l.log.Warn("unsupported file", "path", path)
			return nil
		}
		eligible++

		text, e := reader.ReadText(path)
		if e != nil {
			w := fmt.Sprintf("failed to extract %s: %s", path, e)
			l.log.Warn("document skipped", "path", path, "error", e)
			warnings = append(warnings, w)
			return nil
		}

		docs = append(docs, Document{
			Source: path,
			Text:   text,
			Crc:    crc32.Checksum([]byte(text), crc32.IEEETable),
		})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk corpus directory %s: %w", root, err)
	}

	if eligible == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoDocuments, root)
	}

	return docs, warnings, nil
}

func (l *CorpusLoader) findReader(path string) FileReader {
	for _, r := range l.readers {
		if r.CanRead(path) {
			return r
		}
	}

	return nil
}
