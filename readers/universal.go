package readers

import (
	"fmt"
	"path/filepath"

	"code.sajari.com/docconv/v2"
)

// UniversalReader covers the remaining office formats docconv understands.
type UniversalReader struct{}

func (r *UniversalReader) CanRead(path string) bool {
	switch filepath.Ext(path) {
	case ".docx", ".odt", ".rtf", ".xml", ".html":
		return true
	}
	return false
}

func (r *UniversalReader) ReadText(path string) (string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract document text: %w", err)
	}

	return res.Body, nil
}
