// Package readers extracts plain text from corpus files. Each reader
// declares which paths it can handle, the loader picks the first match.
package readers

import (
	"fmt"
	"path/filepath"

	"code.sajari.com/docconv/v2"
)

// PdfReader handles the corpus reference format.
type PdfReader struct{}

func (r *PdfReader) CanRead(path string) bool {
	return filepath.Ext(path) == ".pdf"
}

func (r *PdfReader) ReadText(path string) (string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	return res.Body, nil
}
