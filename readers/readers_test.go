package readers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PdfReader_CanRead(t *testing.T) {
	r := PdfReader{}
	assert.True(t, r.CanRead("corpus/medical_book.pdf"))
	assert.False(t, r.CanRead("corpus/medical_book.txt"))
}

func Test_TextReader_CanRead(t *testing.T) {
	r := TextReader{}
	assert.True(t, r.CanRead("corpus/notes.txt"))
	assert.True(t, r.CanRead("corpus/notes.md"))
	assert.False(t, r.CanRead("corpus/notes.pdf"))
}

func Test_UniversalReader_CanRead(t *testing.T) {
	r := UniversalReader{}
	assert.True(t, r.CanRead("corpus/report.docx"))
	assert.True(t, r.CanRead("corpus/report.odt"))
	assert.False(t, r.CanRead("corpus/report.pdf"))
	assert.False(t, r.CanRead("corpus/report.bin"))
}

func Test_TextReader_ReadText(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Diabetes symptoms include thirst."), 0o644))

	r := TextReader{}
	txt, err := r.ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "Diabetes symptoms include thirst.", txt)
}

func Test_TextReader_ReadText_Missing(t *testing.T) {
	r := TextReader{}
	_, err := r.ReadText("does/not/exist.txt")
	assert.Error(t, err)
}
