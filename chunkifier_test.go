package medrag

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Chunkify(t *testing.T) {
	var cases = []struct {
		input   string
		size    int
		overlap int
		output  []string
	}{
		{input: "abcdefg", size: 3, overlap: 0, output: []string{"abc", "def", "g"}},
		{input: "abcdefg", size: 3, overlap: 1, output: []string{"abc", "cde", "efg"}},
		{input: "abcdefg", size: 9, overlap: 5, output: []string{"abcdefg"}},
		{input: "", size: 9, overlap: 5, output: []string{}},
		{input: "αβγδεζη", size: 3, overlap: 1, output: []string{"αβγ", "γδε", "εζη"}},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			chunkifier, err := NewDefaultChunkifier(c.size, c.overlap)
			require.NoError(t, err)

			segments := chunkifier.Chunkify(Document{Source: "doc.pdf", Text: c.input})

			texts := make([]string, 0, len(segments))
			for i, s := range segments {
				assert.Equal(t, "doc.pdf", s.Source)
				assert.Equal(t, i, s.Seq)
				texts = append(texts, s.Text)
			}
			assert.Equal(t, c.output, texts)
		})
	}
}

func Test_Chunkify_InvalidConfig(t *testing.T) {
	var cases = []struct {
		size    int
		overlap int
	}{
		{size: 3, overlap: 3},
		{size: 3, overlap: 5},
		{size: 0, overlap: 0},
		{size: 5, overlap: -1},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			_, err := NewDefaultChunkifier(c.size, c.overlap)
			assert.ErrorIs(t, err, ErrInvalidChunkConfig)
		})
	}
}

func Test_Chunkify_Deterministic(t *testing.T) {
	chunkifier, err := NewDefaultChunkifier(40, 8)
	require.NoError(t, err)

	doc := Document{
		Source: "diabetes.pdf",
		Text:   strings.Repeat("Diabetes is a chronic metabolic disorder. ", 20),
	}

	first := chunkifier.Chunkify(doc)
	second := chunkifier.Chunkify(doc)
	assert.Equal(t, first, second)
}

func Test_Chunkify_MultiByteRunes(t *testing.T) {
	const size, overlap = 10, 2
	chunkifier, err := NewDefaultChunkifier(size, overlap)
	require.NoError(t, err)

	doc := Document{
		Source: "grußwort.txt",
		Text:   strings.Repeat("Blutzuckermessgerät für Diabetes — 血糖値 ", 6),
	}

	segments := chunkifier.Chunkify(doc)
	require.NotEmpty(t, segments)

	for _, s := range segments {
		assert.True(t, utf8.ValidString(s.Text))
		assert.LessOrEqual(t, utf8.RuneCountInString(s.Text), size)
	}

	var rebuilt []rune
	rebuilt = append(rebuilt, []rune(segments[0].Text)...)
	for _, s := range segments[1:] {
		rebuilt = append(rebuilt, []rune(s.Text)[overlap:]...)
	}
	assert.Equal(t, doc.Text, string(rebuilt))
}

func Test_Chunkify_CoversFullText(t *testing.T) {
	const size, overlap = 50, 10
	chunkifier, err := NewDefaultChunkifier(size, overlap)
	require.NoError(t, err)

	doc := Document{
		Source: "anatomy.pdf",
		Text:   strings.Repeat("The human heart has four chambers. ", 17),
	}

	segments := chunkifier.Chunkify(doc)
	require.NotEmpty(t, segments)

	// Dropping each segment's leading overlap reconstructs the original text.
	var rebuilt strings.Builder
	rebuilt.WriteString(segments[0].Text)
	for _, s := range segments[1:] {
		rebuilt.WriteString(s.Text[overlap:])
	}
	assert.Equal(t, doc.Text, rebuilt.String())

	for _, s := range segments {
		assert.LessOrEqual(t, len(s.Text), size)
	}
}
