package medrag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/supermax01/medrag/vecstore"
)

// InsufficientContextAnswer is returned verbatim when no usable context was
// retrieved. The prompt instructs the model to produce the same sentence
// when the retrieved context does not cover the question.
const InsufficientContextAnswer = "I don't have enough information to answer this question."

const promptHeader = `You are a knowledgeable medical assistant providing accurate information based on medical literature.
Answer the user's question using ONLY the provided context.

Guidelines:
- Base the answer exclusively on the context below.
- If the context does not fully cover the question, acknowledge the limitation.
- If the context does not contain the answer, reply exactly: "` + InsufficientContextAnswer + `"
- Be concise but thorough, and explain complex medical terms.
- Do not include information that is not supported by the context.
- Do not reference the context itself in the answer.`

// BuildPrompt assembles the grounded prompt from the question and the
// retrieved segments in ranked order. Pure, so it is testable without a
// model backend.
func BuildPrompt(question string, matches []vecstore.Match) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nContext:\n")
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.Text)
	}
	b.WriteString("\n\nAnswer:")

	return b.String()
}

// Synthesizer turns a question and its retrieved context into a grounded,
// cited answer.
type Synthesizer struct {
	log *slog.Logger
	gen Generator
}

func NewSynthesizer(log *slog.Logger, gen Generator) *Synthesizer {
	return &Synthesizer{log: log, gen: gen}
}

// Answer invokes the generative model once. Empty context never reaches the
// model: it yields the stock insufficient-information answer with no cited
// sources. A backend failure is surfaced, not retried.
func (s *Synthesizer) Answer(ctx context.Context, question string, matches []vecstore.Match) (Answer, error) {
	if len(matches) == 0 {
		s.log.Info("no usable context, declining to answer", "question", question)
		return Answer{Text: InsufficientContextAnswer}, nil
	}

	text, err := s.gen.Generate(ctx, BuildPrompt(question, matches))
	if err != nil {
		return Answer{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	return Answer{
		Text:     strings.TrimSpace(text),
		Sources:  distinctSources(matches),
		Grounded: true,
	}, nil
}

func distinctSources(matches []vecstore.Match) []string {
	seen := make(map[string]struct{}, len(matches))
	sources := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.Source]; ok {
			continue
		}
		seen[m.Source] = struct{}{}
		sources = append(sources, m.Source)
	}

	return sources
}
