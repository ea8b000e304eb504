package medrag

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type ragCore interface {
	Ask(ctx context.Context, question string) (Answer, error)
	Ingest(ctx context.Context, root string) (IngestionReport, error)
}

// NewRagServer exposes the pipeline's two entry points as MCP tools, the
// surface that chat UIs and other callers integrate against.
func NewRagServer(core ragCore, corpusRoot string, log *slog.Logger) *server.MCPServer {
	srv := server.NewMCPServer("medrag", "0.1.0", server.WithToolCapabilities(false))

	ask := mcp.NewTool("ask",
		mcp.WithDescription("Answer a medical question from the ingested document corpus, with cited sources"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer"),
		))

	srv.AddTool(ask, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		answer, err := core.Ask(ctx, question)
		if err != nil {
			log.Error("ask failed", "question", question, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		raw, err := json.Marshal(struct {
			Answer   string   `json:"answer"`
			Sources  []string `json:"sources"`
			Grounded bool     `json:"grounded"`
		}{
			Answer:   answer.Text,
			Sources:  answer.Sources,
			Grounded: answer.Grounded,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(raw)), nil
	})

	ingest := mcp.NewTool("ingest",
		mcp.WithDescription("Re-synchronize the vector index with the corpus directory"))

	srv.AddTool(ingest, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := core.Ingest(ctx, corpusRoot)
		if err != nil {
			log.Error("ingest failed", "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		raw, err := json.Marshal(struct {
			DocumentsProcessed int      `json:"documents_processed"`
			DocumentsSkipped   int      `json:"documents_skipped"`
			DocumentsUnchanged int      `json:"documents_unchanged"`
			DocumentsRemoved   int      `json:"documents_removed"`
			SegmentsIndexed    int      `json:"segments_indexed"`
			Warnings           []string `json:"warnings"`
		}{
			DocumentsProcessed: report.DocumentsProcessed,
			DocumentsSkipped:   report.DocumentsSkipped,
			DocumentsUnchanged: report.DocumentsUnchanged,
			DocumentsRemoved:   report.DocumentsRemoved,
			SegmentsIndexed:    report.SegmentsIndexed,
			Warnings:           report.Warnings,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(raw)), nil
	})

	return srv
}
