package tools

import (
	"context"
	"fmt"
	"strings"
)

// HybridSearchTool runs the graph search and the document search
// sequentially (graph first) and concatenates both reports under
// labeled headers. It inherits both sub-tools' failure-swallowing
// behavior: an error report from either side flows into the combined
// text, with IsError set for observability.
type HybridSearchTool struct {
	graph     Tool
	documents Tool
}

func NewHybridSearchTool(graph, documents Tool) *HybridSearchTool {
	return &HybridSearchTool{
		graph:     graph,
		documents: documents,
	}
}

func (t *HybridSearchTool) Name() string {
	return "hybrid_search"
}

func (t *HybridSearchTool) Description() string {
	return "Perform a combined search using both the knowledge graph and document search. Input is free text."
}

func (t *HybridSearchTool) Execute(ctx context.Context, input string) (Result, error) {
	query := strings.TrimSpace(input)

	graphResult := t.runSubTool(ctx, t.graph, query)
	docResult := t.runSubTool(ctx, t.documents, query)

	var b strings.Builder
	fmt.Fprintf(&b, "Hybrid search results for: %s\n\n", query)

	b.WriteString("Graph Database Results:\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	b.WriteString(graphResult.Content + "\n\n")

	b.WriteString("Document Search Results:\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	b.WriteString(docResult.Content)

	return Result{
		Content: b.String(),
		IsError: graphResult.IsError || docResult.IsError,
	}, nil
}

func (t *HybridSearchTool) runSubTool(ctx context.Context, tool Tool, query string) Result {
	result, err := tool.Execute(ctx, query)
	if err != nil {
		return errorResult("Error running %s: %v", tool.Name(), err)
	}
	return result
}
