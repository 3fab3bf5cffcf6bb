package tools

import (
	"context"
	"fmt"
	"strings"
)

// Document is one retrieved chunk from the document store.
type Document struct {
	Content  string
	Metadata map[string]any
}

// DocumentSearcher is the boundary to the vector-search backend.
type DocumentSearcher interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]Document, error)
}

const defaultTopK = 4

// DocumentSearchTool retrieves the k nearest document chunks for a
// query and renders them as a numbered textual report.
type DocumentSearchTool struct {
	searcher DocumentSearcher
	topK     int
}

func NewDocumentSearchTool(searcher DocumentSearcher, topK int) *DocumentSearchTool {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &DocumentSearchTool{
		searcher: searcher,
		topK:     topK,
	}
}

func (t *DocumentSearchTool) Name() string {
	return "search_insurance_documents"
}

func (t *DocumentSearchTool) Description() string {
	return "Search for information in insurance documents using semantic search. Input is free text; returns the most relevant document excerpts."
}

func (t *DocumentSearchTool) Execute(ctx context.Context, input string) (Result, error) {
	query := strings.TrimSpace(input)

	documents, err := t.searcher.SimilaritySearch(ctx, query, t.topK)
	if err != nil {
		return errorResult("Error searching documents: %v", err), nil
	}

	if len(documents) == 0 {
		return Result{Content: fmt.Sprintf("No relevant documents found for query: %s", query)}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for: %s\n\n", query)

	for i, doc := range documents {
		fmt.Fprintf(&b, "Result %d:\n", i+1)
		fmt.Fprintf(&b, "%s\n", doc.Content)
		if len(doc.Metadata) > 0 {
			fmt.Fprintf(&b, "Source: %s\n", metaString(doc.Metadata, "source", "Unknown"))
			if page, ok := doc.Metadata["page"]; ok {
				fmt.Fprintf(&b, "Page: %v\n", page)
			}
		}
		b.WriteString("\n")
	}

	return Result{Content: b.String()}, nil
}

// metaString reads a metadata value as a string with a fallback.
func metaString(metadata map[string]any, key, fallback string) string {
	if v, ok := metadata[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return fallback
}
