package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHybridSearch_CombinesBothSections(t *testing.T) {
	t.Parallel()

	graph := staticTool{name: "search_insurance_knowledge_graph", result: Result{Content: "Benefit: Dental Care"}}
	docs := staticTool{name: "search_insurance_documents", result: Result{Content: "Result 1:\nImplants covered at 50%."}}

	tool := NewHybridSearchTool(graph, docs)
	result, err := tool.Execute(context.Background(), "dental")
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Contains(t, result.Content, "Hybrid search results for: dental")
	assert.Contains(t, result.Content, "Graph Database Results:")
	assert.Contains(t, result.Content, "Benefit: Dental Care")
	assert.Contains(t, result.Content, "Document Search Results:")
	assert.Contains(t, result.Content, "Implants covered at 50%.")

	// Graph section comes first.
	graphIdx := strings.Index(result.Content, "Graph Database Results:")
	docIdx := strings.Index(result.Content, "Document Search Results:")
	assert.Less(t, graphIdx, docIdx)
}

func TestHybridSearch_InheritsSubToolErrors(t *testing.T) {
	t.Parallel()

	graph := staticTool{name: "search_insurance_knowledge_graph", result: Result{Content: "No results found for query: dental"}}
	docs := staticTool{
		name:   "search_insurance_documents",
		result: Result{Content: "Error searching documents: index unavailable", IsError: true},
	}

	tool := NewHybridSearchTool(graph, docs)
	result, err := tool.Execute(context.Background(), "dental")
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "No results found for query: dental")
	assert.Contains(t, result.Content, "Error searching documents: index unavailable")
}

func TestHybridSearch_SubToolHardFailureIsAbsorbed(t *testing.T) {
	t.Parallel()

	graph := staticTool{name: "search_insurance_knowledge_graph", err: errors.New("panic-adjacent failure")}
	docs := staticTool{name: "search_insurance_documents", result: Result{Content: "docs fine"}}

	tool := NewHybridSearchTool(graph, docs)
	result, err := tool.Execute(context.Background(), "dental")
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "Error running search_insurance_knowledge_graph")
	assert.Contains(t, result.Content, "docs fine")
}
