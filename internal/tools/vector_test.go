package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	documents []Document
	err       error
	gotQuery  string
	gotK      int
}

func (f *fakeSearcher) SimilaritySearch(_ context.Context, query string, k int) ([]Document, error) {
	f.gotQuery = query
	f.gotK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.documents, nil
}

func TestDocumentSearch_RendersResults(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{documents: []Document{
		{
			Content:  "Dental implants are covered at 50% after deductible.",
			Metadata: map[string]any{"source": "gold-plan.pdf", "page": 12},
		},
		{
			Content:  "Orthodontic treatment requires prior authorization.",
			Metadata: map[string]any{"source": "gold-plan.pdf"},
		},
		{
			Content: "General exclusions apply.",
		},
	}}

	tool := NewDocumentSearchTool(searcher, 4)
	result, err := tool.Execute(context.Background(), "dental implants")
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "dental implants", searcher.gotQuery)
	assert.Equal(t, 4, searcher.gotK)

	assert.Contains(t, result.Content, "Search results for: dental implants")
	assert.Contains(t, result.Content, "Result 1:\nDental implants are covered at 50% after deductible.")
	assert.Contains(t, result.Content, "Source: gold-plan.pdf")
	assert.Contains(t, result.Content, "Page: 12")
	assert.Contains(t, result.Content, "Result 2:\nOrthodontic treatment requires prior authorization.")
	assert.Contains(t, result.Content, "Result 3:\nGeneral exclusions apply.")
	// Only one result has a page.
	assert.Equal(t, 1, strings.Count(result.Content, "Page:"))
	// The metadata-less result has no source line.
	assert.Equal(t, 2, strings.Count(result.Content, "Source:"))
}

func TestDocumentSearch_NoResults(t *testing.T) {
	t.Parallel()

	tool := NewDocumentSearchTool(&fakeSearcher{}, 4)
	result, err := tool.Execute(context.Background(), "dental implants")
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.Equal(t, "No relevant documents found for query: dental implants", result.Content)
}

func TestDocumentSearch_BackendError(t *testing.T) {
	t.Parallel()

	tool := NewDocumentSearchTool(&fakeSearcher{err: errors.New("index unavailable")}, 4)
	result, err := tool.Execute(context.Background(), "dental implants")
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "Error searching documents: index unavailable")
}

func TestDocumentSearch_DefaultTopK(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{}
	tool := NewDocumentSearchTool(searcher, 0)
	_, err := tool.Execute(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, defaultTopK, searcher.gotK)
}
