package docstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/semaphore"

	"github.com/benefitdesk/insurance-assistant/internal/tools"
)

const (
	defaultTopK          = 4
	defaultMaxConcurrent = 8

	// Atlas recommends overfetching candidates for approximate search.
	candidateMultiplier = 10
)

// Config holds the MongoDB Atlas vector store settings.
type Config struct {
	URI           string
	Database      string
	Collection    string
	VectorIndex   string
	TopK          int
	MaxConcurrent int
}

// Store retrieves insurance documents by vector similarity using an
// Atlas Search vector index. Documents carry their text under
// "content", metadata under "metadata" and the embedding under
// "embedding".
type Store struct {
	client      *mongo.Client
	collection  *mongo.Collection
	embedder    Embedder
	vectorIndex string
	topK        int
	sem         *semaphore.Weighted
}

// storedDocument is the persisted document shape.
type storedDocument struct {
	Content   string         `bson:"content"`
	Metadata  map[string]any `bson:"metadata,omitempty"`
	Embedding []float64      `bson:"embedding"`
}

// New connects to MongoDB and returns a Store bound to the configured
// collection.
func New(ctx context.Context, cfg Config, embedder Embedder) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("document store URI is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	return &Store{
		client:      client,
		collection:  client.Database(cfg.Database).Collection(cfg.Collection),
		embedder:    embedder,
		vectorIndex: cfg.VectorIndex,
		topK:        topK,
		sem:         semaphore.NewWeighted(int64(maxConcurrent)),
	}, nil
}

// SimilaritySearch embeds the query and returns the k nearest
// documents. k <= 0 falls back to the configured default.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]tools.Document, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire search slot: %w", err)
	}
	defer s.sem.Release(1)

	if k <= 0 {
		k = s.topK
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: s.vectorIndex},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: k * candidateMultiplier},
			{Key: "limit", Value: k},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "content", Value: 1},
			{Key: "metadata", Value: 1},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []tools.Document
	for cursor.Next(ctx) {
		var stored storedDocument
		if err := cursor.Decode(&stored); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		docs = append(docs, tools.Document{
			Content:  stored.Content,
			Metadata: stored.Metadata,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("vector search iteration failed: %w", err)
	}

	return docs, nil
}

// AddDocuments embeds and persists documents. Used by ingestion
// tooling rather than the chat path.
func (s *Store) AddDocuments(ctx context.Context, docs []tools.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	records := make([]any, len(docs))
	for i, doc := range docs {
		records[i] = storedDocument{
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: vectors[i],
		}
	}

	if _, err := s.collection.InsertMany(ctx, records); err != nil {
		return fmt.Errorf("failed to insert documents: %w", err)
	}
	return nil
}

// Ping verifies connectivity to the document store.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the document store.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
