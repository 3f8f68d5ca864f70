package rag

import (
	"context"
	"strings"

	"admissions-chatbot-be/internal/model"
	"admissions-chatbot-be/internal/pkg/logger"
	"admissions-chatbot-be/pkg/embedding"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Chunk is a retrieved knowledge-base fragment with its similarity score.
type Chunk struct {
	Text     string
	Score    float64
	Source   string
	Filename string
	Year     int
}

// RetrieveResult bundles the scored chunks with a ready-to-prompt context block.
type RetrieveResult struct {
	Chunks      []Chunk
	ContextText string
}

type Retriever struct {
	db       *gorm.DB
	embedder embedding.EmbeddingProvider
	log      logger.ILogger
	topK     int
}

func NewRetriever(db *gorm.DB, embedder embedding.EmbeddingProvider, log logger.ILogger, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		db:       db,
		embedder: embedder,
		log:      log,
		topK:     topK,
	}
}

// Retrieve embeds the query and runs a cosine-distance search over document_chunks.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) (*RetrieveResult, error) {
	if topK <= 0 {
		topK = r.topK
	}

	resp, err := r.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Embedding.Values) == 0 {
		return &RetrieveResult{}, nil
	}
	queryVector := pgvector.NewVector(resp.Embedding.Values)

	// Cosine distance in pgvector is 1 - cosine_similarity,
	// so similarity = 1 - (embedding_value <=> query_vector).
	type row struct {
		model.DocumentChunk
		Similarity float64
	}
	var rows []row

	err = r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("document_chunks.deleted_at IS NULL").
		Order("similarity DESC").
		Limit(topK).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, 0, len(rows))
	for _, res := range rows {
		chunks = append(chunks, Chunk{
			Text:     res.Document,
			Score:    res.Similarity,
			Source:   res.Source,
			Filename: res.Filename,
			Year:     res.Year,
		})
	}

	return &RetrieveResult{
		Chunks:      chunks,
		ContextText: buildContextText(chunks),
	}, nil
}

// RetrieveAsync runs Retrieve in a goroutine and delivers the result on a channel,
// so the caller can overlap retrieval with other per-request work.
func (r *Retriever) RetrieveAsync(ctx context.Context, query string, topK int) <-chan RetrieveOutcome {
	out := make(chan RetrieveOutcome, 1)
	go func() {
		defer close(out)
		result, err := r.Retrieve(ctx, query, topK)
		if err != nil {
			r.log.Warn("rag", "async retrieval failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		out <- RetrieveOutcome{Result: result, Err: err}
	}()
	return out
}

type RetrieveOutcome struct {
	Result *RetrieveResult
	Err    error
}

func buildContextText(chunks []Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, c := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// Sources returns the distinct source labels of the retrieved chunks, in rank order.
func (res *RetrieveResult) Sources() []string {
	seen := make(map[string]bool)
	var sources []string
	for _, c := range res.Chunks {
		label := c.Source
		if label == "" {
			label = c.Filename
		}
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		sources = append(sources, label)
	}
	return sources
}
