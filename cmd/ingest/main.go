package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"admissions-chatbot-be/internal/config"
	"admissions-chatbot-be/internal/model"
	"admissions-chatbot-be/pkg/database"
	"admissions-chatbot-be/pkg/embedding"
	"admissions-chatbot-be/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/pgvector/pgvector-go"
)

const (
	chunkSize    = 1500
	chunkOverlap = 200
)

// Re-ingesting the same source replaces its previous chunks, so the knowledge
// base can be refreshed per source without wiping the whole table.
func main() {
	var (
		dir    = flag.String("dir", "", "directory of .txt/.md files to ingest")
		source = flag.String("source", "", "source label stored with every chunk (e.g. cutoffs_2024, brochure)")
		year   = flag.Int("year", 0, "admission year the documents describe (0 when not year-specific)")
	)
	flag.Parse()

	if *dir == "" || *source == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	embedder := embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.EmbeddingModel)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Error: Failed to read directory %s: %v", *dir, err)
	}

	if err := db.Where("source = ?", *source).Delete(&model.DocumentChunk{}).Error; err != nil {
		log.Fatalf("Error: Failed to clear previous chunks for source %s: %v", *source, err)
	}

	var total int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warn: Skipping %s: %v", path, err)
			continue
		}

		text := strings.TrimSpace(string(raw))
		if text == "" {
			continue
		}

		chunks := utils.SplitText(text, chunkSize, chunkOverlap)
		log.Printf("Ingesting %s (%d chunks)...", entry.Name(), len(chunks))

		for i, chunk := range chunks {
			resp, err := embedder.Generate(chunk, "RETRIEVAL_DOCUMENT")
			if err != nil {
				log.Fatalf("Error: Embedding failed for %s chunk %d: %v", entry.Name(), i, err)
			}

			record := model.DocumentChunk{
				Document:       chunk,
				EmbeddingValue: pgvector.NewVector(resp.Embedding.Values),
				Source:         *source,
				Filename:       entry.Name(),
				Year:           *year,
				ChunkIndex:     i,
			}
			if err := db.Create(&record).Error; err != nil {
				log.Fatalf("Error: Insert failed for %s chunk %d: %v", entry.Name(), i, err)
			}
			total++
		}
	}

	fmt.Println("Success: ingested " + strconv.Itoa(total) + " chunks from " + *dir)
}
