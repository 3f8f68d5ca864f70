package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"admissions-chatbot-be/internal/entity"
	"admissions-chatbot-be/internal/pkg/logger"
	"admissions-chatbot-be/internal/repository/contract"

	"github.com/google/uuid"
)

// ContactRepository keeps contact requests in memory. Development only;
// requests are lost on restart.
type ContactRepository struct {
	mu       sync.Mutex
	requests []*entity.ContactRequest
	log      logger.ILogger
}

func NewContactRepository(log logger.ILogger) contract.ContactRepository {
	return &ContactRepository{log: log}
}

func (r *ContactRepository) Save(_ context.Context, request *entity.ContactRequest) (string, error) {
	if request.Id == uuid.Nil {
		request.Id = uuid.New()
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	refID := "REQ-" + strings.ToUpper(strings.ReplaceAll(request.Id.String(), "-", "")[:8])

	r.mu.Lock()
	r.requests = append(r.requests, request)
	r.mu.Unlock()

	r.log.Info("ContactRepository", "contact request stored in memory", map[string]interface{}{
		"reference_id": refID,
	})
	return refID, nil
}
