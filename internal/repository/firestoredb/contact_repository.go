package firestoredb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admissions-chatbot-be/internal/entity"
	"admissions-chatbot-be/internal/pkg/logger"
	"admissions-chatbot-be/internal/repository/contract"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

const contactRequestsCollection = "contact_requests"

type ContactRepository struct {
	client *firestore.Client
	log    logger.ILogger
}

func NewContactRepository(client *firestore.Client, log logger.ILogger) contract.ContactRepository {
	return &ContactRepository{
		client: client,
		log:    log,
	}
}

// Save stores the contact request and returns a short reference id that the
// chatbot reads back to the user.
func (r *ContactRepository) Save(ctx context.Context, request *entity.ContactRequest) (string, error) {
	if request.Id == uuid.Nil {
		request.Id = uuid.New()
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	refID := referenceID(request.Id)

	doc := r.client.Collection(contactRequestsCollection).Doc(request.Id.String())
	if _, err := doc.Set(ctx, request); err != nil {
		r.log.Error("ContactRepository", "failed to save contact request", map[string]interface{}{
			"reference_id": refID,
			"error":        err.Error(),
		})
		return "", fmt.Errorf("save contact request: %w", err)
	}

	r.log.Info("ContactRepository", "contact request saved", map[string]interface{}{
		"reference_id": refID,
		"query_type":   request.QueryType,
	})
	return refID, nil
}

// referenceID derives a human-readable ticket id from the document uuid,
// e.g. "REQ-3F2A1B9C".
func referenceID(id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return "REQ-" + strings.ToUpper(hex[:8])
}
