package contract

import (
	"context"

	"admissions-chatbot-be/internal/entity"
)

// ContactRepository persists admission-team callback requests and returns a
// human-readable reference ID for the submission.
type ContactRepository interface {
	Save(ctx context.Context, request *entity.ContactRequest) (refID string, err error)
}
