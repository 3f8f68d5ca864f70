package entity

import (
	"time"

	"github.com/google/uuid"
)

type ContactRequest struct {
	Id        uuid.UUID `firestore:"-"`
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	Phone     string    `firestore:"phone"`
	Programme string    `firestore:"programme"`
	QueryType string    `firestore:"query_type"`
	Message   string    `firestore:"message,omitempty"`
	SessionId string    `firestore:"session_id"`
	Language  string    `firestore:"language"`
	CreatedAt time.Time `firestore:"created_at"`
}
