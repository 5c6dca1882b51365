package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocTypeJockeyLicence  DocumentType = "jockey_licence"
	DocTypeTrainerLicence DocumentType = "trainer_licence"
)

type DocumentStatus string

const (
	DocStatusPending  DocumentStatus = "pending"
	DocStatusApproved DocumentStatus = "approved"
	DocStatusRejected DocumentStatus = "rejected"
)

// VerificationDocument records the licence evidence uploaded at signup.
// Only the storage key is kept here; the file itself lives in object storage.
type VerificationDocument struct {
	ID         int            `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	DocType    DocumentType   `json:"doc_type"`
	StorageKey string         `json:"-"`
	URL        string         `json:"url,omitempty"`
	Status     DocumentStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}
