package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/racedaynz/jockeyfinder/models"
)

var (
	ErrDocumentNotFound    = errors.New("verification document not found")
	ErrDocumentUserInvalid = errors.New("verification document user conflict or invalid")
)

type VerificationDocumentRepository interface {
	Create(ctx context.Context, doc *models.VerificationDocument) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.VerificationDocument, error)
	ListByStatus(ctx context.Context, status models.DocumentStatus) ([]*models.VerificationDocument, error)
	UpdateStatus(ctx context.Context, id int, status models.DocumentStatus) error
}

type postgresVerificationDocumentRepository struct {
	db *sql.DB
}

func NewPostgresVerificationDocumentRepository(db *sql.DB) VerificationDocumentRepository {
	return &postgresVerificationDocumentRepository{db: db}
}

func (r *postgresVerificationDocumentRepository) Create(ctx context.Context, doc *models.VerificationDocument) error {
	query := `
		INSERT INTO verification_documents (user_id, doc_type, storage_key, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		doc.UserID,
		doc.DocType,
		doc.StorageKey,
		doc.Status,
	).Scan(&doc.ID, &doc.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "verification_documents_user_id_fkey" {
				return ErrDocumentUserInvalid
			}
		}
		return fmt.Errorf("failed to create verification document: %w", err)
	}
	return nil
}

func (r *postgresVerificationDocumentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.VerificationDocument, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list verification documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.VerificationDocument, 0)
	for rows.Next() {
		var d models.VerificationDocument
		if err := rows.Scan(&d.ID, &d.UserID, &d.DocType, &d.StorageKey, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan verification document row: %w", err)
		}
		docs = append(docs, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating verification document rows: %w", err)
	}
	return docs, nil
}

func (r *postgresVerificationDocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.VerificationDocument, error) {
	query := `SELECT id, user_id, doc_type, storage_key, status, created_at
		FROM verification_documents WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *postgresVerificationDocumentRepository) ListByStatus(ctx context.Context, status models.DocumentStatus) ([]*models.VerificationDocument, error) {
	query := `SELECT id, user_id, doc_type, storage_key, status, created_at
		FROM verification_documents WHERE status = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, status)
}

func (r *postgresVerificationDocumentRepository) UpdateStatus(ctx context.Context, id int, status models.DocumentStatus) error {
	query := `UPDATE verification_documents SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update verification document status: %w", err)
	}
	return checkAffectedRows(result, ErrDocumentNotFound)
}
