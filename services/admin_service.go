package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/racedaynz/jockeyfinder/models"
	"github.com/racedaynz/jockeyfinder/repositories"
	"github.com/racedaynz/jockeyfinder/storage"
)

// PendingVerification pairs a pending profile with the licence evidence
// uploaded for it, ready for an admin to review.
type PendingVerification struct {
	Profile   *models.Profile                `json:"profile"`
	Documents []*models.VerificationDocument `json:"documents"`
}

type AdminService interface {
	ListPendingVerifications(ctx context.Context, callerID uuid.UUID) ([]*PendingVerification, error)
	ReviewProfile(ctx context.Context, callerID, userID uuid.UUID, status models.ProfileStatus) (*models.Profile, error)
	ReviewDocument(ctx context.Context, callerID uuid.UUID, documentID int, status models.DocumentStatus) error
}

type adminService struct {
	gate         *VerificationGate
	profileRepo  repositories.ProfileRepository
	documentRepo repositories.VerificationDocumentRepository
	uploader     storage.FileUploader
	logger       *slog.Logger
}

func NewAdminService(
	gate *VerificationGate,
	profileRepo repositories.ProfileRepository,
	documentRepo repositories.VerificationDocumentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		gate:         gate,
		profileRepo:  profileRepo,
		documentRepo: documentRepo,
		uploader:     uploader,
		logger:       logger,
	}
}

func (s *adminService) requireAdmin(ctx context.Context, callerID uuid.UUID) error {
	caller, err := s.gate.ResolveCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != models.RoleAdmin {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *adminService) ListPendingVerifications(ctx context.Context, callerID uuid.UUID) ([]*PendingVerification, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	profiles, err := s.profileRepo.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending profiles: %w", err)
	}

	pending := make([]*PendingVerification, 0, len(profiles))
	for _, profile := range profiles {
		docs, err := s.documentRepo.ListByUser(ctx, profile.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents for %s: %w", profile.ID, err)
		}
		for _, doc := range docs {
			doc.URL = s.uploader.GetPublicURL(doc.StorageKey)
		}
		pending = append(pending, &PendingVerification{Profile: profile, Documents: docs})
	}
	return pending, nil
}

func (s *adminService) ReviewProfile(ctx context.Context, callerID, userID uuid.UUID, status models.ProfileStatus) (*models.Profile, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	switch status {
	case models.StatusApproved, models.StatusRejected, models.StatusViewOnly:
	default:
		return nil, ErrInvalidProfileStatus
	}

	if err := s.profileRepo.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile status: %w", err)
	}

	s.logger.Info("profile reviewed",
		slog.String("user_id", userID.String()),
		slog.String("status", string(status)),
		slog.String("reviewed_by", callerID.String()))

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload reviewed profile: %w", err)
	}
	return profile, nil
}

func (s *adminService) ReviewDocument(ctx context.Context, callerID uuid.UUID, documentID int, status models.DocumentStatus) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	switch status {
	case models.DocStatusApproved, models.DocStatusRejected:
	default:
		return ErrInvalidDocumentStatus
	}

	if err := s.documentRepo.UpdateStatus(ctx, documentID, status); err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to update document status: %w", err)
	}
	return nil
}
