package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/racedaynz/jockeyfinder/models"
	"github.com/racedaynz/jockeyfinder/repositories"
	"github.com/racedaynz/jockeyfinder/storage"
)

const minPasswordLength = 6

type RegisterInput struct {
	FullName string
	Role     models.ProfileRole
	Phone    string
	Email    string
	Password string
	// Licence is required for jockeys and trainers, ignored for owners.
	Licence *LicenceUpload
}

type LicenceUpload struct {
	FileName    string
	ContentType string
	Data        io.Reader
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Profile, error)
	Login(ctx context.Context, input LoginInput) (*models.Profile, error)
}

type authService struct {
	profileRepo  repositories.ProfileRepository
	documentRepo repositories.VerificationDocumentRepository
	uploader     storage.FileUploader
	logger       *slog.Logger
}

func NewAuthService(
	profileRepo repositories.ProfileRepository,
	documentRepo repositories.VerificationDocumentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) AuthService {
	return &authService{
		profileRepo:  profileRepo,
		documentRepo: documentRepo,
		uploader:     uploader,
		logger:       logger,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.Profile, error) {
	switch input.Role {
	case models.RoleJockey, models.RoleTrainer, models.RoleOwner:
	default:
		// Admin accounts are provisioned out of band, never via signup.
		return nil, fmt.Errorf("%w: role must be jockey, trainer or owner", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Role.NeedsVerification() && input.Licence == nil {
		return nil, ErrLicenceFileRequired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	status := models.StatusViewOnly
	if input.Role.NeedsVerification() {
		status = models.StatusPending
	}

	profile := &models.Profile{
		ID:           uuid.New(),
		FullName:     input.FullName,
		Role:         input.Role,
		Status:       status,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hashedPassword),
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrProfileEmailConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if input.Role.NeedsVerification() {
		if err := s.storeLicence(ctx, profile, input.Licence); err != nil {
			// The account exists but is unverifiable until the licence is
			// re-submitted; surface the failure rather than hide it.
			return nil, err
		}
	}

	profile.PasswordHash = ""
	return profile, nil
}

func (s *authService) storeLicence(ctx context.Context, profile *models.Profile, licence *LicenceUpload) error {
	ext := filepath.Ext(licence.FileName)
	key := fmt.Sprintf("verification/%s/%d%s", profile.ID, time.Now().UnixNano(), ext)

	result, err := s.uploader.Upload(ctx, key, licence.ContentType, licence.Data)
	if err != nil {
		return fmt.Errorf("failed to upload licence: %w", err)
	}

	docType := models.DocTypeJockeyLicence
	if profile.Role == models.RoleTrainer {
		docType = models.DocTypeTrainerLicence
	}

	doc := &models.VerificationDocument{
		UserID:     profile.ID,
		DocType:    docType,
		StorageKey: result.Key,
		Status:     models.DocStatusPending,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		// Best effort: do not leave an orphaned object behind.
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.Error("failed to delete orphaned licence upload",
				slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return fmt.Errorf("failed to record verification document: %w", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find profile by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}
