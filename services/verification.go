package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/racedaynz/jockeyfinder/models"
	"github.com/racedaynz/jockeyfinder/repositories"
)

// VerificationGate resolves a caller to their profile and answers the
// role/status predicates every mutating operation consults. It holds no
// state beyond the profile repository; all predicates are pure.
type VerificationGate struct {
	profileRepo repositories.ProfileRepository
}

func NewVerificationGate(profileRepo repositories.ProfileRepository) *VerificationGate {
	return &VerificationGate{profileRepo: profileRepo}
}

// ResolveCaller loads the caller's profile. Every dependent operation fails
// with ErrProfileNotFound when no profile exists for the id.
func (g *VerificationGate) ResolveCaller(ctx context.Context, callerID uuid.UUID) (*models.Profile, error) {
	profile, err := g.profileRepo.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to resolve caller %s: %w", callerID, err)
	}
	return profile, nil
}

// CanActAsVerified reports whether the profile may perform verified-gated
// actions: jockeys and trainers need status approved, every other role
// passes (owners are still barred from mutations by the owner check in
// each mutating operation).
func CanActAsVerified(role models.ProfileRole, status models.ProfileStatus) bool {
	if role.NeedsVerification() {
		return status == models.StatusApproved
	}
	return true
}

func IsApprovedTrainer(role models.ProfileRole, status models.ProfileStatus) bool {
	return role == models.RoleTrainer && status == models.StatusApproved
}

func IsApprovedJockey(role models.ProfileRole, status models.ProfileStatus) bool {
	return role == models.RoleJockey && status == models.StatusApproved
}
