package models

import (
	"time"

	"github.com/google/uuid"
)

// ProfileRole matches the role ENUM in the database.
type ProfileRole string

const (
	RoleJockey  ProfileRole = "jockey"
	RoleTrainer ProfileRole = "trainer"
	RoleOwner   ProfileRole = "owner"
	RoleAdmin   ProfileRole = "admin"
)

// ProfileStatus matches the status ENUM in the database.
type ProfileStatus string

const (
	StatusPending  ProfileStatus = "pending"
	StatusApproved ProfileStatus = "approved"
	StatusViewOnly ProfileStatus = "approved_viewonly"
	StatusRejected ProfileStatus = "rejected"
)

// NeedsVerification reports whether the role is gated behind admin approval.
func (r ProfileRole) NeedsVerification() bool {
	return r == RoleJockey || r == RoleTrainer
}

type Profile struct {
	ID           uuid.UUID     `json:"id"`
	FullName     string        `json:"full_name"`
	Role         ProfileRole   `json:"role"`
	Status       ProfileStatus `json:"status"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone,omitempty"`
	PasswordHash string        `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ProfileSnapshot is the denormalized subset embedded in read-side responses.
type ProfileSnapshot struct {
	ID       uuid.UUID     `json:"id"`
	FullName string        `json:"full_name"`
	Role     ProfileRole   `json:"role"`
	Status   ProfileStatus `json:"status"`
}

func (p *Profile) Snapshot() *ProfileSnapshot {
	if p == nil {
		return nil
	}
	return &ProfileSnapshot{ID: p.ID, FullName: p.FullName, Role: p.Role, Status: p.Status}
}
