package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	// Missing resources
	ErrProfileNotFound  = errors.New("profile not found")
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrRequestNotFound  = errors.New("ride request not found")
	ErrDocumentNotFound = errors.New("verification document not found")

	// Role and status gates
	ErrOwnerViewOnly      = errors.New("owner accounts are view-only")
	ErrNotApproved        = errors.New("profile must be approved before performing this action")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrInvalidAvailability   = errors.New("invalid availability value")
	ErrInvalidRequestStatus  = errors.New("response status must be accepted or declined")
	ErrInvalidProfileStatus  = errors.New("invalid profile status provided")
	ErrInvalidDocumentStatus = errors.New("document status must be approved or rejected")
	ErrLicenceFileRequired   = errors.New("licence photo is required for jockeys and trainers")
	ErrPasswordTooShort      = errors.New("password must be at least 6 characters")

	// Conflicts
	ErrRequestAlreadyResolved = errors.New("ride request has already been resolved")
	ErrEmailTaken             = errors.New("email address is already in use")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Calendar ingestion
	ErrUpstreamUnavailable = errors.New("calendar service is unreachable")
	ErrUpstreamMalformed   = errors.New("calendar service returned a malformed payload")
	ErrSyncPersistence     = errors.New("failed to persist synced meetings")
)
