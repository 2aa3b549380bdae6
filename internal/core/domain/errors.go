package domain

import "errors"

var (
	ErrIssueNotFound   = errors.New("issue not found")
	ErrAccountNotFound = errors.New("account not found")

	ErrIdentityNotFound = errors.New("identity not found")
	ErrIdentityExists   = errors.New("identity already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidStatus      = errors.New("status not allowed for caller role")
	ErrMissingFields      = errors.New("missing required fields")

	// ErrPartialProvisioning marks the two-step admin-creation failure mode:
	// the identity was created but the profile write failed, and the
	// compensating identity delete may itself have failed.
	ErrPartialProvisioning = errors.New("admin provisioning incomplete")
)
