package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrProfileNotFound signals a missing professor profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrRegistrationNotFound signals a missing registration.
	ErrRegistrationNotFound = errors.New("registration not found")
	// ErrUserNotFound signals a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccessDenied signals that the caller may not act on the resource.
	ErrAccessDenied = errors.New("access denied")

	// ErrDuplicateRegistration signals that the student already has a registration
	// for the document, regardless of target professor.
	ErrDuplicateRegistration = errors.New("student already has a registration for this document")
	// ErrQuotaExceeded signals that the professor already supervises the maximum
	// number of accepted students.
	ErrQuotaExceeded = errors.New("professor accept quota exceeded")
	// ErrInvalidStatus signals an unknown registration status value.
	ErrInvalidStatus = errors.New("invalid registration status")
	// ErrInvalidRole signals a user role that cannot perform the operation.
	ErrInvalidRole = errors.New("invalid user role")

	// ErrInvalidTopK signals a top_k outside the allowed range in a match request.
	ErrInvalidTopK = errors.New("invalid top_k")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
