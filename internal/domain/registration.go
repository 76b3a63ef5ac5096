package domain

import (
	"fmt"
	"time"
)

// Status is a registration lifecycle state.
type Status string

const (
	// StatusPending is the initial state of every registration.
	StatusPending Status = "pending"
	// StatusAccepted means the professor accepted the student.
	StatusAccepted Status = "accepted"
	// StatusRejected means the professor rejected the student.
	StatusRejected Status = "rejected"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusAccepted, StatusRejected:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// MaxAcceptedPerProfessor caps how many accepted students a professor profile
// may hold at any time.
const MaxAcceptedPerProfessor = 2

// Registration is a student's request to be supervised by a professor for a
// specific document. ProfessorID is a profile id, not a user id; legacy records
// predating profiles carry the professor's user id instead.
type Registration struct {
	ID          string
	StudentID   string
	ProfessorID string
	DocumentID  string
	Priority    int
	Status      Status
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
