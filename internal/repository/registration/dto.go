package registration

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gradlink/profmatch/internal/domain"
)

// registrationDTO is the JSON shape stored in Redis. status is indexed as a
// tag, so it stays a plain string.
type registrationDTO struct {
	StudentID   string    `json:"student_id"`
	ProfessorID string    `json:"professor_id"`
	DocumentID  string    `json:"document_id"`
	Priority    int       `json:"priority"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDTO(reg *domain.Registration) registrationDTO {
	return registrationDTO{
		StudentID:   reg.StudentID,
		ProfessorID: reg.ProfessorID,
		DocumentID:  reg.DocumentID,
		Priority:    reg.Priority,
		Status:      string(reg.Status),
		Notes:       reg.Notes,
		CreatedAt:   reg.CreatedAt,
		UpdatedAt:   reg.UpdatedAt,
	}
}

// parseRegistration decodes a JSON.GET result. JSONPath "$" wraps the document
// in a single-element array.
func parseRegistration(id string, raw []byte) (domain.Registration, error) {
	var dtos []registrationDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		var dto registrationDTO
		if err2 := json.Unmarshal(raw, &dto); err2 != nil {
			return domain.Registration{}, fmt.Errorf("unmarshal registration %s: %w", id, err)
		}
		return fromDTO(id, dto), nil
	}
	if len(dtos) == 0 {
		return domain.Registration{}, fmt.Errorf("empty registration document %s", id)
	}
	return fromDTO(id, dtos[0]), nil
}

func fromDTO(id string, dto registrationDTO) domain.Registration {
	return domain.Registration{
		ID:          id,
		StudentID:   dto.StudentID,
		ProfessorID: dto.ProfessorID,
		DocumentID:  dto.DocumentID,
		Priority:    dto.Priority,
		Status:      domain.Status(dto.Status),
		Notes:       dto.Notes,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	}
}
