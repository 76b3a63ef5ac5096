package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gradlink/profmatch/internal/domain"
)

// notificationDTO is the JSON shape stored in Redis. read is a string tag
// ("true"/"false") so the FT index can filter on it.
type notificationDTO struct {
	UserID                string    `json:"user_id"`
	Type                  string    `json:"type"`
	Title                 string    `json:"title"`
	Message               string    `json:"message"`
	RelatedUserID         string    `json:"related_user_id,omitempty"`
	RelatedRegistrationID string    `json:"related_registration_id,omitempty"`
	RelatedDocumentID     string    `json:"related_document_id,omitempty"`
	Read                  string    `json:"read"`
	CreatedAt             time.Time `json:"created_at"`
}

func toDTO(n *domain.Notification) notificationDTO {
	read := "false"
	if n.Read {
		read = "true"
	}
	return notificationDTO{
		UserID:                n.UserID,
		Type:                  n.Type,
		Title:                 n.Title,
		Message:               n.Message,
		RelatedUserID:         n.RelatedUserID,
		RelatedRegistrationID: n.RelatedRegistrationID,
		RelatedDocumentID:     n.RelatedDocumentID,
		Read:                  read,
		CreatedAt:             n.CreatedAt,
	}
}

func parseNotification(id string, raw []byte) (domain.Notification, error) {
	var dtos []notificationDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		var dto notificationDTO
		if err2 := json.Unmarshal(raw, &dto); err2 != nil {
			return domain.Notification{}, fmt.Errorf("unmarshal notification %s: %w", id, err)
		}
		return fromDTO(id, dto), nil
	}
	if len(dtos) == 0 {
		return domain.Notification{}, fmt.Errorf("empty notification document %s", id)
	}
	return fromDTO(id, dtos[0]), nil
}

func fromDTO(id string, dto notificationDTO) domain.Notification {
	return domain.Notification{
		ID:                    id,
		UserID:                dto.UserID,
		Type:                  dto.Type,
		Title:                 dto.Title,
		Message:               dto.Message,
		RelatedUserID:         dto.RelatedUserID,
		RelatedRegistrationID: dto.RelatedRegistrationID,
		RelatedDocumentID:     dto.RelatedDocumentID,
		Read:                  dto.Read == "true",
		CreatedAt:             dto.CreatedAt,
	}
}
