package profile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gradlink/profmatch/internal/domain"
)

// profileDTO is the JSON shape stored in Redis. is_complete is a string tag
// ("true"/"false") so the FT index can filter on it.
type profileDTO struct {
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	Title             string    `json:"title"`
	Department        string    `json:"department"`
	Bio               string    `json:"bio,omitempty"`
	ResearchInterests []string  `json:"research_interests,omitempty"`
	ExpertiseAreas    []string  `json:"expertise_areas,omitempty"`
	Education         string    `json:"education,omitempty"`
	Publications      string    `json:"publications,omitempty"`
	ContactEmail      string    `json:"contact_email,omitempty"`
	ProfileText       string    `json:"profile_text"`
	IsComplete        string    `json:"is_complete"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toDTO(p *domain.Profile) profileDTO {
	complete := "false"
	if p.IsComplete {
		complete = "true"
	}
	return profileDTO{
		UserID:            p.UserID,
		Name:              p.Name,
		Title:             p.Title,
		Department:        p.Department,
		Bio:               p.Bio,
		ResearchInterests: p.ResearchInterests,
		ExpertiseAreas:    p.ExpertiseAreas,
		Education:         p.Education,
		Publications:      p.Publications,
		ContactEmail:      p.ContactEmail,
		ProfileText:       p.ProfileText,
		IsComplete:        complete,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// parseProfile decodes a JSON.GET result. JSONPath "$" wraps the document in
// a single-element array.
func parseProfile(id string, raw []byte) (domain.Profile, error) {
	var dtos []profileDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		// Plain object (RETURN field from FT.SEARCH may be unwrapped)
		var dto profileDTO
		if err2 := json.Unmarshal(raw, &dto); err2 != nil {
			return domain.Profile{}, fmt.Errorf("unmarshal profile %s: %w", id, err)
		}
		return fromDTO(id, dto), nil
	}
	if len(dtos) == 0 {
		return domain.Profile{}, fmt.Errorf("empty profile document %s", id)
	}
	return fromDTO(id, dtos[0]), nil
}

func fromDTO(id string, dto profileDTO) domain.Profile {
	return domain.Profile{
		ID:                id,
		UserID:            dto.UserID,
		Name:              dto.Name,
		Title:             dto.Title,
		Department:        dto.Department,
		Bio:               dto.Bio,
		ResearchInterests: dto.ResearchInterests,
		ExpertiseAreas:    dto.ExpertiseAreas,
		Education:         dto.Education,
		Publications:      dto.Publications,
		ContactEmail:      dto.ContactEmail,
		ProfileText:       dto.ProfileText,
		IsComplete:        dto.IsComplete == "true",
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
	}
}
