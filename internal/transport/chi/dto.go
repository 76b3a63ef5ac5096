package chi

import (
	"time"

	"github.com/gradlink/profmatch/internal/domain"
	registrationuc "github.com/gradlink/profmatch/internal/usecase/registration"
)

type profileJSON struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id,omitempty"`
	Name              string    `json:"name"`
	Title             string    `json:"title,omitempty"`
	Department        string    `json:"department,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	ResearchInterests []string  `json:"research_interests,omitempty"`
	ExpertiseAreas    []string  `json:"expertise_areas,omitempty"`
	Education         string    `json:"education,omitempty"`
	Publications      string    `json:"publications,omitempty"`
	ContactEmail      string    `json:"contact_email,omitempty"`
	IsComplete        bool      `json:"is_complete"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func profileToJSON(p domain.Profile) profileJSON {
	return profileJSON{
		ID:                p.ID,
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
		IsComplete:        p.IsComplete,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

type matchJSON struct {
	Professor       profileJSON `json:"professor"`
	SimilarityScore float64     `json:"similarity_score"`
	MatchPercentage float64     `json:"match_percentage"`
	Analysis        *string     `json:"analysis"`
}

func matchToJSON(m domain.Match) matchJSON {
	item := matchJSON{
		Professor:       profileToJSON(m.Profile),
		SimilarityScore: m.Score,
		MatchPercentage: m.Percentage,
	}
	if m.RationaleOK {
		analysis := m.Rationale
		item.Analysis = &analysis
	}
	return item
}

type registrationJSON struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	ProfessorID string    `json:"professor_id"`
	DocumentID  string    `json:"document_id"`
	Priority    int       `json:"priority"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func registrationToJSON(reg domain.Registration) registrationJSON {
	return registrationJSON{
		ID:          reg.ID,
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

// enrichedRegistrationJSON adds display fields for listings; every enrichment
// field is best-effort and may be absent.
type enrichedRegistrationJSON struct {
	registrationJSON
	ProfessorName       string `json:"professor_name,omitempty"`
	ProfessorTitle      string `json:"professor_title,omitempty"`
	ProfessorDepartment string `json:"professor_department,omitempty"`
	ProfessorEmail      string `json:"professor_email,omitempty"`
	DocumentFilename    string `json:"document_filename,omitempty"`
}

func enrichedToJSON(e registrationuc.Enriched) enrichedRegistrationJSON {
	return enrichedRegistrationJSON{
		registrationJSON:    registrationToJSON(e.Registration),
		ProfessorName:       e.ProfessorName,
		ProfessorTitle:      e.ProfessorTitle,
		ProfessorDepartment: e.ProfessorDepartment,
		ProfessorEmail:      e.ProfessorEmail,
		DocumentFilename:    e.DocumentFilename,
	}
}

type notificationJSON struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	Type                  string    `json:"type"`
	Title                 string    `json:"title"`
	Message               string    `json:"message"`
	RelatedUserID         string    `json:"related_user_id,omitempty"`
	RelatedRegistrationID string    `json:"related_registration_id,omitempty"`
	RelatedDocumentID     string    `json:"related_document_id,omitempty"`
	Read                  bool      `json:"read"`
	CreatedAt             time.Time `json:"created_at"`
}

func notificationToJSON(n domain.Notification) notificationJSON {
	return notificationJSON{
		ID:                    n.ID,
		UserID:                n.UserID,
		Type:                  n.Type,
		Title:                 n.Title,
		Message:               n.Message,
		RelatedUserID:         n.RelatedUserID,
		RelatedRegistrationID: n.RelatedRegistrationID,
		RelatedDocumentID:     n.RelatedDocumentID,
		Read:                  n.Read,
		CreatedAt:             n.CreatedAt,
	}
}
