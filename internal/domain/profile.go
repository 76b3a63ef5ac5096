package domain

import (
	"strings"
	"time"
)

// Profile is a professor profile used for matching. ProfileText and IsComplete are
// derived fields, recomputed on every save so they never go stale relative to the
// content fields (the corpus embedding may lag until the next refresh).
type Profile struct {
	ID                string
	UserID            string
	Name              string
	Title             string
	Department        string
	Bio               string
	ResearchInterests []string
	ExpertiseAreas    []string
	Education         string
	Publications      string
	ContactEmail      string
	ProfileText       string
	IsComplete        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RenderText is the single canonical rendering of a profile into embedding text.
// Field order is fixed; empty fields are skipped.
func (p *Profile) RenderText() string {
	parts := make([]string, 0, 8)

	if p.Name != "" {
		parts = append(parts, "Name: "+p.Name)
	}
	if p.Title != "" {
		parts = append(parts, "Title: "+p.Title)
	}
	if p.Department != "" {
		parts = append(parts, "Department: "+p.Department)
	}
	if p.Bio != "" {
		parts = append(parts, "Bio: "+p.Bio)
	}
	if len(p.ResearchInterests) > 0 {
		parts = append(parts, "Research interests: "+strings.Join(p.ResearchInterests, ", "))
	}
	if len(p.ExpertiseAreas) > 0 {
		parts = append(parts, "Expertise: "+strings.Join(p.ExpertiseAreas, ", "))
	}
	if p.Education != "" {
		parts = append(parts, "Education: "+p.Education)
	}
	if p.Publications != "" {
		parts = append(parts, "Publications: "+p.Publications)
	}

	return strings.Join(parts, "\n")
}

// Complete reports whether the profile carries enough content to be indexed:
// name, title and department, plus at least one of research interests,
// expertise areas or bio.
func (p *Profile) Complete() bool {
	hasBasics := p.Name != "" && p.Title != "" && p.Department != ""
	hasContent := len(p.ResearchInterests) > 0 || len(p.ExpertiseAreas) > 0 || p.Bio != ""
	return hasBasics && hasContent
}

// Summary renders a short profile description for rationale prompts.
func (p *Profile) Summary() string {
	return p.RenderText()
}
