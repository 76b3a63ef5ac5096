package chi

import (
	"encoding/json"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"

	profileuc "github.com/gradlink/profmatch/internal/usecase/profile"
)

type createRegistrationRequest struct {
	ProfessorID string `json:"professor_id"`
	DocumentID  string `json:"document_id"`
	Priority    *int   `json:"priority"`
	Notes       string `json:"notes"`
}

// createRegistration handles POST /api/registrations.
func (s *Server) createRegistration(w http.ResponseWriter, r *http.Request) {
	var req createRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ProfessorID == "" || req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"professor_id and document_id are required")
		return
	}

	priority := 1
	if req.Priority != nil {
		priority = *req.Priority
	}

	result, err := s.registrations.Create(
		r.Context(), UserID(r.Context()), req.ProfessorID, req.DocumentID, priority, req.Notes)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":           true,
		"registration":      registrationToJSON(result.Registration),
		"notification_sent": result.NotificationSent,
	})
}

// listRegistrations handles GET /api/registrations.
func (s *Server) listRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := s.registrations.ListForUser(r.Context(), UserID(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]enrichedRegistrationJSON, len(regs))
	for i, reg := range regs {
		items[i] = enrichedToJSON(reg)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"registrations": items,
		"total":         len(items),
	})
}

// getRegistration handles GET /api/registrations/{id}.
func (s *Server) getRegistration(w http.ResponseWriter, r *http.Request) {
	reg, err := s.registrations.Get(r.Context(), chirouter.URLParam(r, "id"), UserID(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, registrationToJSON(reg))
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// updateRegistrationStatus handles PUT /api/registrations/{id}/status.
func (s *Server) updateRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.registrations.UpdateStatus(
		r.Context(), chirouter.URLParam(r, "id"), req.Status, UserID(r.Context()), req.Notes, req.Reason)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"registration":      registrationToJSON(result.Registration),
		"notification_sent": result.NotificationSent,
	})
}

// deleteRegistration handles DELETE /api/registrations/{id}.
func (s *Server) deleteRegistration(w http.ResponseWriter, r *http.Request) {
	if err := s.registrations.Delete(r.Context(), chirouter.URLParam(r, "id"), UserID(r.Context())); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getMyProfile handles GET /api/profiles/me.
func (s *Server) getMyProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.GetMine(r.Context(), UserID(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileToJSON(p))
}

// getProfile handles GET /api/profiles/{id}.
func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.GetByID(r.Context(), chirouter.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileToJSON(p))
}

type upsertProfileRequest struct {
	Name              string   `json:"name"`
	Title             string   `json:"title"`
	Department        string   `json:"department"`
	Bio               string   `json:"bio"`
	ResearchInterests []string `json:"research_interests"`
	ExpertiseAreas    []string `json:"expertise_areas"`
	Education         string   `json:"education"`
	Publications      string   `json:"publications"`
	ContactEmail      string   `json:"contact_email"`
}

// upsertMyProfile handles PUT /api/profiles/me.
func (s *Server) upsertMyProfile(w http.ResponseWriter, r *http.Request) {
	var req upsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "name is required")
		return
	}

	p, err := s.profiles.Upsert(r.Context(), UserID(r.Context()), profileuc.Input{
		Name:              req.Name,
		Title:             req.Title,
		Department:        req.Department,
		Bio:               req.Bio,
		ResearchInterests: req.ResearchInterests,
		ExpertiseAreas:    req.ExpertiseAreas,
		Education:         req.Education,
		Publications:      req.Publications,
		ContactEmail:      req.ContactEmail,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileToJSON(p))
}

// deleteMyProfile handles DELETE /api/profiles/me.
func (s *Server) deleteMyProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.DeleteMine(r.Context(), UserID(r.Context())); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listNotifications handles GET /api/notifications.
func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	notifs, err := s.notifications.ListByUser(r.Context(), UserID(r.Context()), unreadOnly)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	unread := 0
	items := make([]notificationJSON, len(notifs))
	for i, n := range notifs {
		items[i] = notificationToJSON(n)
		if !n.Read {
			unread++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": items,
		"unread_count":  unread,
		"total":         len(items),
	})
}

// unreadCount handles GET /api/notifications/unread-count.
func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	notifs, err := s.notifications.ListByUser(r.Context(), UserID(r.Context()), true)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"unread_count": len(notifs)})
}

// markNotificationRead handles POST /api/notifications/{id}/read.
func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifications.MarkRead(r.Context(), chirouter.URLParam(r, "id"), UserID(r.Context())); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// markAllRead handles POST /api/notifications/read-all.
func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())

	notifs, err := s.notifications.ListByUser(r.Context(), userID, true)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	marked := 0
	for _, n := range notifs {
		if err := s.notifications.MarkRead(r.Context(), n.ID, userID); err != nil {
			s.handleDomainError(w, err)
			return
		}
		marked++
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "marked": marked})
}

// deleteNotification handles DELETE /api/notifications/{id}. Ownership is
// checked by scanning the caller's inbox, matching the MarkRead semantics.
func (s *Server) deleteNotification(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	id := chirouter.URLParam(r, "id")

	notifs, err := s.notifications.ListByUser(r.Context(), userID, false)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	owned := false
	for _, n := range notifs {
		if n.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		writeError(w, http.StatusNotFound, codeNotFound, "notification not found")
		return
	}

	if err := s.notifications.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
