package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gradlink/profmatch/internal/domain"
)

// Service implements registration admission control: one registration per
// student per document, at most two accepted students per professor.
type Service struct {
	regs     Registrations
	profiles Profiles
	users    Users
	docs     Documents
	notifier Notifier
	logger   *zap.Logger

	// acceptLocks serializes the count-then-accept transition per professor
	// profile id.
	acceptLocks *keyLock
}

// New creates a registration service.
func New(
	regs Registrations,
	profiles Profiles,
	users Users,
	docs Documents,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		regs:        regs,
		profiles:    profiles,
		users:       users,
		docs:        docs,
		notifier:    notifier,
		logger:      logger,
		acceptLocks: newKeyLock(),
	}
}

// CreateResult reports the created registration plus whether the professor
// notification went out. Notification failure never fails the creation.
type CreateResult struct {
	Registration     domain.Registration
	NotificationSent bool
}

// UpdateResult reports the updated registration plus the student notification
// outcome.
type UpdateResult struct {
	Registration     domain.Registration
	NotificationSent bool
}

// Enriched is a registration decorated with display fields for listings.
type Enriched struct {
	domain.Registration
	ProfessorName       string
	ProfessorTitle      string
	ProfessorDepartment string
	ProfessorEmail      string
	DocumentFilename    string
}

// Create registers a student with a professor for one document. A student may
// hold only one registration per document, enforced here and backstopped by
// the uniqueness key in storage.
func (s *Service) Create(
	ctx context.Context, studentID, professorID, documentID string, priority int, notes string,
) (CreateResult, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return CreateResult{}, fmt.Errorf("get student: %w", err)
	}
	if student.Role != domain.RoleStudent {
		return CreateResult{}, fmt.Errorf("%w: only students can register", domain.ErrInvalidRole)
	}

	existing, err := s.regs.ListByStudent(ctx, studentID)
	if err != nil {
		return CreateResult{}, fmt.Errorf("list student registrations: %w", err)
	}
	for _, reg := range existing {
		if reg.DocumentID == documentID {
			return CreateResult{}, domain.ErrDuplicateRegistration
		}
	}

	reg := domain.Registration{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		ProfessorID: professorID,
		DocumentID:  documentID,
		Priority:    priority,
		Status:      domain.StatusPending,
		Notes:       notes,
	}
	if err := s.regs.Create(ctx, &reg); err != nil {
		return CreateResult{}, fmt.Errorf("create registration: %w", err)
	}

	sent := s.notifyProfessor(ctx, &reg, student)
	return CreateResult{Registration: reg, NotificationSent: sent}, nil
}

// UpdateStatus transitions a registration to the given status. Only the
// professor owning the target profile may call it; accepting is capped at
// MaxAcceptedPerProfessor, counted under a per-profile lock. Re-accepting an
// already accepted registration is idempotent.
func (s *Service) UpdateStatus(
	ctx context.Context, regID, rawStatus, actorUserID, notes, reason string,
) (UpdateResult, error) {
	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return UpdateResult{}, err
	}

	reg, err := s.regs.GetByID(ctx, regID)
	if err != nil {
		return UpdateResult{}, err
	}

	if !s.ownsRegistration(ctx, &reg, actorUserID) {
		return UpdateResult{}, fmt.Errorf("%w: only the professor can update status", domain.ErrAccessDenied)
	}

	if status == domain.StatusAccepted {
		lock := s.acceptLocks.get(reg.ProfessorID)
		lock.Lock()
		defer lock.Unlock()

		accepted, err := s.regs.CountAccepted(ctx, reg.ProfessorID)
		if err != nil {
			return UpdateResult{}, fmt.Errorf("count accepted: %w", err)
		}
		// An already accepted registration counts itself; re-accepting it
		// must not trip the quota.
		if reg.Status == domain.StatusAccepted {
			accepted--
		}
		if accepted >= domain.MaxAcceptedPerProfessor {
			return UpdateResult{}, domain.ErrQuotaExceeded
		}
	}

	combined := combineNotes(notes, reason)
	if err := s.regs.UpdateStatus(ctx, regID, status, combined); err != nil {
		return UpdateResult{}, fmt.Errorf("update status: %w", err)
	}

	reg.Status = status
	reg.Notes = combined

	sent := false
	if status == domain.StatusAccepted || status == domain.StatusRejected {
		sent = s.notifyStudent(ctx, &reg, status)
	}
	return UpdateResult{Registration: reg, NotificationSent: sent}, nil
}

// Get returns a registration visible to the actor: the owning student or the
// professor behind the target profile.
func (s *Service) Get(ctx context.Context, regID, actorUserID string) (domain.Registration, error) {
	reg, err := s.regs.GetByID(ctx, regID)
	if err != nil {
		return domain.Registration{}, err
	}

	if reg.StudentID == actorUserID || s.ownsRegistration(ctx, &reg, actorUserID) {
		return reg, nil
	}
	return domain.Registration{}, domain.ErrAccessDenied
}

// Delete removes a registration. Only the owning student may delete it, which
// also releases the (student, document) uniqueness claim.
func (s *Service) Delete(ctx context.Context, regID, actorUserID string) error {
	reg, err := s.regs.GetByID(ctx, regID)
	if err != nil {
		return err
	}
	if reg.StudentID != actorUserID {
		return domain.ErrAccessDenied
	}
	return s.regs.Delete(ctx, &reg)
}

// ListForUser returns the actor's registrations, role-aware: students see
// their own, professors see registrations targeting their profile (falling
// back to legacy records keyed by their user id).
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Enriched, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var regs []domain.Registration
	switch user.Role {
	case domain.RoleStudent:
		regs, err = s.regs.ListByStudent(ctx, userID)
	case domain.RoleProfessor:
		regs, err = s.listForProfessor(ctx, userID)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, user.Role)
	}
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	enriched := make([]Enriched, len(regs))
	for i := range regs {
		enriched[i] = s.enrich(ctx, regs[i])
	}
	return enriched, nil
}

func (s *Service) listForProfessor(ctx context.Context, userID string) ([]domain.Registration, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			// Legacy records carry the professor's user id directly.
			return s.regs.ListByProfessor(ctx, userID)
		}
		return nil, err
	}
	return s.regs.ListByProfessor(ctx, profile.ID)
}

// ownsRegistration reports whether the actor is the professor behind the
// registration's target profile. Only professor accounts qualify; legacy
// registrations predating profiles are matched by user id.
func (s *Service) ownsRegistration(ctx context.Context, reg *domain.Registration, actorUserID string) bool {
	actor, err := s.users.GetByID(ctx, actorUserID)
	if err != nil {
		s.logger.Warn("User lookup failed during access check",
			zap.String("user_id", actorUserID), zap.Error(err))
		return false
	}
	if actor.Role != domain.RoleProfessor {
		return false
	}

	profile, err := s.profiles.GetByUserID(ctx, actorUserID)
	if err == nil {
		return reg.ProfessorID == profile.ID
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		s.logger.Warn("Profile lookup failed during access check",
			zap.String("user_id", actorUserID), zap.Error(err))
	}
	return reg.ProfessorID == actorUserID
}

// enrich decorates a registration with professor and document display fields.
// Every lookup is best-effort; a listing never fails on missing references.
func (s *Service) enrich(ctx context.Context, reg domain.Registration) Enriched {
	e := Enriched{Registration: reg}

	profile, err := s.profiles.GetByID(ctx, reg.ProfessorID)
	if err == nil {
		e.ProfessorName = profile.Name
		e.ProfessorTitle = profile.Title
		e.ProfessorDepartment = profile.Department
		e.ProfessorEmail = profile.ContactEmail
		if e.ProfessorEmail == "" && profile.UserID != "" {
			if owner, err := s.users.GetByID(ctx, profile.UserID); err == nil {
				e.ProfessorEmail = owner.Email
			}
		}
	}

	if doc, err := s.docs.GetByID(ctx, reg.DocumentID); err == nil {
		e.DocumentFilename = doc.Filename
	}
	return e
}

func (s *Service) notifyProfessor(ctx context.Context, reg *domain.Registration, student domain.User) bool {
	targetUserID := reg.ProfessorID
	if profile, err := s.profiles.GetByID(ctx, reg.ProfessorID); err == nil && profile.UserID != "" {
		targetUserID = profile.UserID
	}

	studentName := student.Name
	if studentName == "" {
		studentName = "Một học sinh"
	}
	documentName := "tài liệu"
	if doc, err := s.docs.GetByID(ctx, reg.DocumentID); err == nil && doc.Filename != "" {
		documentName = doc.Filename
	}

	n := domain.Notification{
		ID:                    uuid.NewString(),
		UserID:                targetUserID,
		Type:                  domain.NotificationRegistrationRequest,
		Title:                 "Có học sinh đăng ký hướng dẫn",
		Message:               fmt.Sprintf("%s đã đăng ký hướng dẫn với tài liệu '%s'", studentName, documentName),
		RelatedUserID:         reg.StudentID,
		RelatedRegistrationID: reg.ID,
		RelatedDocumentID:     reg.DocumentID,
	}
	if err := s.notifier.Create(ctx, &n); err != nil {
		s.logger.Warn("Could not notify professor about registration",
			zap.String("registration_id", reg.ID), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) notifyStudent(ctx context.Context, reg *domain.Registration, status domain.Status) bool {
	professorName := "Giảng viên"
	if profile, err := s.profiles.GetByID(ctx, reg.ProfessorID); err == nil && profile.Name != "" {
		professorName = profile.Name
	}
	documentName := "tài liệu"
	if doc, err := s.docs.GetByID(ctx, reg.DocumentID); err == nil && doc.Filename != "" {
		documentName = doc.Filename
	}

	n := domain.Notification{
		ID:                    uuid.NewString(),
		UserID:                reg.StudentID,
		Type:                  domain.NotificationRegistrationAccepted,
		Title:                 "Đăng ký được chấp nhận",
		Message:               fmt.Sprintf("%s đã chấp nhận đăng ký hướng dẫn của bạn cho tài liệu '%s'", professorName, documentName),
		RelatedUserID:         reg.ProfessorID,
		RelatedRegistrationID: reg.ID,
		RelatedDocumentID:     reg.DocumentID,
	}
	if status == domain.StatusRejected {
		n.Type = domain.NotificationRegistrationRejected
		n.Title = "Đăng ký bị từ chối"
		n.Message = fmt.Sprintf("%s đã từ chối đăng ký hướng dẫn của bạn cho tài liệu '%s'", professorName, documentName)
	}

	if err := s.notifier.Create(ctx, &n); err != nil {
		s.logger.Warn("Could not notify student about status change",
			zap.String("registration_id", reg.ID), zap.Error(err))
		return false
	}
	return true
}

func combineNotes(notes, reason string) string {
	if reason == "" {
		return notes
	}
	if notes == "" {
		return "Lý do: " + reason
	}
	return notes + "\n\nLý do: " + reason
}
