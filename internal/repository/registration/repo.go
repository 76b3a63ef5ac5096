package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gradlink/profmatch/internal/db"
	"github.com/gradlink/profmatch/internal/domain"
)

const maxRegistrations = 1000

// store is the consumer interface for registrations (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo stores registrations as JSON documents with an FT index over student,
// professor, document and status tags.
type Repo struct {
	store store
}

// New creates a registration repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// IndexDefinition returns the FT index this repository queries.
func IndexDefinition() *db.IndexDefinition {
	return db.NewIndex(indexName()).
		Prefix(keyPrefix()).
		TagAs("$.student_id", "student_id").
		TagAs("$.professor_id", "professor_id").
		TagAs("$.document_id", "document_id").
		TagAs("$.status", "status").
		MustBuild()
}

// Create persists a new registration. The (student, document) uniqueness key is
// claimed first via SETNX as the authoritative backstop for the application-level
// duplicate check, so two racing creations cannot both succeed.
func (r *Repo) Create(ctx context.Context, reg *domain.Registration) error {
	if reg.ID == "" {
		return fmt.Errorf("registration id is required")
	}

	claimed, err := r.store.SetNX(ctx, uniqKey(reg.StudentID, reg.DocumentID), []byte(reg.ID))
	if err != nil {
		return fmt.Errorf("claim uniqueness key: %w", err)
	}
	if !claimed {
		return domain.ErrDuplicateRegistration
	}

	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	data, err := json.Marshal(toDTO(reg))
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	if err := r.store.JSONSet(ctx, regKey(reg.ID), "$", data); err != nil {
		// Release the claim so the student can retry.
		_ = r.store.Del(ctx, uniqKey(reg.StudentID, reg.DocumentID))
		return fmt.Errorf("json.set registration %s: %w", reg.ID, err)
	}
	return nil
}

// GetByID returns a registration by id.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Registration, error) {
	raw, err := r.store.JSONGet(ctx, regKey(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Registration{}, domain.ErrRegistrationNotFound
		}
		return domain.Registration{}, fmt.Errorf("json.get registration %s: %w", id, err)
	}
	return parseRegistration(id, raw)
}

// ListByStudent returns all registrations created by a student, newest first.
func (r *Repo) ListByStudent(ctx context.Context, studentID string) ([]domain.Registration, error) {
	query := fmt.Sprintf("@student_id:{%s}", db.EscapeTag(studentID))
	return r.list(ctx, query)
}

// ListByProfessor returns all registrations targeting a professor profile id,
// newest first.
func (r *Repo) ListByProfessor(ctx context.Context, professorID string) ([]domain.Registration, error) {
	query := fmt.Sprintf("@professor_id:{%s}", db.EscapeTag(professorID))
	return r.list(ctx, query)
}

// CountAccepted returns the number of accepted registrations for a professor
// profile id.
func (r *Repo) CountAccepted(ctx context.Context, professorID string) (int, error) {
	query := fmt.Sprintf("@professor_id:{%s} @status:{accepted}", db.EscapeTag(professorID))
	n, err := r.store.SearchCount(ctx, indexName(), query)
	if err != nil {
		return 0, fmt.Errorf("count accepted for %s: %w", professorID, err)
	}
	return n, nil
}

// UpdateStatus rewrites the status and notes of an existing registration.
func (r *Repo) UpdateStatus(ctx context.Context, id string, status domain.Status, notes string) error {
	reg, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	reg.Status = status
	reg.Notes = notes
	reg.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(toDTO(&reg))
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	if err := r.store.JSONSet(ctx, regKey(id), "$", data); err != nil {
		return fmt.Errorf("json.set registration %s: %w", id, err)
	}
	return nil
}

// Delete removes a registration and releases its uniqueness claim.
func (r *Repo) Delete(ctx context.Context, reg *domain.Registration) error {
	if err := r.store.Del(ctx, regKey(reg.ID)); err != nil {
		return fmt.Errorf("del registration %s: %w", reg.ID, err)
	}
	if err := r.store.Del(ctx, uniqKey(reg.StudentID, reg.DocumentID)); err != nil {
		return fmt.Errorf("del uniqueness key: %w", err)
	}
	return nil
}

func (r *Repo) list(ctx context.Context, query string) ([]domain.Registration, error) {
	result, err := r.store.SearchList(ctx, indexName(), query, 0, maxRegistrations, []string{"$"})
	if err != nil {
		return nil, fmt.Errorf("search registrations: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	regs := make([]domain.Registration, 0, len(result.Entries))
	for _, entry := range result.Entries {
		reg, err := parseRegistration(idFromKey(entry.Key), []byte(entry.Fields["$"]))
		if err != nil {
			continue
		}
		regs = append(regs, reg)
	}
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].CreatedAt.After(regs[j].CreatedAt)
	})
	return regs, nil
}

func regKey(id string) string {
	return keyPrefix() + id
}

func keyPrefix() string {
	return domain.KeyPrefix + "registration:"
}

func uniqKey(studentID, documentID string) string {
	return domain.KeyPrefix + "reg_uniq:" + studentID + ":" + documentID
}

func indexName() string {
	return domain.KeyPrefix + "registrations:idx"
}

func idFromKey(key string) string {
	prefix := keyPrefix()
	if len(key) > len(prefix) {
		return key[len(prefix):]
	}
	return key
}
