package notification

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

const maxNotifications = 500

// store is the consumer interface for notifications (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
}

// Repo stores per-user notifications as JSON documents with an FT index over
// the user_id and read tags.
type Repo struct {
	store store
}

// New creates a notification repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// IndexDefinition returns the FT index this repository queries.
func IndexDefinition() *db.IndexDefinition {
	return db.NewIndex(indexName()).
		Prefix(keyPrefix()).
		TagAs("$.user_id", "user_id").
		TagAs("$.read", "read").
		MustBuild()
}

// Create persists a notification.
func (r *Repo) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		return fmt.Errorf("notification id is required")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(toDTO(n))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := r.store.JSONSet(ctx, notificationKey(n.ID), "$", data); err != nil {
		return fmt.Errorf("json.set notification %s: %w", n.ID, err)
	}
	return nil
}

// ListByUser returns a user's notifications, newest first. When unreadOnly is
// set, read notifications are filtered out at the index.
func (r *Repo) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	query := fmt.Sprintf("@user_id:{%s}", db.EscapeTag(userID))
	if unreadOnly {
		query += " @read:{false}"
	}

	result, err := r.store.SearchList(ctx, indexName(), query, 0, maxNotifications, []string{"$"})
	if err != nil {
		return nil, fmt.Errorf("search notifications: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	notifs := make([]domain.Notification, 0, len(result.Entries))
	for _, entry := range result.Entries {
		n, err := parseNotification(idFromKey(entry.Key), []byte(entry.Fields["$"]))
		if err != nil {
			continue
		}
		notifs = append(notifs, n)
	}
	sort.SliceStable(notifs, func(i, j int) bool {
		return notifs[i].CreatedAt.After(notifs[j].CreatedAt)
	})
	return notifs, nil
}

// MarkRead flips a notification to read. The owner check protects against a
// user acknowledging someone else's notification by id.
func (r *Repo) MarkRead(ctx context.Context, id, userID string) error {
	raw, err := r.store.JSONGet(ctx, notificationKey(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("json.get notification %s: %w", id, err)
	}
	n, err := parseNotification(id, raw)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return domain.ErrAccessDenied
	}

	n.Read = true
	data, err := json.Marshal(toDTO(&n))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := r.store.JSONSet(ctx, notificationKey(id), "$", data); err != nil {
		return fmt.Errorf("json.set notification %s: %w", id, err)
	}
	return nil
}

// Delete removes a notification.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, notificationKey(id)); err != nil {
		return fmt.Errorf("del notification %s: %w", id, err)
	}
	return nil
}

func notificationKey(id string) string {
	return keyPrefix() + id
}

func keyPrefix() string {
	return domain.KeyPrefix + "notification:"
}

func indexName() string {
	return domain.KeyPrefix + "notifications:idx"
}

func idFromKey(key string) string {
	prefix := keyPrefix()
	if len(key) > len(prefix) {
		return key[len(prefix):]
	}
	return key
}
