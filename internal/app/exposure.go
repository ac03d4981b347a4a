package app

import (
	"context"

	"iqscalar-assessment-service/internal/storage"
)

// ExposureTracker persists served question IDs per user in a key-value store.
type ExposureTracker struct {
	store storage.Store
}

func NewExposureTracker(store storage.Store) *ExposureTracker {
	return &ExposureTracker{store: store}
}

func (t *ExposureTracker) Used(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if _, err := storage.GetJSON(ctx, t.store, storage.ExposureKey(userID), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// MarkUsed appends ids to the user's record.
func (t *ExposureTracker) MarkUsed(ctx context.Context, userID string, ids []string) error {
	used, err := t.Used(ctx, userID)
	if err != nil {
		return err
	}
	return storage.SetJSON(ctx, t.store, storage.ExposureKey(userID), append(used, ids...))
}

func (t *ExposureTracker) Reset(ctx context.Context, userID string) error {
	return t.store.Delete(ctx, storage.ExposureKey(userID))
}
