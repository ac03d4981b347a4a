// Package storage defines the durable per-user key-value abstraction that
// exposure, daily quiz and history records are persisted through.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Store is a durable key-value store (in-memory, Redis, SQLite, Postgres).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value at key into v. It reports false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// ExposureKey holds the IDs already served to a user in full tests.
func ExposureKey(userID string) string { return "exposure:" + userID }

// DailyKey holds a user's daily quiz records keyed by date.
func DailyKey(userID string) string { return "daily:" + userID }

// HistoryKey holds a user's result history, newest first.
func HistoryKey(userID string) string { return "history:" + userID }

// AchievementsKey holds a user's achievements.
func AchievementsKey(userID string) string { return "achievements:" + userID }
