package redis

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"iqscalar-assessment-service/internal/storage"
)

func TestKVStoreUsesPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewKVStore(newClient(mr))
	ctx := context.Background()

	if _, err := store.Get(ctx, "exposure:u-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := storage.SetJSON(ctx, store, storage.ExposureKey("u-1"), []string{"q1", "q2"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("iqscalar:exposure:u-1"); got != `["q1","q2"]` {
		t.Fatalf("unexpected raw value %q", got)
	}

	var ids []string
	ok, err := storage.GetJSON(ctx, store, storage.ExposureKey("u-1"), &ids)
	if err != nil || !ok || len(ids) != 2 {
		t.Fatalf("get json: ok=%v ids=%v err=%v", ok, ids, err)
	}

	if err := store.Delete(ctx, storage.ExposureKey("u-1")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("iqscalar:exposure:u-1") {
		t.Fatalf("expected key to be removed")
	}
}
