package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocalLockerSerializesPerKey(t *testing.T) {
	k := NewLocalLocker()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := k.Lock(context.Background(), "u1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			counter++
			unlock()
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("expected 50 increments, got %d", counter)
	}
	if k.Pending() != 0 {
		t.Fatalf("expected lock entries to be released, got %d", k.Pending())
	}
}

func TestLocalLockerIndependentKeys(t *testing.T) {
	k := NewLocalLocker()
	unlockA, _ := k.Lock(context.Background(), "a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock, _ := k.Lock(context.Background(), "b")
		unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("lock on b blocked behind a")
	}
}

func TestLocalLockerHonorsContext(t *testing.T) {
	k := NewLocalLocker()
	unlock, _ := k.Lock(context.Background(), "u1")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := k.Lock(ctx, "u1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	unlock()
	if k.Pending() != 0 {
		t.Fatalf("expected waiter to be released, got %d", k.Pending())
	}
}
