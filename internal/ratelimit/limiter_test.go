package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterBlocksAfterLimit(t *testing.T) {
	l := NewMemory(5, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := l.Allow(ctx, "signin:1.2.3.4")
		if err != nil {
			t.Fatalf("Allow returned error: %v", err)
		}
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	allowed, err := l.Allow(ctx, "signin:1.2.3.4")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if allowed {
		t.Fatal("sixth attempt within the window should be blocked")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemory(1, time.Minute)
	ctx := context.Background()

	if allowed, _ := l.Allow(ctx, "signin:1.2.3.4"); !allowed {
		t.Fatal("first attempt for first key should be allowed")
	}
	if allowed, _ := l.Allow(ctx, "signin:5.6.7.8"); !allowed {
		t.Fatal("first attempt for second key should be allowed")
	}
	if allowed, _ := l.Allow(ctx, "signin:1.2.3.4"); allowed {
		t.Fatal("second attempt for first key should be blocked")
	}
}

func TestMemoryLimiterResetsAfterWindow(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	current := base
	l := &memoryLimiter{
		windows: make(map[string]memoryWindow),
		limit:   1,
		window:  15 * time.Minute,
		now:     func() time.Time { return current },
	}
	ctx := context.Background()

	if allowed, _ := l.Allow(ctx, "k"); !allowed {
		t.Fatal("first attempt should be allowed")
	}
	if allowed, _ := l.Allow(ctx, "k"); allowed {
		t.Fatal("second attempt inside window should be blocked")
	}

	current = base.Add(16 * time.Minute)
	if allowed, _ := l.Allow(ctx, "k"); !allowed {
		t.Fatal("attempt after the window should be allowed again")
	}
}
