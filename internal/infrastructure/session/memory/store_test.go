package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

func TestAppendDropsOldestBeyondCap(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 0; i < domain.HistoryLimit+3; i++ {
		err := store.Append(ctx, "s1", domain.ChatTurn{Role: domain.RoleUser, Message: fmt.Sprintf("m%d", i)})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	turns, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != domain.HistoryLimit {
		t.Fatalf("expected %d turns, got %d", domain.HistoryLimit, len(turns))
	}
	if turns[0].Message != "m3" {
		t.Fatalf("expected oldest turns dropped first, got %q", turns[0].Message)
	}
	if turns[len(turns)-1].Message != fmt.Sprintf("m%d", domain.HistoryLimit+2) {
		t.Fatalf("unexpected newest turn %q", turns[len(turns)-1].Message)
	}
}

func TestHistoryIsolatesSessions(t *testing.T) {
	store := New()
	ctx := context.Background()

	_ = store.Append(ctx, "a", domain.ChatTurn{Role: domain.RoleUser, Message: "for a"})
	_ = store.Append(ctx, "b", domain.ChatTurn{Role: domain.RoleUser, Message: "for b"})

	turns, err := store.History(ctx, "a")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 1 || turns[0].Message != "for a" {
		t.Fatalf("unexpected history %+v", turns)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	store := New()
	ctx := context.Background()

	_ = store.Append(ctx, "s", domain.ChatTurn{Role: domain.RoleUser, Message: "original"})

	turns, _ := store.History(ctx, "s")
	turns[0].Message = "mutated"

	again, _ := store.History(ctx, "s")
	if again[0].Message != "original" {
		t.Fatalf("stored history must not alias caller slices")
	}
}
