package memory

import (
	"context"
	"testing"
)

func TestFavoritesRepository_AddListRemove(t *testing.T) {
	t.Parallel()

	repo := NewFavoritesRepository()
	ctx := context.Background()

	if err := repo.Add(ctx, 147); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Add(ctx, 111); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Add(ctx, 147); err != nil {
		t.Fatalf("repeated add must be idempotent: %v", err)
	}

	ids, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != 111 || ids[1] != 147 {
		t.Fatalf("expected sorted ids [111 147], got %v", ids)
	}

	if err := repo.Remove(ctx, 111); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := repo.Remove(ctx, 999); err != nil {
		t.Fatalf("removing an absent id must be a no-op: %v", err)
	}

	ids, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != 147 {
		t.Fatalf("expected [147], got %v", ids)
	}
}
