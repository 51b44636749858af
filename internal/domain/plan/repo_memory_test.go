package plan

import (
	"context"
	"testing"
	"time"
)

func TestMemorySessionRepository_SaveOverwritesAndGets(t *testing.T) {
	repo := NewMemorySessionRepository(time.Hour)
	ctx := context.Background()

	if err := repo.Save(ctx, "k", &SessionForm{PatientName: "old"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, "k", &SessionForm{PatientName: "new"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	form, err := repo.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if form == nil || form.PatientName != "new" {
		t.Errorf("form = %+v, want overwritten slot", form)
	}
}

func TestMemorySessionRepository_MissingSlot(t *testing.T) {
	repo := NewMemorySessionRepository(time.Hour)

	form, err := repo.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if form != nil {
		t.Errorf("form = %+v, want nil", form)
	}
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	repo := NewMemorySessionRepository(-time.Second) // already expired on save
	ctx := context.Background()

	if err := repo.Save(ctx, "k", &SessionForm{PatientName: "x"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	form, err := repo.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if form != nil {
		t.Errorf("expired slot must read as absent, got %+v", form)
	}

	if err := repo.Cleanup(ctx); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if len(repo.slots) != 0 {
		t.Errorf("cleanup left %d slots", len(repo.slots))
	}
}

func TestMemorySessionRepository_Delete(t *testing.T) {
	repo := NewMemorySessionRepository(time.Hour)
	ctx := context.Background()

	if err := repo.Save(ctx, "k", &SessionForm{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	form, err := repo.Get(ctx, "k")
	if err != nil || form != nil {
		t.Errorf("got %+v, %v after delete", form, err)
	}
}
