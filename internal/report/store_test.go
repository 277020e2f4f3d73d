package report

import (
	"context"
	"errors"
	"testing"

	"github.com/pmmpclub/prep-backend/internal/model"
)

func TestMemoryStoreSlotLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, 1); !errors.Is(err, ErrNoReport) {
		t.Fatalf("empty slot: %v", err)
	}

	first := &model.SessionReport{SubjectID: "quant", Reason: model.ReasonCompleted}
	if err := store.Set(ctx, 1, first); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, 1)
	if err != nil || got.SubjectID != "quant" {
		t.Fatalf("get: %v %+v", err, got)
	}

	// Single slot: the next report overwrites the previous one.
	second := &model.SessionReport{SubjectID: "verbal", Reason: model.ReasonStopped}
	if err := store.Set(ctx, 1, second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = store.Get(ctx, 1)
	if got.SubjectID != "verbal" {
		t.Errorf("slot not overwritten: %s", got.SubjectID)
	}

	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Get(ctx, 1); !errors.Is(err, ErrNoReport) {
		t.Fatalf("cleared slot: %v", err)
	}

	// Clearing an already-empty slot is fine.
	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("double clear: %v", err)
	}
}

func TestMemoryStoreSlotsAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, 1, &model.SessionReport{SubjectID: "quant"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := store.Get(ctx, 2); !errors.Is(err, ErrNoReport) {
		t.Fatalf("learner 2 sees learner 1's report: %v", err)
	}
}
