package memory

import (
	"context"
	"errors"
	"testing"

	"trendlab/internal/domain"
	"trendlab/internal/storage"
)

func TestInstrumentStore_InsertAndGet(t *testing.T) {
	s := NewInstrumentStore()
	ctx := context.Background()

	inst := &domain.Instrument{Name: "Gold", Ticker: "GC=F", Sector: "Metals", PointValue: 100, Currency: "USD"}
	if err := s.Insert(ctx, inst); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.GetByName(ctx, "Gold")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.PointValue != 100 || got.Ticker != "GC=F" {
		t.Errorf("unexpected instrument: %+v", got)
	}

	// Returned value is a copy; mutating it must not affect the store.
	got.PointValue = 1
	again, _ := s.GetByName(ctx, "Gold")
	if again.PointValue != 100 {
		t.Errorf("store must hand out copies")
	}
}

func TestInstrumentStore_Duplicate(t *testing.T) {
	s := NewInstrumentStore()
	ctx := context.Background()

	inst := &domain.Instrument{Name: "Gold", PointValue: 100}
	if err := s.Insert(ctx, inst); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.Insert(ctx, inst); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestInstrumentStore_NotFound(t *testing.T) {
	s := NewInstrumentStore()
	_, err := s.GetByName(context.Background(), "Unobtainium")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInstrumentStore_InvalidInput(t *testing.T) {
	s := NewInstrumentStore()
	if err := s.Insert(context.Background(), &domain.Instrument{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInstrumentStore_ListSorted(t *testing.T) {
	s := NewInstrumentStore()
	ctx := context.Background()

	for _, name := range []string{"Wheat", "Copper", "Gold"} {
		if err := s.Insert(ctx, &domain.Instrument{Name: name, PointValue: 1}); err != nil {
			t.Fatalf("Insert %s failed: %v", name, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 instruments, got %d", len(list))
	}
	if list[0].Name != "Copper" || list[2].Name != "Wheat" {
		t.Errorf("list not sorted by name: %s, %s, %s", list[0].Name, list[1].Name, list[2].Name)
	}
}
