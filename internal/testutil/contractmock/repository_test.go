package contractmock

import (
	"context"
	"errors"
	"testing"

	domain "contrack-backend/internal/domain/contract"
)

func TestRepo_GetByContractID(t *testing.T) {
	ctx := context.Background()
	want := &domain.Contract{ContractID: "CT-1"}

	called := false
	m := &Repo{
		GetByContractIDFn: func(gotCtx context.Context, contractID string) (*domain.Contract, error) {
			called = true
			if gotCtx != ctx {
				t.Fatalf("GetByContractID ctx mismatch")
			}
			if contractID != "CT-1" {
				t.Fatalf("GetByContractID id mismatch: got %s", contractID)
			}
			return want, nil
		},
	}
	got, err := m.GetByContractID(ctx, "CT-1")
	if err != nil || got != want || !called {
		t.Fatalf("GetByContractID: got %+v, %v (called=%v)", got, err, called)
	}

	m = &Repo{}
	if _, err := m.GetByContractID(ctx, "CT-1"); err != context.Canceled {
		t.Fatalf("GetByContractID default: want context.Canceled, got %v", err)
	}
}

func TestRepo_TransitionStatus(t *testing.T) {
	ctx := context.Background()
	m := &Repo{
		TransitionStatusFn: func(_ context.Context, id string, from []domain.Status, to domain.Status, _ map[string]any) (bool, error) {
			if len(from) != 1 || from[0] != domain.StatusDraft || to != domain.StatusActive {
				t.Fatalf("unexpected transition %v -> %s", from, to)
			}
			return true, nil
		},
	}
	ok, err := m.TransitionStatus(ctx, "CT-1", []domain.Status{domain.StatusDraft}, domain.StatusActive, nil)
	if err != nil || !ok {
		t.Fatalf("TransitionStatus: ok=%v err=%v", ok, err)
	}

	m = &Repo{}
	if ok, err := m.TransitionStatus(ctx, "CT-1", nil, domain.StatusActive, nil); ok || err != nil {
		t.Fatalf("TransitionStatus default: want false,nil got %v,%v", ok, err)
	}
}

func TestRepo_Counts(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	m := &Repo{
		CountByClientAndStatusFn: func(context.Context, string, domain.Status) (int64, error) { return 7, nil },
		CountByVendorAndStatusFn: func(context.Context, string, domain.Status) (int64, error) { return 0, boom },
	}
	if n, _ := m.CountByClientAndStatus(ctx, "c", domain.StatusSettled); n != 7 {
		t.Fatalf("CountByClientAndStatus = %d, want 7", n)
	}
	if _, err := m.CountByVendorAndStatus(ctx, "v", domain.StatusSettled); !errors.Is(err, boom) {
		t.Fatalf("CountByVendorAndStatus: want boom, got %v", err)
	}
	if n, err := (&Repo{}).CountByClientAndStatus(ctx, "c", domain.StatusSettled); n != 0 || err != nil {
		t.Fatalf("default count: %d, %v", n, err)
	}
}
