package mysql

import (
	"context"
	"testing"

	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/tranche"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/id"
)

func TestTrancheListActiveOrdersBySeniority(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrancheRepository(db)
	ctx := context.Background()

	// Insert out of seniority order, plus one inactive that must be skipped.
	seed := []trancheSQLite{
		{TrancheID: id.NewID32(), Type: "junior", Seniority: 2, TargetAllocationBp: 2000, MinRiskScore: 1, MaxRiskScore: 10, YieldMultiplierBp: 15000, LossAbsorptionBp: 10000, IsActive: true},
		{TrancheID: id.NewID32(), Type: "senior", Seniority: 0, TargetAllocationBp: 5000, MinRiskScore: 1, MaxRiskScore: 5, YieldMultiplierBp: 8000, LossAbsorptionBp: 2000, IsActive: true},
		{TrancheID: id.NewID32(), Type: "mezzanine", Seniority: 1, TargetAllocationBp: 3000, MinRiskScore: 1, MaxRiskScore: 7, YieldMultiplierBp: 12000, LossAbsorptionBp: 5000, IsActive: true},
		{TrancheID: id.NewID32(), Type: "junior", Seniority: 3, TargetAllocationBp: 1000, MinRiskScore: 1, MaxRiskScore: 10, YieldMultiplierBp: 20000, LossAbsorptionBp: 10000, IsActive: false},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed tranche: %v", err)
		}
	}

	got, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 active tranches, got %d", len(got))
	}
	wantTypes := []domain.Type{domain.TypeSenior, domain.TypeMezzanine, domain.TypeJunior}
	for i, tr := range got {
		if tr.Seniority != i || tr.Type != wantTypes[i] {
			t.Errorf("position %d: got seniority=%d type=%s", i, tr.Seniority, tr.Type)
		}
	}
}

func TestTrancheCreateAndSave(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrancheRepository(db)
	ctx := context.Background()

	tr := &domain.Tranche{
		TrancheID:          id.NewID32(),
		Type:               domain.TypeSenior,
		Seniority:          0,
		TargetAllocationBp: 5000,
		MinRiskScore:       1,
		MaxRiskScore:       5,
		YieldMultiplierBp:  8000,
		LossAbsorptionBp:   2000,
		IsActive:           true,
	}
	if err := repo.Create(ctx, tr); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tr.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	tr.CurrentAllocation = 800_00
	if err := repo.Save(ctx, tr); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 1 || got[0].CurrentAllocation != 800_00 {
		t.Fatalf("allocation not persisted: %+v", got)
	}
}
