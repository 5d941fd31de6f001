package repository

import (
	"testing"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
)

func TestIncrementUsageRespectsLimit(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewPromoCodeRepository(db)
	promo := &models.PromoCode{
		Code:          "ONCE",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromInt(10),
		UsageLimit:    1,
		IsActive:      true,
	}
	if err := repo.Create(promo); err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	affected, err := repo.IncrementUsage(promo.ID)
	if err != nil || affected != 1 {
		t.Fatalf("first increment should apply, affected=%d err=%v", affected, err)
	}
	affected, err = repo.IncrementUsage(promo.ID)
	if err != nil {
		t.Fatalf("second increment failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second increment should be rejected by the limit")
	}

	if err := repo.DecrementUsage(promo.ID); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if err := repo.DecrementUsage(promo.ID); err != nil {
		t.Fatalf("decrement at zero failed: %v", err)
	}
	got, _ := repo.GetByCode("ONCE")
	if got.UsageCount != 0 {
		t.Fatalf("usage count should not go negative, got %d", got.UsageCount)
	}
}

func TestIncrementUsageUnlimited(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewPromoCodeRepository(db)
	promo := &models.PromoCode{Code: "FOREVER", DiscountType: models.DiscountTypeFixed, DiscountValue: models.NewMoneyFromInt(5), IsActive: true}
	if err := repo.Create(promo); err != nil {
		t.Fatalf("create promo failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if affected, err := repo.IncrementUsage(promo.ID); err != nil || affected != 1 {
			t.Fatalf("unlimited increment %d failed: affected=%d err=%v", i, affected, err)
		}
	}
}
