package repository

import (
	"testing"

	"gorm.io/gorm"
)

func TestCounterNextIsSequential(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCounterRepository(db)
	for want := int64(1); want <= 3; want++ {
		var got int64
		err := db.Transaction(func(tx *gorm.DB) error {
			value, err := repo.WithTx(tx).Next("order_no")
			got = value
			return err
		})
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if got != want {
			t.Fatalf("sequence want %d got %d", want, got)
		}
	}
}

func TestCounterRollbackDoesNotConsume(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCounterRepository(db)
	_ = db.Transaction(func(tx *gorm.DB) error {
		_, _ = repo.WithTx(tx).Next("order_no")
		return gorm.ErrInvalidTransaction
	})
	got, err := repo.Next("order_no")
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if got != 1 {
		t.Fatalf("rolled back value should be reused, got %d", got)
	}
}
