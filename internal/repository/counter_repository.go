package repository

import (
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository 序列计数器接口
type CounterRepository interface {
	Next(name string) (int64, error)
	WithTx(tx *gorm.DB) CounterRepository
}

// GormCounterRepository GORM 实现
type GormCounterRepository struct {
	db *gorm.DB
}

// NewCounterRepository 创建计数器仓库
func NewCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCounterRepository) WithTx(tx *gorm.DB) CounterRepository {
	if tx == nil {
		return r
	}
	return &GormCounterRepository{db: tx}
}

// Next 自增并返回新值；需在事务内调用以持有行锁直到提交
func (r *GormCounterRepository) Next(name string) (int64, error) {
	seed := models.Counter{Name: name, Value: 0}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}
	if err := r.db.Model(&models.Counter{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + 1")).Error; err != nil {
		return 0, err
	}
	var counter models.Counter
	if err := r.db.Where("name = ?", name).Take(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}
