package repository

import (
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	Upsert(review *models.Review) error
	GetByUserAndProduct(userID, productID uint) (*models.Review, error)
	AggregateByProduct(productID uint) (RatingAggregate, error)
	AggregateByVendor(vendorID uint) (RatingAggregate, error)
	WithTx(tx *gorm.DB) ReviewRepository
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// Upsert 按 (user_id, product_id) 插入或覆盖评价
func (r *GormReviewRepository) Upsert(review *models.Review) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "order_id", "vendor_id", "updated_at"}),
	}).Create(review).Error
}

// GetByUserAndProduct 查询用户对商品的评价
func (r *GormReviewRepository) GetByUserAndProduct(userID, productID uint) (*models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).Limit(1).Find(&reviews).Error; err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, nil
	}
	return &reviews[0], nil
}

// AggregateByProduct 统计商品全部评价
func (r *GormReviewRepository) AggregateByProduct(productID uint) (RatingAggregate, error) {
	return r.aggregate("product_id = ?", productID)
}

// AggregateByVendor 统计商家全部评价
func (r *GormReviewRepository) AggregateByVendor(vendorID uint) (RatingAggregate, error) {
	return r.aggregate("vendor_id = ?", vendorID)
}

func (r *GormReviewRepository) aggregate(cond string, arg interface{}) (RatingAggregate, error) {
	var agg RatingAggregate
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where(cond, arg).
		Scan(&agg).Error
	return agg, err
}
