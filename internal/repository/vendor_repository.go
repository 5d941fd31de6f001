package repository

import (
	"errors"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"

	"gorm.io/gorm"
)

// VendorRepository 商家数据访问接口
type VendorRepository interface {
	GetByID(id uint) (*models.Vendor, error)
	GetByOwner(userID uint) (*models.Vendor, error)
	Create(vendor *models.Vendor) error
	IncrementTotalOrders(vendorID uint) error
	UpdateRatingAggregate(vendorID uint, agg RatingAggregate) error
	WithTx(tx *gorm.DB) VendorRepository
}

// GormVendorRepository GORM 实现
type GormVendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建商家仓库
func NewVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVendorRepository) WithTx(tx *gorm.DB) VendorRepository {
	if tx == nil {
		return r
	}
	return &GormVendorRepository{db: tx}
}

// GetByID 根据 ID 获取商家
func (r *GormVendorRepository) GetByID(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// GetByOwner 根据店主账号获取商家
func (r *GormVendorRepository) GetByOwner(userID uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.Where("owner_user_id = ?", userID).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// Create 创建商家
func (r *GormVendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// IncrementTotalOrders 完成订单数 +1
func (r *GormVendorRepository) IncrementTotalOrders(vendorID uint) error {
	return r.db.Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		UpdateColumn("total_orders", gorm.Expr("total_orders + 1")).Error
}

// UpdateRatingAggregate 写入评分聚合
func (r *GormVendorRepository) UpdateRatingAggregate(vendorID uint, agg RatingAggregate) error {
	return r.db.Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		UpdateColumns(map[string]interface{}{
			"average_rating": agg.Average,
			"total_ratings":  agg.Count,
		}).Error
}
