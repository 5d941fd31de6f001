package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListUnassigned(statuses []models.OrderStatus) ([]models.Order, error)
	ListDelivered(filter DeliveredOrderFilter) ([]models.Order, error)
	AggregateDeliveryRating(partnerID uint) (RatingAggregate, error)
	TransitionStatus(id uint, from models.OrderStatus, version int, updates map[string]interface{}) (int64, error)
	AssignPartner(id, partnerID uint, earnings models.Money, assignedAt time.Time) (int64, error)
	UpdateRating(id uint, updates map[string]interface{}) error
	AppendHistory(entry *models.OrderStatusHistory) error
	WithTx(tx *gorm.DB) OrderRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 开启事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *GormOrderRepository) withDetail(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Vendor")
}

// Create 创建订单、订单项与首条状态流水
func (r *GormOrderRepository) Create(order *models.Order) error {
	items := order.Items
	history := order.StatusHistory
	if err := r.db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	for i := range history {
		history[i].OrderID = order.ID
	}
	if len(history) > 0 {
		if err := r.db.Create(&history).Error; err != nil {
			return err
		}
	}
	order.Items = items
	order.StatusHistory = history
	return nil
}

// GetByID 根据 ID 获取订单详情
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetail(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单号获取订单详情
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.withDetail(r.db).Where("order_no = ?", strings.TrimSpace(orderNo)).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 按条件分页查询订单
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.DeliveryPartnerID != 0 {
		query = query.Where("delivery_partner_id = ?", filter.DeliveryPartnerID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("order_no = ?", orderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListUnassigned 查询未分配骑手的订单（携带商家坐标）
func (r *GormOrderRepository) ListUnassigned(statuses []models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Where("delivery_partner_id IS NULL")
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Preload("Vendor").Preload("Items").Order("created_at asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListDelivered 查询骑手已送达订单
func (r *GormOrderRepository) ListDelivered(filter DeliveredOrderFilter) ([]models.Order, error) {
	query := r.db.Where("delivery_partner_id = ? AND status = ?", filter.PartnerID, models.OrderStatusDelivered)
	if filter.DeliveredFrom != nil {
		query = query.Where("delivered_at >= ?", *filter.DeliveredFrom)
	}
	if filter.DeliveredTo != nil {
		query = query.Where("delivered_at < ?", *filter.DeliveredTo)
	}
	var orders []models.Order
	if err := query.Order("delivered_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// AggregateDeliveryRating 统计骑手配送评分
func (r *GormOrderRepository) AggregateDeliveryRating(partnerID uint) (RatingAggregate, error) {
	var agg RatingAggregate
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(AVG(delivery_rating), 0) AS average, COUNT(delivery_rating) AS count").
		Where("delivery_partner_id = ? AND delivery_rating IS NOT NULL", partnerID).
		Scan(&agg).Error
	return agg, err
}

// TransitionStatus 条件更新订单状态，仅当状态与版本均未变化时生效
func (r *GormOrderRepository) TransitionStatus(id uint, from models.OrderStatus, version int, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["version"] = gorm.Expr("version + 1")
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND version = ?", id, from, version).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AssignPartner 骑手接单：仅当订单处于待取货且尚未分配时写入
func (r *GormOrderRepository) AssignPartner(id, partnerID uint, earnings models.Money, assignedAt time.Time) (int64, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND delivery_partner_id IS NULL", id, models.OrderStatusReady).
		Updates(map[string]interface{}{
			"delivery_partner_id": partnerID,
			"assigned_at":         assignedAt,
			"delivery_earnings":   earnings,
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpdateRating 写入评分字段
func (r *GormOrderRepository) UpdateRating(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// AppendHistory 追加状态流水
func (r *GormOrderRepository) AppendHistory(entry *models.OrderStatusHistory) error {
	if entry == nil {
		return nil
	}
	return r.db.Create(entry).Error
}
