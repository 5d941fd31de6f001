package models

import "time"

// Review 商品评价，每个用户对每个商品仅保留一条
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_review_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_review_user_product;index;not null" json:"product_id"`
	VendorID  uint      `gorm:"index;not null" json:"vendor_id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
