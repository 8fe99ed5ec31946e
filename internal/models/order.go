package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
// 成本价、售价与佣金均以订单本地币种持久化，交付时再换算为结算币种入账。
type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                       // 主键
	OrderNo       string         `gorm:"uniqueIndex;not null" json:"order_no"`                       // 订单编号
	AffiliateID   uint           `gorm:"index;not null" json:"affiliate_id"`                         // 推广员ID
	CustomerName  string         `gorm:"not null" json:"customer_name"`                              // 客户姓名
	CustomerPhone string         `gorm:"type:varchar(32);not null" json:"customer_phone"`            // 客户电话
	Address       string         `gorm:"type:varchar(255)" json:"address"`                           // 收货地址
	City          string         `gorm:"type:varchar(120)" json:"city"`                              // 城市
	Country       string         `gorm:"type:varchar(64);not null" json:"country"`                   // 客户国家
	Currency      string         `gorm:"type:varchar(8);not null" json:"currency"`                   // 本地币种（由国家推导）
	Product       string         `gorm:"not null" json:"product"`                                    // 商品描述
	ProductCode   string         `gorm:"type:varchar(64);index" json:"product_code"`                 // 商品编码
	CostPrice     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cost_price"`    // 成本价（本地币种）
	SellingPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"selling_price"` // 售价（本地币种）
	Commission    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission"`    // 佣金（本地币种，创建时计算）
	Status        string         `gorm:"index;not null" json:"status"`                               // 订单状态
	DeliveredAt   *time.Time     `gorm:"index" json:"delivered_at"`                                  // 交付时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	Affiliate *Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"` // 关联推广员
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
