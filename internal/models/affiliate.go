package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate 推广员台账表
// 余额、累计收益、累计销售额均以结算币种计，只允许订单交付与提现审核两条路径修改。
type Affiliate struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                         // 主键
	ExternalID    string         `gorm:"uniqueIndex;not null" json:"external_id"`                      // 外部身份标识（一个身份仅注册一次）
	Name          string         `gorm:"not null" json:"name"`                                         // 显示名称
	Phone         string         `gorm:"type:varchar(32);not null" json:"phone"`                       // 联系电话
	StoreName     string         `gorm:"type:varchar(120)" json:"store_name"`                          // 店铺名称
	Balance       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`         // 可用余额（结算币种，不允许为负）
	TotalEarnings Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"`  // 累计已实现佣金（结算币种）
	TotalSales    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_sales"`     // 累计已交付销售额（结算币种）
	TotalOrders   int64          `gorm:"not null;default:0" json:"total_orders"`                       // 累计提交订单数（不论结局）
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间
}

// TableName 指定表名
func (Affiliate) TableName() string {
	return "affiliates"
}
