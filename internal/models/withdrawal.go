package models

import (
	"time"

	"gorm.io/gorm"
)

// Withdrawal 提现申请表
// 金额以结算币种计；余额采用延迟扣减策略，仅在审核通过时扣减。
type Withdrawal struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                 // 主键
	AffiliateID uint           `gorm:"index;not null" json:"affiliate_id"`                   // 推广员ID
	Amount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`  // 申请金额（结算币种）
	PayoutPhone string         `gorm:"type:varchar(32);not null" json:"payout_phone"`        // 收款电话
	Currency    string         `gorm:"type:varchar(8);not null" json:"currency"`             // 结算币种
	Status      string         `gorm:"index;not null" json:"status"`                         // 提现状态
	Reason      string         `gorm:"type:varchar(255)" json:"reason,omitempty"`            // 审核备注（拒绝原因等）
	ProcessedBy *uint          `gorm:"index" json:"processed_by,omitempty"`                  // 审核管理员ID
	ProcessedAt *time.Time     `gorm:"index" json:"processed_at"`                            // 审核时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                              // 申请时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	Affiliate *Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"` // 关联推广员
	Processor *Admin     `gorm:"foreignKey:ProcessedBy" json:"processor,omitempty"` // 关联审核管理员
}

// TableName 指定表名
func (Withdrawal) TableName() string {
	return "withdrawals"
}
