package repository

import (
	"errors"
	"strings"

	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AffiliateListFilter 推广员列表过滤条件
type AffiliateListFilter struct {
	Page     int
	PageSize int
	Keyword  string
}

// AffiliateStatsAggregate 推广员统计汇总
type AffiliateStatsAggregate struct {
	TotalOrders    int64           `json:"total_orders"`
	DeliveredCount int64           `json:"delivered_count"`
	PendingCount   int64           `json:"pending_count"`
	IssueCount     int64           `json:"issue_count"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	Balance        decimal.Decimal `json:"balance"`
}

// AffiliateRepository 推广员数据访问接口
type AffiliateRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AffiliateRepository

	Create(affiliate *models.Affiliate) error
	Update(affiliate *models.Affiliate) error
	GetByID(id uint) (*models.Affiliate, error)
	GetByIDForUpdate(id uint) (*models.Affiliate, error)
	GetByExternalID(externalID string) (*models.Affiliate, error)
	List(filter AffiliateListFilter) ([]models.Affiliate, int64, error)
	ListAll() ([]models.Affiliate, error)
	GetStats(affiliateID uint) (*AffiliateStatsAggregate, error)
}

// GormAffiliateRepository GORM 推广员仓储
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository 创建推广员仓储
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) AffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAffiliateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建推广员
func (r *GormAffiliateRepository) Create(affiliate *models.Affiliate) error {
	return r.db.Create(affiliate).Error
}

// Update 保存推广员台账字段
func (r *GormAffiliateRepository) Update(affiliate *models.Affiliate) error {
	return r.db.Save(affiliate).Error
}

// GetByID 按ID获取推广员
func (r *GormAffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByIDForUpdate 按ID锁定获取推广员
// 台账行是唯一竞争资源，余额写入必须先经由此处加锁。
func (r *GormAffiliateRepository) GetByIDForUpdate(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByExternalID 按外部身份标识获取推广员
func (r *GormAffiliateRepository) GetByExternalID(externalID string) (*models.Affiliate, error) {
	normalized := strings.TrimSpace(externalID)
	if normalized == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Where("external_id = ?", normalized).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// List 查询推广员列表
func (r *GormAffiliateRepository) List(filter AffiliateListFilter) ([]models.Affiliate, int64, error) {
	query := r.db.Model(&models.Affiliate{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("(name LIKE ? OR phone LIKE ? OR store_name LIKE ? OR external_id LIKE ?)",
			like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Affiliate
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListAll 查询全部推广员（报表导出用）
func (r *GormAffiliateRepository) ListAll() ([]models.Affiliate, error) {
	var rows []models.Affiliate
	if err := r.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetStats 汇总推广员统计信息
func (r *GormAffiliateRepository) GetStats(affiliateID uint) (*AffiliateStatsAggregate, error) {
	if affiliateID == 0 {
		return nil, nil
	}

	affiliate, err := r.GetByID(affiliateID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, nil
	}

	stats := AffiliateStatsAggregate{
		TotalOrders:   affiliate.TotalOrders,
		TotalEarnings: affiliate.TotalEarnings.Decimal,
		TotalSales:    affiliate.TotalSales.Decimal,
		Balance:       affiliate.Balance.Decimal,
	}

	var rows []struct {
		Status string `gorm:"column:status"`
		Total  int64  `gorm:"column:total"`
	}
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Where("affiliate_id = ?", affiliateID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		switch row.Status {
		case constants.OrderStatusDelivered:
			stats.DeliveredCount = row.Total
		case constants.OrderStatusPending:
			stats.PendingCount = row.Total
		case constants.OrderStatusIssue:
			stats.IssueCount = row.Total
		}
	}
	return &stats, nil
}
