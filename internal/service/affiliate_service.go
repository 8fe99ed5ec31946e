package service

import (
	"strings"

	"github.com/tijara-next/internal/logger"
	"github.com/tijara-next/internal/models"
	"github.com/tijara-next/internal/repository"
)

// AffiliateService 推广员注册与查询服务
type AffiliateService struct {
	affiliateRepo repository.AffiliateRepository
}

// NewAffiliateService 创建推广员服务
func NewAffiliateService(affiliateRepo repository.AffiliateRepository) *AffiliateService {
	return &AffiliateService{affiliateRepo: affiliateRepo}
}

// RegisterInput 注册入参
type RegisterInput struct {
	ExternalID string
	Name       string
	Phone      string
	StoreName  string
}

// Register 注册推广员（一个外部身份仅允许注册一次）
func (s *AffiliateService) Register(input RegisterInput) (*models.Affiliate, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	name := strings.TrimSpace(input.Name)
	if externalID == "" || name == "" {
		return nil, ErrInvalidIdentity
	}
	if err := ValidateAffiliatePhone(input.Phone); err != nil {
		return nil, err
	}

	existing, err := s.affiliateRepo.GetByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateIdentity
	}

	affiliate := &models.Affiliate{
		ExternalID: externalID,
		Name:       name,
		Phone:      strings.TrimSpace(input.Phone),
		StoreName:  strings.TrimSpace(input.StoreName),
	}
	if err := s.affiliateRepo.Create(affiliate); err != nil {
		// 并发注册同一身份时唯一索引兜底
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}

	logger.Infow("affiliate_registered",
		"affiliate_id", affiliate.ID,
		"external_id", affiliate.ExternalID,
	)
	return affiliate, nil
}

// GetByExternalID 按外部身份标识获取推广员
func (s *AffiliateService) GetByExternalID(externalID string) (*models.Affiliate, error) {
	affiliate, err := s.affiliateRepo.GetByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}
	return affiliate, nil
}

// GetByID 按ID获取推广员
func (s *AffiliateService) GetByID(id uint) (*models.Affiliate, error) {
	affiliate, err := s.affiliateRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}
	return affiliate, nil
}

// List 查询推广员列表
func (s *AffiliateService) List(filter repository.AffiliateListFilter) ([]models.Affiliate, int64, error) {
	return s.affiliateRepo.List(filter)
}

// Stats 查询推广员统计汇总
func (s *AffiliateService) Stats(affiliateID uint) (*repository.AffiliateStatsAggregate, error) {
	stats, err := s.affiliateRepo.GetStats(affiliateID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, ErrAffiliateNotFound
	}
	return stats, nil
}

// isUniqueViolation 判断是否唯一索引冲突
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
