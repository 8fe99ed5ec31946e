package service

import (
	"strings"
	"time"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/logger"
	"github.com/tijara-next/internal/models"
	"github.com/tijara-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WithdrawalService 提现生命周期服务
// 采用延迟扣减策略：申请时余额不动，审核通过时一次性扣减。
type WithdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	affiliateRepo  repository.AffiliateRepository
	currency       *CurrencyService

	minAmount decimal.Decimal
}

// NewWithdrawalService 创建提现服务
func NewWithdrawalService(
	withdrawalRepo repository.WithdrawalRepository,
	affiliateRepo repository.AffiliateRepository,
	currency *CurrencyService,
	cfg config.WithdrawConfig,
) *WithdrawalService {
	minAmount := decimal.NewFromInt(50)
	if raw := strings.TrimSpace(cfg.MinAmount); raw != "" {
		if parsed, err := decimal.NewFromString(raw); err == nil && parsed.Sign() > 0 {
			minAmount = parsed
		} else {
			logger.Warnw("withdraw_min_amount_invalid", "raw", raw)
		}
	}
	return &WithdrawalService{
		withdrawalRepo: withdrawalRepo,
		affiliateRepo:  affiliateRepo,
		currency:       currency,
		minAmount:      minAmount.Round(2),
	}
}

// MinAmount 返回最低提现金额
func (s *WithdrawalService) MinAmount() models.Money {
	return models.NewMoneyFromDecimal(s.minAmount)
}

// Request 提交提现申请
// 四项前置检查与插入在同一事务、同一把推广员行锁下完成，
// 保证同一推广员并发申请时至多一笔待审核。
func (s *WithdrawalService) Request(affiliateID uint, amount models.Money, payoutPhone string) (*models.Withdrawal, error) {
	if affiliateID == 0 {
		return nil, ErrAffiliateNotFound
	}
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount.LessThan(s.minAmount) {
		return nil, ErrBelowMinimum
	}
	if err := ValidateAffiliatePhone(payoutPhone); err != nil {
		return nil, err
	}

	var createdID uint
	err := s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		affiliateTx := s.affiliateRepo.WithTx(tx)
		withdrawalTx := s.withdrawalRepo.WithTx(tx)

		affiliate, err := affiliateTx.GetByIDForUpdate(affiliateID)
		if err != nil {
			return err
		}
		if affiliate == nil {
			return ErrAffiliateNotFound
		}
		if amount.GreaterThan(affiliate.Balance.Decimal) {
			return ErrInsufficientBalance
		}

		pending, err := withdrawalTx.CountPendingByAffiliate(affiliate.ID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return ErrDuplicatePending
		}

		now := time.Now()
		withdrawal := &models.Withdrawal{
			AffiliateID: affiliate.ID,
			Amount:      amount,
			PayoutPhone: strings.TrimSpace(payoutPhone),
			Currency:    s.currency.Settlement(),
			Status:      constants.WithdrawStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := withdrawalTx.Create(withdrawal); err != nil {
			return err
		}
		createdID = withdrawal.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("withdrawal_requested",
		"withdrawal_id", createdID,
		"affiliate_id", affiliateID,
		"amount", amount.String(),
	)
	return s.withdrawalRepo.GetByID(createdID)
}

// Review 管理端审核提现申请
// approve 在审核时重查余额：申请后余额可能已被其它审核扣减。
func (s *WithdrawalService) Review(adminID, withdrawalID uint, action, reason string) (*models.Withdrawal, error) {
	if withdrawalID == 0 {
		return nil, ErrNotFound
	}
	act := strings.ToLower(strings.TrimSpace(action))
	if act != constants.WithdrawActionApprove && act != constants.WithdrawActionReject {
		return nil, ErrNotFound
	}
	reason = strings.TrimSpace(reason)

	err := s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		affiliateTx := s.affiliateRepo.WithTx(tx)
		withdrawalTx := s.withdrawalRepo.WithTx(tx)

		withdrawal, err := withdrawalTx.GetByIDForUpdate(withdrawalID)
		if err != nil {
			return err
		}
		if withdrawal == nil {
			return ErrNotFound
		}
		if withdrawal.Status != constants.WithdrawStatusPending {
			return NewAlreadyProcessedError(withdrawal.Status)
		}

		now := time.Now()
		withdrawal.ProcessedBy = &adminID
		withdrawal.ProcessedAt = &now
		withdrawal.UpdatedAt = now

		if act == constants.WithdrawActionReject {
			withdrawal.Status = constants.WithdrawStatusRejected
			withdrawal.Reason = reason
			return withdrawalTx.Update(withdrawal)
		}

		affiliate, err := affiliateTx.GetByIDForUpdate(withdrawal.AffiliateID)
		if err != nil {
			return err
		}
		if affiliate == nil {
			return ErrAffiliateNotFound
		}
		if withdrawal.Amount.GreaterThan(affiliate.Balance.Decimal) {
			return ErrInsufficientBalance
		}

		withdrawal.Status = constants.WithdrawStatusApproved
		withdrawal.Reason = reason
		if err := withdrawalTx.Update(withdrawal); err != nil {
			return err
		}

		affiliate.Balance = models.NewMoneyFromDecimal(affiliate.Balance.Sub(withdrawal.Amount.Decimal))
		affiliate.UpdatedAt = now
		return affiliateTx.Update(affiliate)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("withdrawal_reviewed",
		"withdrawal_id", withdrawalID,
		"admin_id", adminID,
		"action", act,
	)
	return s.withdrawalRepo.GetByID(withdrawalID)
}

// GetByID 按ID获取提现申请
func (s *WithdrawalService) GetByID(withdrawalID uint) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrNotFound
	}
	return withdrawal, nil
}

// List 查询提现列表
func (s *WithdrawalService) List(filter repository.WithdrawalListFilter) ([]models.Withdrawal, int64, error) {
	return s.withdrawalRepo.List(filter)
}

// ListPending 查询全部待审核提现（管理端审核队列）
func (s *WithdrawalService) ListPending(page, pageSize int) ([]models.Withdrawal, int64, error) {
	return s.withdrawalRepo.List(repository.WithdrawalListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   constants.WithdrawStatusPending,
	})
}
