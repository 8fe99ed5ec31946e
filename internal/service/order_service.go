package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/logger"
	"github.com/tijara-next/internal/models"
	"github.com/tijara-next/internal/queue"
	"github.com/tijara-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService 订单生命周期服务
// 订单创建与终态流转是台账的唯一入账路径之一，全部在事务内基于锁定行执行。
type OrderService struct {
	orderRepo     repository.OrderRepository
	affiliateRepo repository.AffiliateRepository
	currency      *CurrencyService
	commission    *CommissionPolicy
	queueClient   *queue.Client

	ordersPerWindow int
	window          time.Duration
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	affiliateRepo repository.AffiliateRepository,
	currency *CurrencyService,
	commission *CommissionPolicy,
	queueClient *queue.Client,
	rateLimit config.RateLimitConfig,
) *OrderService {
	ordersPerWindow := rateLimit.OrdersPerMinute
	if ordersPerWindow <= 0 {
		ordersPerWindow = 10
	}
	windowSeconds := rateLimit.WindowSeconds
	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	return &OrderService{
		orderRepo:       orderRepo,
		affiliateRepo:   affiliateRepo,
		currency:        currency,
		commission:      commission,
		queueClient:     queueClient,
		ordersPerWindow: ordersPerWindow,
		window:          time.Duration(windowSeconds) * time.Second,
	}
}

// CreateOrderInput 创建订单入参
type CreateOrderInput struct {
	AffiliateID   uint
	CustomerName  string
	CustomerPhone string
	Address       string
	City          string
	Country       string
	Product       string
	ProductCode   string
	CostPrice     models.Money
	SellingPrice  models.Money
}

// AllowOrder 判断推广员当前是否允许下单
// 只读检查；创建事务内会再次校验，窗口边缘的轻微超限是可接受的近似。
func (s *OrderService) AllowOrder(affiliateID uint) (bool, error) {
	count, err := s.orderRepo.CountCreatedSince(affiliateID, time.Now().Add(-s.window))
	if err != nil {
		return false, err
	}
	return count < int64(s.ordersPerWindow), nil
}

// CreateOrder 创建订单
// 订单行与 total_orders 计数在同一事务内提交；total_orders 无论结局都计入。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.AffiliateID == 0 {
		return nil, ErrAffiliateNotFound
	}
	if strings.TrimSpace(input.CustomerName) == "" || strings.TrimSpace(input.Product) == "" {
		return nil, fmt.Errorf("%w: customer or product missing", ErrInvalidPricing)
	}
	if input.CostPrice.Sign() <= 0 || !input.SellingPrice.GreaterThan(input.CostPrice.Decimal) {
		return nil, ErrInvalidPricing
	}

	currency, err := s.currency.CurrencyForCountry(input.Country)
	if err != nil {
		return nil, err
	}
	if err := ValidateCustomerPhone(input.Country, input.CustomerPhone); err != nil {
		return nil, err
	}

	allowed, err := s.AllowOrder(input.AffiliateID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	commission := s.commission.Commission(input.CostPrice, input.SellingPrice)

	var created *models.Order
	err = s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		affiliateTx := s.affiliateRepo.WithTx(tx)
		orderTx := s.orderRepo.WithTx(tx)

		affiliate, err := affiliateTx.GetByIDForUpdate(input.AffiliateID)
		if err != nil {
			return err
		}
		if affiliate == nil {
			return ErrAffiliateNotFound
		}

		// 事务内重查限流计数，压缩并发窗口
		count, err := orderTx.CountCreatedSince(affiliate.ID, time.Now().Add(-s.window))
		if err != nil {
			return err
		}
		if count >= int64(s.ordersPerWindow) {
			return ErrRateLimited
		}

		now := time.Now()
		order := &models.Order{
			OrderNo:       generateOrderNo(),
			AffiliateID:   affiliate.ID,
			CustomerName:  strings.TrimSpace(input.CustomerName),
			CustomerPhone: strings.TrimSpace(input.CustomerPhone),
			Address:       strings.TrimSpace(input.Address),
			City:          strings.TrimSpace(input.City),
			Country:       strings.TrimSpace(input.Country),
			Currency:      currency,
			Product:       strings.TrimSpace(input.Product),
			ProductCode:   strings.TrimSpace(input.ProductCode),
			CostPrice:     input.CostPrice,
			SellingPrice:  input.SellingPrice,
			Commission:    commission,
			Status:        constants.OrderStatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := orderTx.Create(order); err != nil {
			return err
		}

		affiliate.TotalOrders++
		affiliate.UpdatedAt = now
		if err := affiliateTx.Update(affiliate); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", created.ID,
		"order_no", created.OrderNo,
		"affiliate_id", created.AffiliateID,
		"currency", created.Currency,
		"commission", created.Commission.String(),
	)
	return created, nil
}

// MarkDelivered 标记订单已交付并入账
// 状态翻转与余额/累计收益/累计销售额写入在同一事务提交，入账至多发生一次。
func (s *OrderService) MarkDelivered(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrNotFound
	}

	err := s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		affiliateTx := s.affiliateRepo.WithTx(tx)
		orderTx := s.orderRepo.WithTx(tx)

		order, err := orderTx.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrNotFound
		}
		if order.Status != constants.OrderStatusPending {
			return NewAlreadyProcessedError(order.Status)
		}

		affiliate, err := affiliateTx.GetByIDForUpdate(order.AffiliateID)
		if err != nil {
			return err
		}
		if affiliate == nil {
			return ErrAffiliateNotFound
		}

		settledCommission, err := s.currency.Normalize(order.Commission, order.Currency)
		if err != nil {
			return err
		}
		settledSales, err := s.currency.Normalize(order.SellingPrice, order.Currency)
		if err != nil {
			return err
		}

		now := time.Now()
		order.Status = constants.OrderStatusDelivered
		order.DeliveredAt = &now
		order.UpdatedAt = now
		if err := orderTx.Update(order); err != nil {
			return err
		}

		affiliate.Balance = models.NewMoneyFromDecimal(affiliate.Balance.Add(settledCommission.Decimal))
		affiliate.TotalEarnings = models.NewMoneyFromDecimal(affiliate.TotalEarnings.Add(settledCommission.Decimal))
		affiliate.TotalSales = models.NewMoneyFromDecimal(affiliate.TotalSales.Add(settledSales.Decimal))
		affiliate.UpdatedAt = now
		return affiliateTx.Update(affiliate)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	s.notifyOutcome(order)
	return order, nil
}

// MarkIssue 标记订单异常（无台账影响）
func (s *OrderService) MarkIssue(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrNotFound
	}

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderTx := s.orderRepo.WithTx(tx)

		order, err := orderTx.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrNotFound
		}
		if order.Status != constants.OrderStatusPending {
			return NewAlreadyProcessedError(order.Status)
		}

		order.Status = constants.OrderStatusIssue
		order.UpdatedAt = time.Now()
		return orderTx.Update(order)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	s.notifyOutcome(order)
	return order, nil
}

// GetByID 按ID获取订单
func (s *OrderService) GetByID(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// List 查询订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// ListPending 查询全部待处理订单（管理端审核队列）
func (s *OrderService) ListPending(page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   constants.OrderStatusPending,
	})
}

// notifyOutcome 终态流转后推送通知任务（尽力而为，不影响主流程）
func (s *OrderService) notifyOutcome(order *models.Order) {
	if order == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderOutcomeNotify(queue.OrderOutcomeNotifyPayload{
		OrderID:     order.ID,
		AffiliateID: order.AffiliateID,
		Status:      order.Status,
	}); err != nil {
		logger.Warnw("order_outcome_notify_enqueue_failed",
			"order_id", order.ID,
			"error", err,
		)
	}
}

// generateOrderNo 生成订单编号
func generateOrderNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return fmt.Sprintf("TJO-%s-%s", time.Now().Format("20060102"), suffix)
}
