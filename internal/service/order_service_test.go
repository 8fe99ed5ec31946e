package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/models"
	"github.com/tijara-next/internal/queue"
	"github.com/tijara-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Affiliate{},
		&models.Order{},
		&models.Withdrawal{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	currency, err := NewCurrencyService(testLedgerConfig())
	if err != nil {
		t.Fatalf("new currency service failed: %v", err)
	}
	commission, err := NewCommissionPolicy(testLedgerConfig())
	if err != nil {
		t.Fatalf("new commission policy failed: %v", err)
	}
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}

	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewAffiliateRepository(db),
		currency,
		commission,
		queueClient,
		config.RateLimitConfig{OrdersPerMinute: 10, WindowSeconds: 60},
	)
	return svc, db
}

func createTestAffiliate(t *testing.T, db *gorm.DB, externalID string) *models.Affiliate {
	t.Helper()
	affiliate := &models.Affiliate{
		ExternalID: externalID,
		Name:       "Test Affiliate",
		Phone:      "+201001234567",
		StoreName:  "Test Store",
	}
	if err := db.Create(affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	return affiliate
}

func saudiOrderInput(affiliateID uint, cost, sell int64) CreateOrderInput {
	return CreateOrderInput{
		AffiliateID:   affiliateID,
		CustomerName:  "Fahad Al-Otaibi",
		CustomerPhone: "+966501112233",
		Address:       "King Fahd Road 12",
		City:          "Riyadh",
		Country:       constants.CountrySaudiArabia,
		Product:       "无线蓝牙耳机",
		ProductCode:   "SKU-EARBUDS",
		CostPrice:     models.NewMoneyFromDecimal(decimal.NewFromInt(cost)),
		SellingPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(sell)),
	}
}

func TestOrderServiceCreateOrder(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	affiliate := createTestAffiliate(t, db, "create-order")

	order, err := svc.CreateOrder(saudiOrderInput(affiliate.ID, 100, 150))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Currency != constants.CurrencySAR {
		t.Fatalf("unexpected currency: %s", order.Currency)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	// flat 模式下佣金为差价（本地币种）
	if order.Commission.String() != "50.00" {
		t.Fatalf("unexpected commission: %s", order.Commission.String())
	}
	if order.OrderNo == "" {
		t.Fatalf("expected order no to be generated")
	}

	var refreshed models.Affiliate
	if err := db.First(&refreshed, affiliate.ID).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if refreshed.TotalOrders != 1 {
		t.Fatalf("expected total_orders 1, got %d", refreshed.TotalOrders)
	}
	// 创建不入账，余额仍为零
	if !refreshed.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", refreshed.Balance.String())
	}
}

func TestOrderServiceCreateOrderValidation(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	affiliate := createTestAffiliate(t, db, "create-order-validation")

	// 售价必须高于成本价
	input := saudiOrderInput(affiliate.ID, 150, 100)
	if _, err := svc.CreateOrder(input); !errors.Is(err, ErrInvalidPricing) {
		t.Fatalf("expected invalid pricing, got: %v", err)
	}
	input = saudiOrderInput(affiliate.ID, 100, 100)
	if _, err := svc.CreateOrder(input); !errors.Is(err, ErrInvalidPricing) {
		t.Fatalf("expected invalid pricing for equal prices, got: %v", err)
	}

	input = saudiOrderInput(affiliate.ID, 100, 150)
	input.Country = "Egypt"
	if _, err := svc.CreateOrder(input); !errors.Is(err, ErrUnknownCountry) {
		t.Fatalf("expected unknown country, got: %v", err)
	}

	input = saudiOrderInput(affiliate.ID, 100, 150)
	input.CustomerPhone = "+971501234567" // 阿联酋号段下沙特订单
	if _, err := svc.CreateOrder(input); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected invalid phone, got: %v", err)
	}

	input = saudiOrderInput(0, 100, 150)
	if _, err := svc.CreateOrder(input); !errors.Is(err, ErrAffiliateNotFound) {
		t.Fatalf("expected affiliate not found, got: %v", err)
	}

	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orders persisted, got %d", count)
	}
}

func TestOrderServiceRateLimit(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	affiliate := createTestAffiliate(t, db, "rate-limit")

	for i := 0; i < 10; i++ {
		if _, err := svc.CreateOrder(saudiOrderInput(affiliate.ID, 100, 150)); err != nil {
			t.Fatalf("create order %d failed: %v", i+1, err)
		}
	}

	if _, err := svc.CreateOrder(saudiOrderInput(affiliate.ID, 100, 150)); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected rate limited on 11th order, got: %v", err)
	}

	allowed, err := svc.AllowOrder(affiliate.ID)
	if err != nil {
		t.Fatalf("allow order failed: %v", err)
	}
	if allowed {
		t.Fatalf("expected allow order to report false")
	}

	// 窗口滚动后重新放行
	past := time.Now().Add(-2 * time.Minute)
	if err := db.Model(&models.Order{}).
		Where("affiliate_id = ?", affiliate.ID).
		Update("created_at", past).Error; err != nil {
		t.Fatalf("age orders failed: %v", err)
	}
	if _, err := svc.CreateOrder(saudiOrderInput(affiliate.ID, 100, 150)); err != nil {
		t.Fatalf("expected order allowed after window passed, got: %v", err)
	}
}

func TestOrderServiceMarkDelivered(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	affiliate := createTestAffiliate(t, db, "mark-delivered")

	order, err := svc.CreateOrder(saudiOrderInput(affiliate.ID, 100, 150))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	delivered, err := svc.MarkDelivered(order.ID)
	if err != nil {
		t.Fatalf("mark delivered failed: %v", err)
	}
	if delivered.Status != constants.OrderStatusDelivered {
		t.Fatalf("unexpected status: %s", delivered.Status)
	}
	if delivered.DeliveredAt == nil {
		t.Fatalf("expected delivered_at set")
	}

	var refreshed models.Affiliate
	if err := db.First(&refreshed, affiliate.ID).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	// 佣金 50 SAR * 0.2665 = 13.325 -> 13.33，售价 150 SAR * 0.2665 = 39.975 -> 39.98
	if refreshed.Balance.String() != "13.33" {
		t.Fatalf("unexpected balance: %s", refreshed.Balance.String())
	}
	if refreshed.TotalEarnings.String() != "13.33" {
		t.Fatalf("unexpected total earnings: %s", refreshed.TotalEarnings.String())
	}
	if refreshed.TotalSales.String() != "39.98" {
		t.Fatalf("unexpected total sales: %s", refreshed.TotalSales.String())
	}
}

func TestOrderServiceMarkDeliveredIdempotent(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	affiliate := createTestAffiliate(t, db, "deliver-twice")

	order, err := svc.CreateOrder(saudiOrderInput(affiliate.ID, 100, 150))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.MarkDelivered(order.ID); err != nil {
		t.Fatalf("first mark delivered failed: %v", err)
	}

	_, err = svc.MarkDelivered(order.ID)
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected already processed, got: %v", err)
	}
	var processed *AlreadyProcessedError
	if !errors.As(err, &processed) || processed.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected observed status delivered, got: %v", err)
	}

	// 重复交付不得二次入账
	var refreshed models.Affiliate
	if err := db.First(&refreshed, affiliate.ID).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if refreshed.Balance.String() != "13.33" {
		t.Fatalf("balance changed on duplicate delivery: %s", refreshed.Balance.String())
	}
	if refreshed.TotalEarnings.String() != "13.33" {
		t.Fatalf("total earnings changed on duplicate delivery: %s", refreshed.TotalEarnings.String())
	}
}

func TestOrderServiceMarkIssue(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	affiliate := createTestAffiliate(t, db, "mark-issue")

	order, err := svc.CreateOrder(saudiOrderInput(affiliate.ID, 100, 150))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	flagged, err := svc.MarkIssue(order.ID)
	if err != nil {
		t.Fatalf("mark issue failed: %v", err)
	}
	if flagged.Status != constants.OrderStatusIssue {
		t.Fatalf("unexpected status: %s", flagged.Status)
	}

	// 异常订单不入账
	var refreshed models.Affiliate
	if err := db.First(&refreshed, affiliate.ID).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if !refreshed.Balance.IsZero() || !refreshed.TotalEarnings.IsZero() {
		t.Fatalf("issue order must not credit ledger: balance=%s earnings=%s",
			refreshed.Balance.String(), refreshed.TotalEarnings.String())
	}
	if refreshed.TotalOrders != 1 {
		t.Fatalf("expected total_orders 1, got %d", refreshed.TotalOrders)
	}

	// 终态之间不允许再流转
	if _, err := svc.MarkDelivered(order.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected already processed, got: %v", err)
	}
}

func TestOrderServiceListPending(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	affiliate := createTestAffiliate(t, db, "list-pending")

	first, err := svc.CreateOrder(saudiOrderInput(affiliate.ID, 100, 150))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.CreateOrder(saudiOrderInput(affiliate.ID, 100, 160)); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.MarkDelivered(first.ID); err != nil {
		t.Fatalf("mark delivered failed: %v", err)
	}

	rows, total, err := svc.ListPending(1, 20)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected 1 pending order, got total=%d rows=%d", total, len(rows))
	}
	if rows[0].Status != constants.OrderStatusPending {
		t.Fatalf("unexpected status in pending list: %s", rows[0].Status)
	}
}
