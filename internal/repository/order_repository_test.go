package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Affiliate{}, &models.Order{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func seedOrder(t *testing.T, db *gorm.DB, orderNo string, affiliateID uint, status, country string, createdAt time.Time) {
	t.Helper()
	order := models.Order{
		OrderNo:       orderNo,
		AffiliateID:   affiliateID,
		CustomerName:  "Customer",
		CustomerPhone: "+966501112233",
		Country:       country,
		Currency:      constants.CurrencySAR,
		Product:       "Product",
		Status:        status,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order %s failed: %v", orderNo, err)
	}
}

func TestOrderRepositoryCountCreatedSince(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	now := time.Now()

	seedOrder(t, db, "TJO-CNT-0001", 1, constants.OrderStatusPending, constants.CountrySaudiArabia, now.Add(-30*time.Second))
	seedOrder(t, db, "TJO-CNT-0002", 1, constants.OrderStatusDelivered, constants.CountrySaudiArabia, now.Add(-45*time.Second))
	seedOrder(t, db, "TJO-CNT-0003", 1, constants.OrderStatusPending, constants.CountrySaudiArabia, now.Add(-5*time.Minute))
	seedOrder(t, db, "TJO-CNT-0004", 2, constants.OrderStatusPending, constants.CountrySaudiArabia, now.Add(-10*time.Second))

	// 窗口内计数不区分订单结局
	count, err := repo.CountCreatedSince(1, now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("count created since failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 orders in window, got %d", count)
	}

	count, err = repo.CountCreatedSince(1, now.Add(-10*time.Minute))
	if err != nil {
		t.Fatalf("count created since failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 orders in wide window, got %d", count)
	}

	count, err = repo.CountCreatedSince(0, now.Add(-time.Minute))
	if err != nil || count != 0 {
		t.Fatalf("expected zero count for zero affiliate, got count=%d err=%v", count, err)
	}
}

func TestOrderRepositoryListFilters(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	now := time.Now()

	affiliate := models.Affiliate{ExternalID: "list-filter", Name: "A", Phone: "+201001234567"}
	if err := db.Create(&affiliate).Error; err != nil {
		t.Fatalf("seed affiliate failed: %v", err)
	}

	seedOrder(t, db, "TJO-LST-0001", affiliate.ID, constants.OrderStatusPending, constants.CountrySaudiArabia, now.Add(-time.Hour))
	seedOrder(t, db, "TJO-LST-0002", affiliate.ID, constants.OrderStatusDelivered, constants.CountrySaudiArabia, now.Add(-2*time.Hour))
	seedOrder(t, db, "TJO-LST-0003", affiliate.ID, constants.OrderStatusPending, constants.CountryUAE, now.Add(-30*time.Hour))

	rows, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 10, Status: constants.OrderStatusPending})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 pending orders, got total=%d rows=%d", total, len(rows))
	}

	rows, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, Country: constants.CountryUAE})
	if err != nil {
		t.Fatalf("list by country failed: %v", err)
	}
	if total != 1 || rows[0].OrderNo != "TJO-LST-0003" {
		t.Fatalf("unexpected country filter result: total=%d", total)
	}

	from := now.Add(-3 * time.Hour)
	_, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, CreatedFrom: &from})
	if err != nil {
		t.Fatalf("list by created_from failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 recent orders, got %d", total)
	}

	// 分页
	rows, total, err = repo.List(OrderListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list paginated failed: %v", err)
	}
	if total != 3 || len(rows) != 1 {
		t.Fatalf("unexpected pagination: total=%d rows=%d", total, len(rows))
	}
}

func TestOrderRepositoryGetByOrderNo(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	seedOrder(t, db, "TJO-GET-0001", 1, constants.OrderStatusPending, constants.CountrySaudiArabia, time.Now())

	order, err := repo.GetByOrderNo("TJO-GET-0001")
	if err != nil {
		t.Fatalf("get by order no failed: %v", err)
	}
	if order == nil || order.OrderNo != "TJO-GET-0001" {
		t.Fatalf("unexpected order: %+v", order)
	}

	order, err = repo.GetByOrderNo("TJO-MISSING")
	if err != nil {
		t.Fatalf("expected nil error for missing order, got: %v", err)
	}
	if order != nil {
		t.Fatalf("expected nil order for missing order no")
	}
}
