package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/models"
	"github.com/tijara-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAffiliateServiceTest(t *testing.T) (*AffiliateService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:affiliate_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Affiliate{}, &models.Order{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewAffiliateService(repository.NewAffiliateRepository(db)), db
}

func TestAffiliateServiceRegister(t *testing.T) {
	svc, _ := setupAffiliateServiceTest(t)

	affiliate, err := svc.Register(RegisterInput{
		ExternalID: "tg-10001",
		Name:       "Amira Hassan",
		Phone:      "+201001234567",
		StoreName:  "Amira Store",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if affiliate.ID == 0 {
		t.Fatalf("expected id assigned")
	}
	if !affiliate.Balance.IsZero() || affiliate.TotalOrders != 0 {
		t.Fatalf("expected fresh ledger, got balance=%s orders=%d",
			affiliate.Balance.String(), affiliate.TotalOrders)
	}

	// 同一外部身份仅注册一次
	_, err = svc.Register(RegisterInput{
		ExternalID: "tg-10001",
		Name:       "Someone Else",
		Phone:      "+201009876543",
	})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("expected duplicate identity, got: %v", err)
	}
}

func TestAffiliateServiceRegisterValidation(t *testing.T) {
	svc, _ := setupAffiliateServiceTest(t)

	if _, err := svc.Register(RegisterInput{Name: "No ID", Phone: "+201001234567"}); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected invalid identity, got: %v", err)
	}
	if _, err := svc.Register(RegisterInput{ExternalID: "tg-2", Phone: "+201001234567"}); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected invalid identity for missing name, got: %v", err)
	}
	if _, err := svc.Register(RegisterInput{ExternalID: "tg-3", Name: "Bad Phone", Phone: "+15551234567"}); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected invalid phone, got: %v", err)
	}
}

func TestAffiliateServiceGetByExternalID(t *testing.T) {
	svc, _ := setupAffiliateServiceTest(t)

	if _, err := svc.Register(RegisterInput{
		ExternalID: "tg-20002",
		Name:       "Karim Mostafa",
		Phone:      "+201109876543",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	affiliate, err := svc.GetByExternalID("tg-20002")
	if err != nil {
		t.Fatalf("get by external id failed: %v", err)
	}
	if affiliate.Name != "Karim Mostafa" {
		t.Fatalf("unexpected name: %s", affiliate.Name)
	}

	if _, err := svc.GetByExternalID("tg-missing"); !errors.Is(err, ErrAffiliateNotFound) {
		t.Fatalf("expected affiliate not found, got: %v", err)
	}
}

func TestAffiliateServiceStats(t *testing.T) {
	svc, db := setupAffiliateServiceTest(t)

	affiliate, err := svc.Register(RegisterInput{
		ExternalID: "tg-30003",
		Name:       "Nour El-Sayed",
		Phone:      "+201234567890",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	seedStatuses := []string{
		constants.OrderStatusDelivered,
		constants.OrderStatusDelivered,
		constants.OrderStatusPending,
		constants.OrderStatusIssue,
	}
	for i, status := range seedStatuses {
		order := models.Order{
			OrderNo:       fmt.Sprintf("TJO-STATS-%04d", i),
			AffiliateID:   affiliate.ID,
			CustomerName:  "Test Customer",
			CustomerPhone: "+966501112233",
			Country:       constants.CountrySaudiArabia,
			Currency:      constants.CurrencySAR,
			Product:       "Test Product",
			Status:        status,
		}
		if err := db.Create(&order).Error; err != nil {
			t.Fatalf("seed order failed: %v", err)
		}
	}

	stats, err := svc.Stats(affiliate.ID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.DeliveredCount != 2 || stats.PendingCount != 1 || stats.IssueCount != 1 {
		t.Fatalf("unexpected status counts: %+v", stats)
	}

	if _, err := svc.Stats(9999); !errors.Is(err, ErrAffiliateNotFound) {
		t.Fatalf("expected affiliate not found, got: %v", err)
	}
}
