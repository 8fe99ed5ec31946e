package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupWithdrawalRepositoryTest(t *testing.T) (*GormWithdrawalRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:withdrawal_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Affiliate{}, &models.Withdrawal{}, &models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewWithdrawalRepository(db), db
}

func seedWithdrawal(t *testing.T, db *gorm.DB, affiliateID uint, status string, amount int64) *models.Withdrawal {
	t.Helper()
	withdrawal := &models.Withdrawal{
		AffiliateID: affiliateID,
		Amount:      models.NewMoneyFromDecimal(decimal.NewFromInt(amount)),
		PayoutPhone: "+201001234567",
		Currency:    constants.CurrencyUSD,
		Status:      status,
	}
	if err := db.Create(withdrawal).Error; err != nil {
		t.Fatalf("seed withdrawal failed: %v", err)
	}
	return withdrawal
}

func TestWithdrawalRepositoryCountPendingByAffiliate(t *testing.T) {
	repo, db := setupWithdrawalRepositoryTest(t)

	seedWithdrawal(t, db, 1, constants.WithdrawStatusPending, 60)
	seedWithdrawal(t, db, 1, constants.WithdrawStatusRejected, 50)
	seedWithdrawal(t, db, 1, constants.WithdrawStatusApproved, 70)
	seedWithdrawal(t, db, 2, constants.WithdrawStatusPending, 80)

	count, err := repo.CountPendingByAffiliate(1)
	if err != nil {
		t.Fatalf("count pending failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 pending withdrawal, got %d", count)
	}

	count, err = repo.CountPendingByAffiliate(3)
	if err != nil || count != 0 {
		t.Fatalf("expected zero pending for unknown affiliate, got count=%d err=%v", count, err)
	}
}

func TestWithdrawalRepositoryListByStatus(t *testing.T) {
	repo, db := setupWithdrawalRepositoryTest(t)

	seedWithdrawal(t, db, 1, constants.WithdrawStatusPending, 60)
	seedWithdrawal(t, db, 2, constants.WithdrawStatusPending, 70)
	seedWithdrawal(t, db, 1, constants.WithdrawStatusApproved, 90)

	rows, total, err := repo.List(WithdrawalListFilter{Page: 1, PageSize: 10, Status: constants.WithdrawStatusPending})
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 pending withdrawals, got total=%d rows=%d", total, len(rows))
	}

	rows, total, err = repo.List(WithdrawalListFilter{Page: 1, PageSize: 10, AffiliateID: 1})
	if err != nil {
		t.Fatalf("list by affiliate failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 withdrawals for affiliate 1, got %d", total)
	}
	for _, row := range rows {
		if row.AffiliateID != 1 {
			t.Fatalf("unexpected affiliate in filtered list: %d", row.AffiliateID)
		}
	}
}

func TestWithdrawalRepositoryGetByIDMissing(t *testing.T) {
	repo, _ := setupWithdrawalRepositoryTest(t)

	withdrawal, err := repo.GetByID(12345)
	if err != nil {
		t.Fatalf("expected nil error for missing withdrawal, got: %v", err)
	}
	if withdrawal != nil {
		t.Fatalf("expected nil withdrawal for missing id")
	}
}
