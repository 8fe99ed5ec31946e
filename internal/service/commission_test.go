package service

import (
	"testing"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestCommissionPolicyFlat(t *testing.T) {
	policy, err := NewCommissionPolicy(config.LedgerConfig{CommissionMode: "flat"})
	if err != nil {
		t.Fatalf("new commission policy failed: %v", err)
	}

	got := policy.Commission(
		models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		models.NewMoneyFromDecimal(decimal.NewFromInt(150)),
	)
	if got.String() != "50.00" {
		t.Fatalf("unexpected flat commission: %s", got.String())
	}
}

func TestCommissionPolicyPercent(t *testing.T) {
	policy, err := NewCommissionPolicy(config.LedgerConfig{
		CommissionMode:    "percent",
		CommissionPercent: "15",
	})
	if err != nil {
		t.Fatalf("new commission policy failed: %v", err)
	}

	got := policy.Commission(
		models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		models.NewMoneyFromDecimal(decimal.NewFromInt(150)),
	)
	// 差价 50 的 15% = 7.50
	if got.String() != "7.50" {
		t.Fatalf("unexpected percent commission: %s", got.String())
	}
}

func TestCommissionPolicyDefaultsToFlat(t *testing.T) {
	policy, err := NewCommissionPolicy(config.LedgerConfig{})
	if err != nil {
		t.Fatalf("new commission policy failed: %v", err)
	}
	if policy.Mode() != "flat" {
		t.Fatalf("expected flat mode, got: %s", policy.Mode())
	}
}

func TestCommissionPolicyRejectsBadConfig(t *testing.T) {
	if _, err := NewCommissionPolicy(config.LedgerConfig{CommissionMode: "tiered"}); err == nil {
		t.Fatalf("expected error for unsupported mode")
	}
	if _, err := NewCommissionPolicy(config.LedgerConfig{
		CommissionMode:    "percent",
		CommissionPercent: "120",
	}); err == nil {
		t.Fatalf("expected error for percent out of range")
	}
}
