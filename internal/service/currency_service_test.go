package service

import (
	"errors"
	"testing"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/models"

	"github.com/shopspring/decimal"
)

func testLedgerConfig() config.LedgerConfig {
	return config.LedgerConfig{
		SettlementCurrency: "USD",
		Rates: map[string]string{
			"SAR": "0.2665",
			"AED": "0.2723",
		},
		CountryCurrencies: map[string]string{
			"Saudi Arabia": "SAR",
			"UAE":          "AED",
		},
		CommissionMode: "flat",
	}
}

func TestCurrencyServiceNormalize(t *testing.T) {
	svc, err := NewCurrencyService(testLedgerConfig())
	if err != nil {
		t.Fatalf("new currency service failed: %v", err)
	}

	got, err := svc.Normalize(models.NewMoneyFromDecimal(decimal.NewFromInt(150)), "SAR")
	if err != nil {
		t.Fatalf("normalize SAR failed: %v", err)
	}
	// 150 * 0.2665 = 39.975 -> 39.98
	if got.String() != "39.98" {
		t.Fatalf("unexpected SAR normalization: %s", got.String())
	}

	got, err = svc.Normalize(models.NewMoneyFromDecimal(decimal.NewFromInt(100)), "AED")
	if err != nil {
		t.Fatalf("normalize AED failed: %v", err)
	}
	if got.String() != "27.23" {
		t.Fatalf("unexpected AED normalization: %s", got.String())
	}

	// 结算币种恒等换算
	got, err = svc.Normalize(models.NewMoneyFromDecimal(decimal.NewFromInt(42)), "usd")
	if err != nil {
		t.Fatalf("normalize USD failed: %v", err)
	}
	if got.String() != "42.00" {
		t.Fatalf("unexpected USD normalization: %s", got.String())
	}
}

func TestCurrencyServiceUnknownCurrency(t *testing.T) {
	svc, err := NewCurrencyService(testLedgerConfig())
	if err != nil {
		t.Fatalf("new currency service failed: %v", err)
	}

	_, err = svc.Normalize(models.NewMoneyFromDecimal(decimal.NewFromInt(10)), "EUR")
	if !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected unknown currency, got: %v", err)
	}
}

func TestCurrencyServiceCurrencyForCountry(t *testing.T) {
	svc, err := NewCurrencyService(testLedgerConfig())
	if err != nil {
		t.Fatalf("new currency service failed: %v", err)
	}

	code, err := svc.CurrencyForCountry("Saudi Arabia")
	if err != nil {
		t.Fatalf("currency for country failed: %v", err)
	}
	if code != "SAR" {
		t.Fatalf("unexpected currency: %s", code)
	}

	if _, err := svc.CurrencyForCountry("Egypt"); !errors.Is(err, ErrUnknownCountry) {
		t.Fatalf("expected unknown country, got: %v", err)
	}
}

func TestCurrencyServiceRejectsBadConfig(t *testing.T) {
	cfg := testLedgerConfig()
	cfg.Rates = map[string]string{"SAR": "-1"}
	if _, err := NewCurrencyService(cfg); err == nil {
		t.Fatalf("expected error for non-positive rate")
	}

	cfg = testLedgerConfig()
	cfg.CountryCurrencies = map[string]string{"Egypt": "EGP"}
	if _, err := NewCurrencyService(cfg); err == nil {
		t.Fatalf("expected error for country with unsupported currency")
	}
}
