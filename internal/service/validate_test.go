package service

import (
	"errors"
	"testing"

	"github.com/tijara-next/internal/constants"
)

func TestValidateAffiliatePhone(t *testing.T) {
	if err := ValidateAffiliatePhone("+201001234567"); err != nil {
		t.Fatalf("expected valid phone, got: %v", err)
	}

	invalid := []string{
		"",
		"+20100123456",    // 位数不足
		"+2010012345678",  // 位数超出
		"+211001234567",   // 国码错误
		"201001234567",    // 缺少加号
		"+20 1001234567",  // 含空格
	}
	for _, phone := range invalid {
		if err := ValidateAffiliatePhone(phone); !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("expected invalid phone for %q, got: %v", phone, err)
		}
	}
}

func TestValidateCustomerPhone(t *testing.T) {
	if err := ValidateCustomerPhone(constants.CountrySaudiArabia, "+966501234567"); err != nil {
		t.Fatalf("expected valid saudi phone, got: %v", err)
	}
	if err := ValidateCustomerPhone(constants.CountryUAE, "+971501234567"); err != nil {
		t.Fatalf("expected valid uae phone, got: %v", err)
	}

	if err := ValidateCustomerPhone(constants.CountrySaudiArabia, "+971501234567"); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected country mismatch rejection, got: %v", err)
	}
	if err := ValidateCustomerPhone(constants.CountryUAE, "+9715012345"); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected short phone rejection, got: %v", err)
	}
	if err := ValidateCustomerPhone(constants.CountrySaudiArabia, ""); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected empty phone rejection, got: %v", err)
	}

	// 未配置号段的国家只要求非空
	if err := ValidateCustomerPhone("Kuwait", "+96550001234"); err != nil {
		t.Fatalf("expected pass-through for unconfigured country, got: %v", err)
	}
}
