package service

import (
	"fmt"
	"strings"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/models"

	"github.com/shopspring/decimal"
)

// CurrencyService 币种归一化服务
// 汇率与国家映射在构造时解析一次，进程生命周期内不可变。
type CurrencyService struct {
	settlement string
	rates      map[string]decimal.Decimal
	countries  map[string]string
}

// NewCurrencyService 创建币种归一化服务
func NewCurrencyService(cfg config.LedgerConfig) (*CurrencyService, error) {
	settlement := strings.ToUpper(strings.TrimSpace(cfg.SettlementCurrency))
	if settlement == "" {
		settlement = constants.CurrencyUSD
	}

	rates := make(map[string]decimal.Decimal, len(cfg.Rates)+1)
	for code, raw := range cfg.Rates {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		if normalized == "" {
			continue
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("parse rate for %s failed: %w", normalized, err)
		}
		if rate.Sign() <= 0 {
			return nil, fmt.Errorf("rate for %s must be positive", normalized)
		}
		rates[normalized] = rate
	}
	// 结算币种恒等换算
	rates[settlement] = decimal.NewFromInt(1)

	countries := make(map[string]string, len(cfg.CountryCurrencies))
	for country, code := range cfg.CountryCurrencies {
		trimmedCountry := strings.TrimSpace(country)
		normalizedCode := strings.ToUpper(strings.TrimSpace(code))
		if trimmedCountry == "" || normalizedCode == "" {
			continue
		}
		if _, ok := rates[normalizedCode]; !ok {
			return nil, fmt.Errorf("country %s maps to unsupported currency %s", trimmedCountry, normalizedCode)
		}
		countries[trimmedCountry] = normalizedCode
	}

	return &CurrencyService{
		settlement: settlement,
		rates:      rates,
		countries:  countries,
	}, nil
}

// Settlement 返回结算币种
func (s *CurrencyService) Settlement() string {
	return s.settlement
}

// Supported 判断币种是否受支持
func (s *CurrencyService) Supported(currency string) bool {
	_, ok := s.rates[strings.ToUpper(strings.TrimSpace(currency))]
	return ok
}

// Normalize 将本地币种金额换算为结算币种金额
func (s *CurrencyService) Normalize(amount models.Money, currency string) (models.Money, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	rate, ok := s.rates[code]
	if !ok {
		return models.Money{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return models.NewMoneyFromDecimal(amount.Decimal.Mul(rate)), nil
}

// CurrencyForCountry 由客户国家推导本地币种
func (s *CurrencyService) CurrencyForCountry(country string) (string, error) {
	code, ok := s.countries[strings.TrimSpace(country)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCountry, country)
	}
	return code, nil
}
