package service

import (
	"fmt"
	"strings"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/models"

	"github.com/shopspring/decimal"
)

// CommissionPolicy 佣金计算策略
// 计算方式是显式命名的部署参数：flat 取差价，percent 取差价的固定比例。
type CommissionPolicy struct {
	mode    string
	percent decimal.Decimal
}

// NewCommissionPolicy 从配置构造佣金策略
func NewCommissionPolicy(cfg config.LedgerConfig) (*CommissionPolicy, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.CommissionMode))
	if mode == "" {
		mode = constants.CommissionModeFlat
	}
	if mode != constants.CommissionModeFlat && mode != constants.CommissionModePercent {
		return nil, fmt.Errorf("unsupported commission mode: %s", cfg.CommissionMode)
	}

	percent := decimal.NewFromInt(100)
	if raw := strings.TrimSpace(cfg.CommissionPercent); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parse commission percent failed: %w", err)
		}
		if parsed.Sign() <= 0 || parsed.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("commission percent out of range: %s", raw)
		}
		percent = parsed
	}

	return &CommissionPolicy{mode: mode, percent: percent}, nil
}

// Mode 返回佣金计算方式
func (p *CommissionPolicy) Mode() string {
	return p.mode
}

// Commission 按策略计算订单佣金（本地币种）
func (p *CommissionPolicy) Commission(costPrice, sellingPrice models.Money) models.Money {
	margin := sellingPrice.Decimal.Sub(costPrice.Decimal)
	if p.mode == constants.CommissionModePercent {
		margin = margin.Mul(p.percent).Div(decimal.NewFromInt(100))
	}
	return models.NewMoneyFromDecimal(margin)
}
