package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tijara-next/internal/constants"
)

// 电话格式约束：推广员与收款电话为埃及号段，客户电话按国家号段校验。
var (
	affiliatePhonePattern = regexp.MustCompile(`^\+20\d{10}$`)

	customerPhonePatterns = map[string]*regexp.Regexp{
		constants.CountrySaudiArabia: regexp.MustCompile(`^\+966\d{9}$`),
		constants.CountryUAE:         regexp.MustCompile(`^\+971\d{9}$`),
	}
)

// ValidateAffiliatePhone 校验推广员/收款电话格式
func ValidateAffiliatePhone(phone string) error {
	if !affiliatePhonePattern.MatchString(strings.TrimSpace(phone)) {
		return fmt.Errorf("%w: %s", ErrInvalidPhone, phone)
	}
	return nil
}

// ValidateCustomerPhone 按客户国家校验电话格式
// 未配置号段的国家只要求非空，格式校验留给采集端。
func ValidateCustomerPhone(country, phone string) error {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return fmt.Errorf("%w: empty phone", ErrInvalidPhone)
	}
	pattern, ok := customerPhonePatterns[strings.TrimSpace(country)]
	if !ok {
		return nil
	}
	if !pattern.MatchString(trimmed) {
		return fmt.Errorf("%w: %s", ErrInvalidPhone, phone)
	}
	return nil
}
