package service

import (
	"errors"
	"fmt"
)

// 领域错误（经 errors.Is 分发，由接入层转换为用户可读文案）
var (
	ErrNotFound            = errors.New("record not found")
	ErrAffiliateNotFound   = errors.New("affiliate not found")
	ErrInvalidIdentity     = errors.New("identity or name missing")
	ErrDuplicateIdentity   = errors.New("identity already registered")
	ErrInvalidPhone        = errors.New("phone format invalid")
	ErrInvalidPricing      = errors.New("pricing invalid")
	ErrRateLimited         = errors.New("order rate limit exceeded")
	ErrUnknownCurrency     = errors.New("currency not supported")
	ErrUnknownCountry      = errors.New("country not supported")
	ErrInvalidAmount       = errors.New("amount invalid")
	ErrBelowMinimum        = errors.New("amount below withdrawal minimum")
	ErrInsufficientBalance = errors.New("balance insufficient")
	ErrDuplicatePending    = errors.New("pending withdrawal already exists")
	ErrAlreadyProcessed    = errors.New("entity already processed")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidPassword     = errors.New("password invalid")
	ErrLoginLocked         = errors.New("login temporarily locked")
)

// AlreadyProcessedError 终态冲突错误，携带当前状态供调用方回显。
// errors.Is(err, ErrAlreadyProcessed) 仍然成立。
type AlreadyProcessedError struct {
	Status string
}

// Error 实现 error 接口
func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("entity already processed: status=%s", e.Status)
}

// Is 与 ErrAlreadyProcessed 哨兵对齐
func (e *AlreadyProcessedError) Is(target error) bool {
	return target == ErrAlreadyProcessed
}

// NewAlreadyProcessedError 创建终态冲突错误
func NewAlreadyProcessedError(status string) error {
	return &AlreadyProcessedError{Status: status}
}
