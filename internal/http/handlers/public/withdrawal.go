package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tijara-next/internal/http/response"
	"github.com/tijara-next/internal/models"
	"github.com/tijara-next/internal/repository"
	"github.com/tijara-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RequestWithdrawalRequest 采集端提现申请请求
type RequestWithdrawalRequest struct {
	AffiliateExternalID string `json:"affiliate_external_id" binding:"required"`
	Amount              string `json:"amount" binding:"required"`
	PayoutPhone         string `json:"payout_phone" binding:"required"`
}

// RequestWithdrawal 采集端提交提现申请
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	var req RequestWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		respondError(c, response.CodeBadRequest, "金额格式无效", nil)
		return
	}

	affiliate, err := h.AffiliateService.GetByExternalID(strings.TrimSpace(req.AffiliateExternalID))
	if err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			respondError(c, response.CodeNotFound, "推广员不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "推广员查询失败", err)
		return
	}

	withdrawal, err := h.WithdrawalService.Request(affiliate.ID, models.NewMoneyFromDecimal(amount), req.PayoutPhone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			respondError(c, response.CodeBadRequest, "金额必须大于零", nil)
		case errors.Is(err, service.ErrBelowMinimum):
			respondError(c, response.CodeBadRequest, "金额低于最低提现额 "+h.WithdrawalService.MinAmount().StringFixed(2), nil)
		case errors.Is(err, service.ErrInvalidPhone):
			respondError(c, response.CodeBadRequest, "收款手机号格式无效", nil)
		case errors.Is(err, service.ErrInsufficientBalance):
			respondError(c, response.CodeBadRequest, "余额不足", nil)
		case errors.Is(err, service.ErrDuplicatePending):
			respondError(c, response.CodeConflict, "已存在待审核的提现申请", nil)
		case errors.Is(err, service.ErrAffiliateNotFound):
			respondError(c, response.CodeNotFound, "推广员不存在", nil)
		default:
			respondError(c, response.CodeInternal, "提现申请失败", err)
		}
		return
	}

	response.Success(c, withdrawal)
}

// ListAffiliateWithdrawals 查询推广员提现列表
func (h *Handler) ListAffiliateWithdrawals(c *gin.Context) {
	affiliate, ok := h.resolveAffiliate(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	status := strings.TrimSpace(c.Query("status"))

	rows, total, err := h.WithdrawalService.List(repository.WithdrawalListFilter{
		Page:        page,
		PageSize:    pageSize,
		AffiliateID: affiliate.ID,
		Status:      status,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "提现查询失败", err)
		return
	}

	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}
