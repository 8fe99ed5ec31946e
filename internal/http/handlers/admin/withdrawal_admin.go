package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tijara-next/internal/http/response"
	"github.com/tijara-next/internal/repository"
	"github.com/tijara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListWithdrawals 管理端提现列表
func (h *Handler) AdminListWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	status := strings.TrimSpace(c.Query("status"))
	affiliateIDStr := strings.TrimSpace(c.Query("affiliate_id"))
	var affiliateID uint
	if affiliateIDStr != "" {
		if parsed, err := strconv.ParseUint(affiliateIDStr, 10, 64); err == nil {
			affiliateID = uint(parsed)
		}
	}

	rows, total, err := h.WithdrawalService.List(repository.WithdrawalListFilter{
		Page:        page,
		PageSize:    pageSize,
		AffiliateID: affiliateID,
		Status:      status,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "提现查询失败", err)
		return
	}

	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// AdminListPendingWithdrawals 管理端待审核提现队列
func (h *Handler) AdminListPendingWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rows, total, err := h.WithdrawalService.ListPending(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "提现查询失败", err)
		return
	}

	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// AdminGetWithdrawal 管理端提现详情
func (h *Handler) AdminGetWithdrawal(c *gin.Context) {
	withdrawalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || withdrawalID == 0 {
		respondError(c, response.CodeBadRequest, "提现ID无效", nil)
		return
	}

	withdrawal, err := h.WithdrawalService.GetByID(uint(withdrawalID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "提现申请不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "提现查询失败", err)
		return
	}

	response.Success(c, withdrawal)
}

// AdminReviewWithdrawalRequest 审核提现请求
type AdminReviewWithdrawalRequest struct {
	Action string `json:"action" binding:"required"` // approve / reject
	Reason string `json:"reason"`
}

// AdminReviewWithdrawal 管理端审核提现申请
func (h *Handler) AdminReviewWithdrawal(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	withdrawalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || withdrawalID == 0 {
		respondError(c, response.CodeBadRequest, "提现ID无效", nil)
		return
	}

	var req AdminReviewWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	withdrawal, err := h.WithdrawalService.Review(adminID, uint(withdrawalID), req.Action, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "提现申请不存在", nil)
		case errors.Is(err, service.ErrAlreadyProcessed):
			var processed *service.AlreadyProcessedError
			if errors.As(err, &processed) {
				response.ErrorWithData(c, response.CodeConflict, "提现申请已处理", gin.H{"status": processed.Status})
				return
			}
			respondError(c, response.CodeConflict, "提现申请已处理", nil)
		case errors.Is(err, service.ErrInsufficientBalance):
			respondError(c, response.CodeBadRequest, "余额不足", nil)
		case errors.Is(err, service.ErrAffiliateNotFound):
			respondError(c, response.CodeNotFound, "推广员不存在", nil)
		default:
			respondError(c, response.CodeInternal, "提现审核失败", err)
		}
		return
	}

	response.Success(c, withdrawal)
}
