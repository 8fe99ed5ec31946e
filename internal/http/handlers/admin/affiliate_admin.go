package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/http/response"
	"github.com/tijara-next/internal/repository"
	"github.com/tijara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListAffiliates 管理端推广员列表
func (h *Handler) AdminListAffiliates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	keyword := strings.TrimSpace(c.Query("keyword"))

	rows, total, err := h.AffiliateService.List(repository.AffiliateListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  keyword,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "推广员查询失败", err)
		return
	}

	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// AdminGetAffiliate 管理端推广员详情
func (h *Handler) AdminGetAffiliate(c *gin.Context) {
	affiliateID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || affiliateID == 0 {
		respondError(c, response.CodeBadRequest, "推广员ID无效", nil)
		return
	}

	affiliate, err := h.AffiliateService.GetByID(uint(affiliateID))
	if err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			respondError(c, response.CodeNotFound, "推广员不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "推广员查询失败", err)
		return
	}

	response.Success(c, affiliate)
}

// AdminGetAffiliateStats 管理端推广员统计
func (h *Handler) AdminGetAffiliateStats(c *gin.Context) {
	affiliateID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || affiliateID == 0 {
		respondError(c, response.CodeBadRequest, "推广员ID无效", nil)
		return
	}

	stats, err := h.AffiliateService.Stats(uint(affiliateID))
	if err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			respondError(c, response.CodeNotFound, "推广员不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "统计查询失败", err)
		return
	}

	response.Success(c, stats)
}

// AdminOverview 管理端总览（推广员/待处理订单/待审核提现计数）
func (h *Handler) AdminOverview(c *gin.Context) {
	_, affiliateTotal, err := h.AffiliateService.List(repository.AffiliateListFilter{Page: 1, PageSize: 1})
	if err != nil {
		respondError(c, response.CodeInternal, "统计查询失败", err)
		return
	}
	_, pendingOrders, err := h.OrderService.List(repository.OrderListFilter{
		Page: 1, PageSize: 1, Status: constants.OrderStatusPending,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "统计查询失败", err)
		return
	}
	_, deliveredOrders, err := h.OrderService.List(repository.OrderListFilter{
		Page: 1, PageSize: 1, Status: constants.OrderStatusDelivered,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "统计查询失败", err)
		return
	}
	_, pendingWithdrawals, err := h.WithdrawalService.List(repository.WithdrawalListFilter{
		Page: 1, PageSize: 1, Status: constants.WithdrawStatusPending,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "统计查询失败", err)
		return
	}

	response.Success(c, gin.H{
		"affiliate_total":     affiliateTotal,
		"pending_orders":      pendingOrders,
		"delivered_orders":    deliveredOrders,
		"pending_withdrawals": pendingWithdrawals,
	})
}
