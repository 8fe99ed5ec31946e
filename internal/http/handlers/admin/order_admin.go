package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/tijara-next/internal/http/response"
	"github.com/tijara-next/internal/repository"
	"github.com/tijara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	status := strings.TrimSpace(c.Query("status"))
	country := strings.TrimSpace(c.Query("country"))
	productCode := strings.TrimSpace(c.Query("product_code"))
	affiliateIDStr := strings.TrimSpace(c.Query("affiliate_id"))

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间参数无效", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间参数无效", err)
		return
	}
	var affiliateID uint
	if affiliateIDStr != "" {
		if parsed, err := strconv.ParseUint(affiliateIDStr, 10, 64); err == nil {
			affiliateID = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		AffiliateID: affiliateID,
		Status:      status,
		Country:     country,
		ProductCode: productCode,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}

	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// AdminListPendingOrders 管理端待处理订单队列
func (h *Handler) AdminListPendingOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListPending(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}

	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID无效", nil)
		return
	}

	order, err := h.OrderService.GetByID(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}

	response.Success(c, order)
}

// AdminMarkOrderDelivered 管理端标记订单已交付
func (h *Handler) AdminMarkOrderDelivered(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID无效", nil)
		return
	}

	order, err := h.OrderService.MarkDelivered(uint(orderID))
	if err != nil {
		h.respondOrderTransitionError(c, err)
		return
	}

	response.Success(c, order)
}

// AdminMarkOrderIssue 管理端标记订单异常
func (h *Handler) AdminMarkOrderIssue(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID无效", nil)
		return
	}

	order, err := h.OrderService.MarkIssue(uint(orderID))
	if err != nil {
		h.respondOrderTransitionError(c, err)
		return
	}

	response.Success(c, order)
}

func (h *Handler) respondOrderTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "订单不存在", nil)
	case errors.Is(err, service.ErrAlreadyProcessed):
		var processed *service.AlreadyProcessedError
		if errors.As(err, &processed) {
			response.ErrorWithData(c, response.CodeConflict, "订单已处理", gin.H{"status": processed.Status})
			return
		}
		respondError(c, response.CodeConflict, "订单已处理", nil)
	case errors.Is(err, service.ErrAffiliateNotFound):
		respondError(c, response.CodeNotFound, "推广员不存在", nil)
	case errors.Is(err, service.ErrUnknownCurrency):
		respondError(c, response.CodeBadRequest, "币种不受支持", err)
	default:
		respondError(c, response.CodeInternal, "订单更新失败", err)
	}
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, errors.New("invalid time format: " + raw)
}
