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

// CreateOrderRequest 采集端创建订单请求
// 金额使用字符串传递，避免浮点误差。
type CreateOrderRequest struct {
	AffiliateExternalID string `json:"affiliate_external_id" binding:"required"`
	CustomerName        string `json:"customer_name" binding:"required"`
	CustomerPhone       string `json:"customer_phone" binding:"required"`
	Address             string `json:"address"`
	City                string `json:"city"`
	Country             string `json:"country" binding:"required"`
	Product             string `json:"product" binding:"required"`
	ProductCode         string `json:"product_code"`
	CostPrice           string `json:"cost_price" binding:"required"`
	SellingPrice        string `json:"selling_price" binding:"required"`
}

// CreateOrder 采集端创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	costPrice, err := decimal.NewFromString(strings.TrimSpace(req.CostPrice))
	if err != nil {
		respondError(c, response.CodeBadRequest, "成本价格式无效", nil)
		return
	}
	sellingPrice, err := decimal.NewFromString(strings.TrimSpace(req.SellingPrice))
	if err != nil {
		respondError(c, response.CodeBadRequest, "售价格式无效", nil)
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

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		AffiliateID:   affiliate.ID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		City:          req.City,
		Country:       req.Country,
		Product:       req.Product,
		ProductCode:   req.ProductCode,
		CostPrice:     models.NewMoneyFromDecimal(costPrice),
		SellingPrice:  models.NewMoneyFromDecimal(sellingPrice),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAffiliateNotFound):
			respondError(c, response.CodeNotFound, "推广员不存在", nil)
		case errors.Is(err, service.ErrInvalidPricing):
			respondError(c, response.CodeBadRequest, "价格参数无效", nil)
		case errors.Is(err, service.ErrUnknownCountry):
			respondError(c, response.CodeBadRequest, "国家不受支持", nil)
		case errors.Is(err, service.ErrInvalidPhone):
			respondError(c, response.CodeBadRequest, "客户手机号格式无效", nil)
		case errors.Is(err, service.ErrRateLimited):
			respondError(c, response.CodeTooManyRequests, "下单过于频繁，请稍后再试", nil)
		default:
			respondError(c, response.CodeInternal, "订单创建失败", err)
		}
		return
	}

	requestLog(c).Infow("collector_order_created",
		"order_no", order.OrderNo,
		"affiliate_id", affiliate.ID,
	)
	response.Success(c, order)
}

// ListAffiliateOrders 查询推广员订单列表
func (h *Handler) ListAffiliateOrders(c *gin.Context) {
	affiliate, ok := h.resolveAffiliate(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	status := strings.TrimSpace(c.Query("status"))

	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		AffiliateID: affiliate.ID,
		Status:      status,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}

	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}
