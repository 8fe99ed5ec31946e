package public

import (
	"errors"
	"strings"

	"github.com/tijara-next/internal/http/response"
	"github.com/tijara-next/internal/models"
	"github.com/tijara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterAffiliateRequest 推广员注册请求
type RegisterAffiliateRequest struct {
	ExternalID string `json:"external_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	StoreName  string `json:"store_name"`
}

// RegisterAffiliate 注册推广员
func (h *Handler) RegisterAffiliate(c *gin.Context) {
	var req RegisterAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	affiliate, err := h.AffiliateService.Register(service.RegisterInput{
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Phone:      req.Phone,
		StoreName:  req.StoreName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateIdentity):
			respondError(c, response.CodeConflict, "该身份已注册", nil)
		case errors.Is(err, service.ErrInvalidPhone):
			respondError(c, response.CodeBadRequest, "手机号格式无效", nil)
		case errors.Is(err, service.ErrInvalidIdentity):
			respondError(c, response.CodeBadRequest, "请求参数无效", nil)
		default:
			respondError(c, response.CodeInternal, "注册失败", err)
		}
		return
	}

	response.Success(c, affiliate)
}

// GetAffiliate 按外部身份查询推广员
func (h *Handler) GetAffiliate(c *gin.Context) {
	affiliate, ok := h.resolveAffiliate(c)
	if !ok {
		return
	}
	response.Success(c, affiliate)
}

// GetAffiliateStats 按外部身份查询推广员统计
func (h *Handler) GetAffiliateStats(c *gin.Context) {
	affiliate, ok := h.resolveAffiliate(c)
	if !ok {
		return
	}

	stats, err := h.AffiliateService.Stats(affiliate.ID)
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

// resolveAffiliate 由路径中的 external_id 解析推广员
func (h *Handler) resolveAffiliate(c *gin.Context) (*models.Affiliate, bool) {
	externalID := strings.TrimSpace(c.Param("external_id"))
	if externalID == "" {
		respondError(c, response.CodeBadRequest, "外部身份标识缺失", nil)
		return nil, false
	}

	affiliate, err := h.AffiliateService.GetByExternalID(externalID)
	if err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			respondError(c, response.CodeNotFound, "推广员不存在", nil)
			return nil, false
		}
		respondError(c, response.CodeInternal, "推广员查询失败", err)
		return nil, false
	}
	return affiliate, true
}
