package admin

import (
	"strings"

	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/http/response"
	"github.com/tijara-next/internal/queue"

	"github.com/gin-gonic/gin"
)

// AdminExportReportRequest 报表导出请求
type AdminExportReportRequest struct {
	Scope string `json:"scope" binding:"required"` // affiliates / orders / withdrawals
}

// AdminExportReport 触发报表导出
// 队列可用时异步执行，否则在请求内同步生成。
func (h *Handler) AdminExportReport(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req AdminExportReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	scope := strings.ToLower(strings.TrimSpace(req.Scope))
	switch scope {
	case constants.ReportScopeAffiliates, constants.ReportScopeOrders, constants.ReportScopeWithdrawals:
	default:
		respondError(c, response.CodeBadRequest, "导出范围无效", nil)
		return
	}

	if h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueReportExport(queue.ReportExportPayload{
			Scope:       scope,
			RequestedBy: adminID,
		}); err != nil {
			respondError(c, response.CodeInternal, "导出任务提交失败", err)
			return
		}
		requestLog(c).Infow("report_export_enqueued", "scope", scope, "admin_id", adminID)
		response.Success(c, gin.H{"queued": true})
		return
	}

	path, err := h.ReportService.Export(scope)
	if err != nil {
		respondError(c, response.CodeInternal, "报表导出失败", err)
		return
	}
	response.Success(c, gin.H{"queued": false, "path": path})
}
