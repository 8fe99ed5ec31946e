package queue

import (
	"encoding/json"

	"github.com/tijara-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskReportExport 报表导出任务
	TaskReportExport = constants.TaskReportExport
	// TaskOrderOutcomeNotify 订单结局通知任务
	TaskOrderOutcomeNotify = constants.TaskOrderOutcomeNotify
)

// ReportExportPayload 报表导出任务载荷
type ReportExportPayload struct {
	Scope       string `json:"scope"`
	RequestedBy uint   `json:"requested_by"`
}

// OrderOutcomeNotifyPayload 订单结局通知任务载荷
type OrderOutcomeNotifyPayload struct {
	OrderID     uint   `json:"order_id"`
	AffiliateID uint   `json:"affiliate_id"`
	Status      string `json:"status"`
}

// NewReportExportTask 创建报表导出任务
func NewReportExportTask(payload ReportExportPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportExport, body), nil
}

// NewOrderOutcomeNotifyTask 创建订单结局通知任务
func NewOrderOutcomeNotifyTask(payload OrderOutcomeNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderOutcomeNotify, body), nil
}
