package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tijara-next/internal/logger"
	"github.com/tijara-next/internal/provider"
	"github.com/tijara-next/internal/queue"
	"github.com/tijara-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReportExport, c.handleReportExport)
	mux.HandleFunc(queue.TaskOrderOutcomeNotify, c.handleOrderOutcomeNotify)
}

func (c *Consumer) handleReportExport(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_report_export_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReportExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_report_export_unmarshal_failed", "error", err)
		return err
	}
	if c.ReportService == nil {
		logger.Warnw("worker_report_export_skip_service_nil", "scope", payload.Scope)
		return nil
	}
	path, err := c.ReportService.Export(payload.Scope)
	if err != nil {
		logger.Warnw("worker_report_export_failed",
			"scope", payload.Scope,
			"requested_by", payload.RequestedBy,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_report_export_done",
		"scope", payload.Scope,
		"requested_by", payload.RequestedBy,
		"path", path,
	)
	return nil
}

// handleOrderOutcomeNotify 订单终态通知
// 通知渠道本身不在本服务范围内，此处拉取订单并落结构化日志供下游对接。
func (c *Consumer) handleOrderOutcomeNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_outcome_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderOutcomeNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_outcome_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_outcome_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_outcome_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderService.GetByID(payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_order_outcome_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_outcome_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}

	logger.Infow("order_outcome_notify",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"affiliate_id", order.AffiliateID,
		"status", order.Status,
		"commission", order.Commission.String(),
	)
	return nil
}
