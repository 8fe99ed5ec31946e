package worker

import (
	"context"
	"errors"
	"time"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/logger"
	"github.com/tijara-next/internal/queue"
	"github.com/tijara-next/internal/repository"

	"github.com/hibiken/asynq"
)

const (
	dailySummaryInterval = 24 * time.Hour
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.OrderService != nil {
		go s.runDailySummaryLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runDailySummaryLoop 每日汇总日志：前一天订单量与待审核提现数
func (s *Service) runDailySummaryLoop(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	runOnce := func() {
		since := time.Now().Add(-dailySummaryInterval)
		_, orderCount, err := s.consumer.OrderService.List(repository.OrderListFilter{
			Page:        1,
			PageSize:    1,
			CreatedFrom: &since,
		})
		if err != nil {
			logger.Warnw("worker_daily_summary_orders_failed", "error", err)
			return
		}
		_, pendingWithdrawals, err := s.consumer.WithdrawalService.List(repository.WithdrawalListFilter{
			Page:     1,
			PageSize: 1,
			Status:   constants.WithdrawStatusPending,
		})
		if err != nil {
			logger.Warnw("worker_daily_summary_withdrawals_failed", "error", err)
			return
		}
		logger.Infow("daily_summary",
			"orders_last_24h", orderCount,
			"pending_withdrawals", pendingWithdrawals,
		)
	}
	runOnce()

	ticker := time.NewTicker(dailySummaryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
