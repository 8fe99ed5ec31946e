package provider

import (
	"github.com/tijara-next/internal/cache"
	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/logger"
	"github.com/tijara-next/internal/models"
	"github.com/tijara-next/internal/queue"
	"github.com/tijara-next/internal/repository"
	"github.com/tijara-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	AffiliateRepo  repository.AffiliateRepository
	OrderRepo      repository.OrderRepository
	WithdrawalRepo repository.WithdrawalRepository

	// Services
	AuthService       *service.AuthService
	CurrencyService   *service.CurrencyService
	CommissionPolicy  *service.CommissionPolicy
	AffiliateService  *service.AffiliateService
	OrderService      *service.OrderService
	WithdrawalService *service.WithdrawalService
	ReportService     *service.ReportService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.WithdrawalRepo = repository.NewWithdrawalRepository(db)
}

func (c *Container) initServices() {
	currencyService, err := service.NewCurrencyService(c.Config.Ledger)
	if err != nil {
		logger.Errorw("provider_init_currency_failed", "error", err)
		panic(err)
	}
	c.CurrencyService = currencyService

	commissionPolicy, err := service.NewCommissionPolicy(c.Config.Ledger)
	if err != nil {
		logger.Errorw("provider_init_commission_failed", "error", err)
		panic(err)
	}
	c.CommissionPolicy = commissionPolicy

	c.AuthService = service.NewAuthService(c.AdminRepo, c.Config.JWT)
	c.AffiliateService = service.NewAffiliateService(c.AffiliateRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.AffiliateRepo,
		c.CurrencyService,
		c.CommissionPolicy,
		c.QueueClient,
		c.Config.RateLimit,
	)
	c.WithdrawalService = service.NewWithdrawalService(
		c.WithdrawalRepo,
		c.AffiliateRepo,
		c.CurrencyService,
		c.Config.Withdraw,
	)
	c.ReportService = service.NewReportService(
		c.AffiliateRepo,
		c.OrderRepo,
		c.WithdrawalRepo,
		c.Config.Report,
	)
}
