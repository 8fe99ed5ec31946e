package router

import (
	"fmt"
	"strings"

	"github.com/tijara-next/internal/cache"
	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/constants"
	adminhandlers "github.com/tijara-next/internal/http/handlers/admin"
	publichandlers "github.com/tijara-next/internal/http/handlers/public"
	"github.com/tijara-next/internal/logger"
	"github.com/tijara-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按采集端/管理端分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 采集端接口（静态令牌鉴权，代表推广员调用）
		collector := apiV1.Group("/collector")
		collector.Use(CollectorAuthMiddleware(cfg.Security.CollectorToken))
		{
			collector.POST("/affiliates", publicHandler.RegisterAffiliate)
			collector.GET("/affiliates/:external_id", publicHandler.GetAffiliate)
			collector.GET("/affiliates/:external_id/stats", publicHandler.GetAffiliateStats)
			collector.GET("/affiliates/:external_id/orders", publicHandler.ListAffiliateOrders)
			collector.GET("/affiliates/:external_id/withdrawals", publicHandler.ListAffiliateWithdrawals)
			collector.POST("/orders", publicHandler.CreateOrder)
			collector.POST("/withdrawals", publicHandler.RequestWithdrawal)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)
				authorized.GET("/overview", adminHandler.AdminOverview)

				// 推广员管理
				authorized.GET("/affiliates", adminHandler.AdminListAffiliates)
				authorized.GET("/affiliates/:id", adminHandler.AdminGetAffiliate)
				authorized.GET("/affiliates/:id/stats", adminHandler.AdminGetAffiliateStats)

				// 订单审核
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/pending", adminHandler.AdminListPendingOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.POST("/orders/:id/deliver", adminHandler.AdminMarkOrderDelivered)
				authorized.POST("/orders/:id/issue", adminHandler.AdminMarkOrderIssue)

				// 提现审核
				authorized.GET("/withdrawals", adminHandler.AdminListWithdrawals)
				authorized.GET("/withdrawals/pending", adminHandler.AdminListPendingWithdrawals)
				authorized.GET("/withdrawals/:id", adminHandler.AdminGetWithdrawal)
				authorized.POST("/withdrawals/:id/review", adminHandler.AdminReviewWithdrawal)

				// 报表导出
				authorized.POST("/reports/export", adminHandler.AdminExportReport)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
