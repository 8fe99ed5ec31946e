package main

import (
	"fmt"
	"time"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/logger"
	"github.com/tijara-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加演示推广员
	affiliates := []models.Affiliate{
		{
			ExternalID: "seed-amira",
			Name:       "Amira Hassan",
			Phone:      "+201001234567",
			StoreName:  "Amira Store",
		},
		{
			ExternalID: "seed-karim",
			Name:       "Karim Mostafa",
			Phone:      "+201109876543",
			StoreName:  "Karim Deals",
		},
		{
			ExternalID: "seed-nour",
			Name:       "Nour El-Sayed",
			Phone:      "+201234567890",
			StoreName:  "Nour Collection",
		},
	}

	affiliateIDs := map[string]uint{}
	for _, aff := range affiliates {
		var existing models.Affiliate
		if err := models.DB.Where("external_id = ?", aff.ExternalID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&aff).Error; err != nil {
				stdLog.Printf("Failed to create affiliate %s: %v", aff.ExternalID, err)
				continue
			}
			stdLog.Printf("Created affiliate: %s", aff.ExternalID)
			affiliateIDs[aff.ExternalID] = aff.ID
		} else {
			existing.Name = aff.Name
			existing.Phone = aff.Phone
			existing.StoreName = aff.StoreName
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update affiliate %s: %v", aff.ExternalID, err)
				continue
			}
			stdLog.Printf("Updated affiliate: %s", aff.ExternalID)
			affiliateIDs[aff.ExternalID] = existing.ID
		}
	}

	// 添加演示订单（金额为本地币种，佣金按默认固定模式 15%）
	now := time.Now()
	deliveredAt := now.Add(-36 * time.Hour)
	orders := []models.Order{
		{
			OrderNo:       "TJO-SEED-0001",
			AffiliateID:   affiliateIDs["seed-amira"],
			CustomerName:  "Fahad Al-Otaibi",
			CustomerPhone: "+966501112233",
			Address:       "King Fahd Road 12",
			City:          "Riyadh",
			Country:       constants.CountrySaudiArabia,
			Currency:      constants.CurrencySAR,
			Product:       "无线蓝牙耳机",
			ProductCode:   "SKU-EARBUDS",
			CostPrice:     models.NewMoneyFromDecimal(decimal.NewFromFloat(100.00)),
			SellingPrice:  models.NewMoneyFromDecimal(decimal.NewFromFloat(150.00)),
			Commission:    models.NewMoneyFromDecimal(decimal.NewFromFloat(7.50)),
			Status:        constants.OrderStatusPending,
		},
		{
			OrderNo:       "TJO-SEED-0002",
			AffiliateID:   affiliateIDs["seed-amira"],
			CustomerName:  "Mona Al-Qahtani",
			CustomerPhone: "+966552223344",
			Address:       "Olaya Street 8",
			City:          "Jeddah",
			Country:       constants.CountrySaudiArabia,
			Currency:      constants.CurrencySAR,
			Product:       "智能手表",
			ProductCode:   "SKU-WATCH",
			CostPrice:     models.NewMoneyFromDecimal(decimal.NewFromFloat(180.00)),
			SellingPrice:  models.NewMoneyFromDecimal(decimal.NewFromFloat(260.00)),
			Commission:    models.NewMoneyFromDecimal(decimal.NewFromFloat(12.00)),
			Status:        constants.OrderStatusDelivered,
			DeliveredAt:   &deliveredAt,
		},
		{
			OrderNo:       "TJO-SEED-0003",
			AffiliateID:   affiliateIDs["seed-karim"],
			CustomerName:  "Saeed Al-Mansoori",
			CustomerPhone: "+971501234567",
			Address:       "Sheikh Zayed Road 5",
			City:          "Dubai",
			Country:       constants.CountryUAE,
			Currency:      constants.CurrencyAED,
			Product:       "便携充电宝",
			ProductCode:   "SKU-POWERBANK",
			CostPrice:     models.NewMoneyFromDecimal(decimal.NewFromFloat(80.00)),
			SellingPrice:  models.NewMoneyFromDecimal(decimal.NewFromFloat(120.00)),
			Commission:    models.NewMoneyFromDecimal(decimal.NewFromFloat(6.00)),
			Status:        constants.OrderStatusPending,
		},
		{
			OrderNo:       "TJO-SEED-0004",
			AffiliateID:   affiliateIDs["seed-nour"],
			CustomerName:  "Latifa Al-Nuaimi",
			CustomerPhone: "+971559876543",
			Address:       "Corniche Street 3",
			City:          "Abu Dhabi",
			Country:       constants.CountryUAE,
			Currency:      constants.CurrencyAED,
			Product:       "多功能背包",
			ProductCode:   "SKU-BACKPACK",
			CostPrice:     models.NewMoneyFromDecimal(decimal.NewFromFloat(90.00)),
			SellingPrice:  models.NewMoneyFromDecimal(decimal.NewFromFloat(140.00)),
			Commission:    models.NewMoneyFromDecimal(decimal.NewFromFloat(7.00)),
			Status:        constants.OrderStatusIssue,
		},
	}

	for _, ord := range orders {
		if ord.AffiliateID == 0 {
			stdLog.Printf("Skip order %s: affiliate missing", ord.OrderNo)
			continue
		}
		var existing models.Order
		if err := models.DB.Where("order_no = ?", ord.OrderNo).First(&existing).Error; err != nil {
			if err := models.DB.Create(&ord).Error; err != nil {
				stdLog.Printf("Failed to create order %s: %v", ord.OrderNo, err)
			} else {
				stdLog.Printf("Created order: %s", ord.OrderNo)
			}
		} else {
			stdLog.Printf("Order already exists: %s", ord.OrderNo)
		}
	}

	// 为演示订单补齐台账（与订单创建/交付两条路径保持一致）
	ledgerSeeds := map[string]struct {
		TotalOrders   int64
		TotalEarnings string
		TotalSales    string
		Balance       string
	}{
		// 0.2665 为沙特里亚尔对结算币种汇率，260*0.2665=69.29，12*0.2665=3.20
		"seed-amira": {TotalOrders: 2, TotalEarnings: "3.20", TotalSales: "69.29", Balance: "3.20"},
		"seed-karim": {TotalOrders: 1},
		"seed-nour":  {TotalOrders: 1},
	}
	for externalID, seed := range ledgerSeeds {
		id, ok := affiliateIDs[externalID]
		if !ok {
			continue
		}
		var aff models.Affiliate
		if err := models.DB.First(&aff, id).Error; err != nil {
			continue
		}
		aff.TotalOrders = seed.TotalOrders
		if seed.TotalEarnings != "" {
			if m, err := models.NewMoneyFromString(seed.TotalEarnings); err == nil {
				aff.TotalEarnings = m
			}
		}
		if seed.TotalSales != "" {
			if m, err := models.NewMoneyFromString(seed.TotalSales); err == nil {
				aff.TotalSales = m
			}
		}
		if seed.Balance != "" {
			if m, err := models.NewMoneyFromString(seed.Balance); err == nil {
				aff.Balance = m
			}
		}
		if err := models.DB.Save(&aff).Error; err != nil {
			stdLog.Printf("Failed to seed ledger for %s: %v", externalID, err)
		} else {
			stdLog.Printf("Seeded ledger for %s", externalID)
		}
	}

	// 添加演示提现申请
	withdrawals := []models.Withdrawal{
		{
			AffiliateID: affiliateIDs["seed-amira"],
			Amount:      models.NewMoneyFromDecimal(decimal.NewFromFloat(50.00)),
			PayoutPhone: "+201001234567",
			Currency:    constants.CurrencyUSD,
			Status:      constants.WithdrawStatusPending,
		},
	}
	for _, wd := range withdrawals {
		if wd.AffiliateID == 0 {
			continue
		}
		var count int64
		if err := models.DB.Model(&models.Withdrawal{}).
			Where("affiliate_id = ? AND status = ?", wd.AffiliateID, constants.WithdrawStatusPending).
			Count(&count).Error; err != nil || count > 0 {
			continue
		}
		if err := models.DB.Create(&wd).Error; err != nil {
			stdLog.Printf("Failed to create withdrawal for affiliate %d: %v", wd.AffiliateID, err)
		} else {
			stdLog.Printf("Created withdrawal for affiliate %d", wd.AffiliateID)
		}
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Affiliates")
	fmt.Println("- 4 Orders (pending / delivered / issue)")
	fmt.Println("- 1 Pending withdrawal")
}
