package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/logger"
	"github.com/tijara-next/internal/repository"
)

// ReportService 报表导出服务
// 导出为 CSV 文件，供运营对账；由队列 worker 异步执行。
type ReportService struct {
	affiliateRepo  repository.AffiliateRepository
	orderRepo      repository.OrderRepository
	withdrawalRepo repository.WithdrawalRepository

	exportDir string
}

// NewReportService 创建报表服务
func NewReportService(
	affiliateRepo repository.AffiliateRepository,
	orderRepo repository.OrderRepository,
	withdrawalRepo repository.WithdrawalRepository,
	cfg config.ReportConfig,
) *ReportService {
	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = "./exports"
	}
	return &ReportService{
		affiliateRepo:  affiliateRepo,
		orderRepo:      orderRepo,
		withdrawalRepo: withdrawalRepo,
		exportDir:      exportDir,
	}
}

// Export 导出指定范围的报表，返回生成的文件路径
func (s *ReportService) Export(scope string) (string, error) {
	switch scope {
	case constants.ReportScopeAffiliates:
		return s.exportAffiliates()
	case constants.ReportScopeOrders:
		return s.exportOrders()
	case constants.ReportScopeWithdrawals:
		return s.exportWithdrawals()
	default:
		return "", fmt.Errorf("unknown report scope: %s", scope)
	}
}

func (s *ReportService) exportAffiliates() (string, error) {
	affiliates, err := s.affiliateRepo.ListAll()
	if err != nil {
		return "", err
	}
	rows := make([][]string, 0, len(affiliates)+1)
	rows = append(rows, []string{"id", "external_id", "name", "phone", "store_name", "balance", "total_earnings", "total_sales", "total_orders", "created_at"})
	for _, a := range affiliates {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(a.ID), 10),
			a.ExternalID,
			a.Name,
			a.Phone,
			a.StoreName,
			a.Balance.StringFixed(2),
			a.TotalEarnings.StringFixed(2),
			a.TotalSales.StringFixed(2),
			strconv.FormatInt(a.TotalOrders, 10),
			a.CreatedAt.Format(time.RFC3339),
		})
	}
	return s.writeCSV(constants.ReportScopeAffiliates, rows)
}

func (s *ReportService) exportOrders() (string, error) {
	orders, err := s.orderRepo.ListAll()
	if err != nil {
		return "", err
	}
	rows := make([][]string, 0, len(orders)+1)
	rows = append(rows, []string{"id", "order_no", "affiliate_id", "customer_name", "country", "currency", "product", "cost_price", "selling_price", "commission", "status", "created_at"})
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(o.ID), 10),
			o.OrderNo,
			strconv.FormatUint(uint64(o.AffiliateID), 10),
			o.CustomerName,
			o.Country,
			o.Currency,
			o.Product,
			o.CostPrice.StringFixed(2),
			o.SellingPrice.StringFixed(2),
			o.Commission.StringFixed(2),
			o.Status,
			o.CreatedAt.Format(time.RFC3339),
		})
	}
	return s.writeCSV(constants.ReportScopeOrders, rows)
}

func (s *ReportService) exportWithdrawals() (string, error) {
	withdrawals, err := s.withdrawalRepo.ListAll()
	if err != nil {
		return "", err
	}
	rows := make([][]string, 0, len(withdrawals)+1)
	rows = append(rows, []string{"id", "affiliate_id", "amount", "currency", "payout_phone", "status", "reason", "created_at"})
	for _, w := range withdrawals {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(w.ID), 10),
			strconv.FormatUint(uint64(w.AffiliateID), 10),
			w.Amount.StringFixed(2),
			w.Currency,
			w.PayoutPhone,
			w.Status,
			w.Reason,
			w.CreatedAt.Format(time.RFC3339),
		})
	}
	return s.writeCSV(constants.ReportScopeWithdrawals, rows)
}

func (s *ReportService) writeCSV(scope string, rows [][]string) (string, error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_%s.csv", scope, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.exportDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	logger.Infow("report_exported", "scope", scope, "path", path, "rows", len(rows)-1)
	return path, nil
}
