package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/constants"
	"github.com/tijara-next/internal/models"
	"github.com/tijara-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReportServiceTest(t *testing.T) (*ReportService, *gorm.DB, string) {
	t.Helper()
	dsn := fmt.Sprintf("file:report_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Affiliate{},
		&models.Order{},
		&models.Withdrawal{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	exportDir := t.TempDir()
	svc := NewReportService(
		repository.NewAffiliateRepository(db),
		repository.NewOrderRepository(db),
		repository.NewWithdrawalRepository(db),
		config.ReportConfig{ExportDir: exportDir},
	)
	return svc, db, exportDir
}

func TestReportServiceExportAffiliates(t *testing.T) {
	svc, db, exportDir := setupReportServiceTest(t)

	for i := 1; i <= 2; i++ {
		affiliate := models.Affiliate{
			ExternalID: fmt.Sprintf("export-%d", i),
			Name:       fmt.Sprintf("Affiliate %d", i),
			Phone:      "+201001234567",
		}
		if err := db.Create(&affiliate).Error; err != nil {
			t.Fatalf("seed affiliate failed: %v", err)
		}
	}

	path, err := svc.Export(constants.ReportScopeAffiliates)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasPrefix(path, exportDir) {
		t.Fatalf("export written outside export dir: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export failed: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv failed: %v", err)
	}
	// 表头 + 两行数据
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][1] != "external_id" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "export-1" || rows[2][1] != "export-2" {
		t.Fatalf("unexpected data rows: %v %v", rows[1], rows[2])
	}
}

func TestReportServiceExportOrders(t *testing.T) {
	svc, db, _ := setupReportServiceTest(t)

	affiliate := models.Affiliate{ExternalID: "export-orders", Name: "A", Phone: "+201001234567"}
	if err := db.Create(&affiliate).Error; err != nil {
		t.Fatalf("seed affiliate failed: %v", err)
	}
	order := models.Order{
		OrderNo:       "TJO-EXPORT-0001",
		AffiliateID:   affiliate.ID,
		CustomerName:  "Customer",
		CustomerPhone: "+966501112233",
		Country:       constants.CountrySaudiArabia,
		Currency:      constants.CurrencySAR,
		Product:       "Product",
		Status:        constants.OrderStatusPending,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}

	path, err := svc.Export(constants.ReportScopeOrders)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export failed: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][1] != "TJO-EXPORT-0001" {
		t.Fatalf("unexpected order row: %v", rows[1])
	}
}

func TestReportServiceExportUnknownScope(t *testing.T) {
	svc, _, _ := setupReportServiceTest(t)
	if _, err := svc.Export("customers"); err == nil {
		t.Fatalf("expected error for unknown scope")
	}
}
