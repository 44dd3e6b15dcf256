package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"vendor-service/internal/model"
	"vendor-service/internal/performance"
	"vendor-service/pkg/config"
	"vendor-service/pkg/database"
	"vendor-service/pkg/jwtutil"
	"vendor-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var metricsOnce sync.Once

// setupTest wires the handlers to a fresh in-memory database
func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	metricsOnce.Do(func() { prometheus.InitMetrics(cfg) })
	jwtutil.Initialize(&cfg.JWT)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Vendor{},
		&model.PurchaseOrder{},
		&model.HistoricalPerformance{},
	))

	database.SetDB(db)
	performance.Initialize(db, &cfg.Performance)
	return db
}

// newRequest builds an echo context around a JSON request body
func newRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func seedTestVendor(t *testing.T, db *gorm.DB, code string) *model.Vendor {
	t.Helper()
	vendor := &model.Vendor{Name: "Globex Supply", VendorCode: code}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}
