package performance

import (
	"errors"

	"vendor-service/internal/model"
	"vendor-service/pkg/config"

	"gorm.io/gorm"
)

var engine *Engine

// Initialize sets up the package-level engine with configuration
func Initialize(db *gorm.DB, cfg *config.PerformanceConfig) {
	engine = NewEngine(db, ParseBasis(cfg.FulfillmentBasis))
}

// Recompute runs a full metric recomputation through the package engine
func Recompute(vendorID uint) (*model.Vendor, bool, error) {
	if engine == nil {
		return nil, false, errors.New("performance engine not initialized")
	}
	return engine.Recompute(vendorID)
}

// RecomputeResponseTime runs the partial recomputation through the package engine
func RecomputeResponseTime(vendorID uint) error {
	if engine == nil {
		return errors.New("performance engine not initialized")
	}
	return engine.RecomputeResponseTime(vendorID)
}

// TakeSnapshot appends a history row through the package engine
func TakeSnapshot(vendorID uint) (*model.HistoricalPerformance, error) {
	if engine == nil {
		return nil, errors.New("performance engine not initialized")
	}
	return engine.TakeSnapshot(vendorID)
}

// History lists history rows through the package engine
func History(vendorID uint) ([]model.HistoricalPerformance, error) {
	if engine == nil {
		return nil, errors.New("performance engine not initialized")
	}
	return engine.History(vendorID)
}
