package performance

import (
	"errors"
	"sync"
	"time"

	"vendor-service/internal/model"

	"gorm.io/gorm"
)

// ErrVendorNotFound is returned when the referenced vendor does not exist
var ErrVendorNotFound = errors.New("vendor not found")

// Engine computes vendor performance metrics from purchase order history
// and persists them on the vendor row.
//
// Two recompute paths exist and are deliberately not unified: acknowledging
// a purchase order refreshes only the average response time, while a
// performance query refreshes all four metrics. Writes to the same vendor
// are serialized through a per-vendor mutex so a concurrent acknowledge and
// performance query cannot lose an update.
type Engine struct {
	db    *gorm.DB
	basis FulfillmentBasis

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewEngine creates an engine over the given database connection
func NewEngine(db *gorm.DB, basis FulfillmentBasis) *Engine {
	return &Engine{
		db:    db,
		basis: basis,
		locks: make(map[uint]*sync.Mutex),
	}
}

func (e *Engine) vendorLock(vendorID uint) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[vendorID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[vendorID] = l
	}
	return l
}

// completedOrders loads the vendor's orders that count toward metrics:
// status Completed with a non-nil acknowledgment date
func (e *Engine) completedOrders(vendorID uint) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := e.db.
		Where("vendor_id = ? AND status = ? AND acknowledgment_date IS NOT NULL",
			vendorID, model.OrderCompleted).
		Find(&orders).Error
	return orders, err
}

func (e *Engine) canceledCount(vendorID uint) (int64, error) {
	var n int64
	err := e.db.Model(&model.PurchaseOrder{}).
		Where("vendor_id = ? AND status = ?", vendorID, model.OrderCanceled).
		Count(&n).Error
	return n, err
}

// Recompute derives all four metrics for the vendor and persists them in a
// single update. When the vendor has no completed orders the stored metrics
// are left untouched (hasData=false) so last-known values survive quiet
// vendors. The returned vendor reflects the persisted state.
func (e *Engine) Recompute(vendorID uint) (*model.Vendor, bool, error) {
	lock := e.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	var vendor model.Vendor
	if err := e.db.First(&vendor, vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrVendorNotFound
		}
		return nil, false, err
	}

	completed, err := e.completedOrders(vendorID)
	if err != nil {
		return nil, false, err
	}

	var canceled int64
	if e.basis == BasisTerminal {
		if canceled, err = e.canceledCount(vendorID); err != nil {
			return nil, false, err
		}
	}

	snap, ok := Compute(completed, canceled, e.basis)
	if !ok {
		return &vendor, false, nil
	}

	updates := map[string]interface{}{
		"on_time_delivery_rate": snap.OnTimeDeliveryRate,
		"quality_rating_avg":    snap.QualityRatingAvg,
		"average_response_time": snap.AverageResponseTime,
		"fulfillment_rate":      snap.FulfillmentRate,
	}
	if err := e.db.Model(&vendor).Updates(updates).Error; err != nil {
		return nil, false, err
	}

	vendor.OnTimeDeliveryRate = snap.OnTimeDeliveryRate
	vendor.QualityRatingAvg = snap.QualityRatingAvg
	vendor.AverageResponseTime = snap.AverageResponseTime
	vendor.FulfillmentRate = snap.FulfillmentRate
	return &vendor, true, nil
}

// RecomputeResponseTime refreshes only the vendor's average response time.
// Triggered by purchase order acknowledgment; the other three metrics keep
// their stored values until the next full recompute.
func (e *Engine) RecomputeResponseTime(vendorID uint) error {
	lock := e.vendorLock(vendorID)
	lock.Lock()
	defer lock.Unlock()

	var vendor model.Vendor
	if err := e.db.First(&vendor, vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVendorNotFound
		}
		return err
	}

	completed, err := e.completedOrders(vendorID)
	if err != nil {
		return err
	}

	avg := averageResponseSeconds(completed)
	return e.db.Model(&vendor).
		Update("average_response_time", avg).Error
}

// TakeSnapshot appends a HistoricalPerformance row from the vendor's
// currently stored metrics. Snapshot cadence is the caller's concern.
func (e *Engine) TakeSnapshot(vendorID uint) (*model.HistoricalPerformance, error) {
	var vendor model.Vendor
	if err := e.db.First(&vendor, vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}

	record := model.HistoricalPerformance{
		VendorID:            vendor.ID,
		Date:                time.Now().UTC(),
		OnTimeDeliveryRate:  vendor.OnTimeDeliveryRate,
		QualityRatingAvg:    vendor.QualityRatingAvg,
		AverageResponseTime: vendor.AverageResponseTime,
		FulfillmentRate:     vendor.FulfillmentRate,
	}
	if err := e.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// History returns the vendor's performance snapshots, newest first
func (e *Engine) History(vendorID uint) ([]model.HistoricalPerformance, error) {
	var exists int64
	if err := e.db.Model(&model.Vendor{}).Where("id = ?", vendorID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrVendorNotFound
	}

	var records []model.HistoricalPerformance
	err := e.db.
		Where("vendor_id = ?", vendorID).
		Order("date desc").
		Find(&records).Error
	return records, err
}
