package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"vendor-service/internal/model"
	"vendor-service/internal/performance"
	"vendor-service/pkg/database"
	"vendor-service/pkg/logger"
	"vendor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// acknowledgeDateLayout is the only accepted acknowledgment date format
const acknowledgeDateLayout = "2006-01-02"

// AcknowledgeRequest carries the acknowledgment date for a purchase order
type AcknowledgeRequest struct {
	AcknowledgmentDate string `json:"acknowledgment_date"`
}

// GetVendorPerformance runs a full metric recomputation for the vendor and
// returns the updated vendor. A vendor without completed orders keeps its
// stored metrics and gets an informational message instead.
func GetVendorPerformance(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("performance")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid vendor ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid vendor ID"})
	}

	defer prometheus.TrackRecompute("full")(time.Now())

	vendor, hasData, err := performance.Recompute(uint(id))
	if err != nil {
		if errors.Is(err, performance.ErrVendorNotFound) {
			log.Warn("Vendor not found for performance query", zap.Uint64("vendor_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Vendor not found"})
		}
		log.Error("Failed to recompute vendor performance", zap.Uint64("vendor_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute vendor performance"})
	}

	if !hasData {
		prometheus.NoDataCounter.Inc()
		log.Info("No completed orders for vendor", zap.Uint64("vendor_id", id))
		return c.JSON(http.StatusOK, echo.Map{"message": "No completed orders for this vendor"})
	}

	log.Info("Vendor performance recomputed",
		zap.Uint64("vendor_id", id),
		zap.Float64("on_time_delivery_rate", vendor.OnTimeDeliveryRate),
		zap.Float64("quality_rating_avg", vendor.QualityRatingAvg),
		zap.Float64("average_response_time", vendor.AverageResponseTime),
		zap.Float64("fulfillment_rate", vendor.FulfillmentRate))
	return c.JSON(http.StatusOK, vendor)
}

// AcknowledgePurchaseOrder records the vendor's acknowledgment of a purchase
// order and refreshes the vendor's average response time. Re-acknowledging
// replaces the previous date; the order status is not transitioned here.
func AcknowledgePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPurchaseOrderOperation("acknowledge")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid purchase order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid purchase order ID"})
	}

	var req AcknowledgeRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("po_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.AcknowledgmentDate == "" {
		log.Warn("Missing acknowledgment date", zap.Uint64("po_id", id))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Acknowledgment date is required in the request data",
		})
	}

	ackDate, err := time.Parse(acknowledgeDateLayout, req.AcknowledgmentDate)
	if err != nil {
		log.Warn("Malformed acknowledgment date",
			zap.Uint64("po_id", id),
			zap.String("acknowledgment_date", req.AcknowledgmentDate))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Acknowledgment date must be in YYYY-MM-DD format",
		})
	}

	var po model.PurchaseOrder
	if result := database.GetDB().First(&po, id); result.Error != nil {
		log.Warn("Purchase order not found for acknowledge", zap.Uint64("po_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Purchase order does not exist"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	po.AcknowledgmentDate = &ackDate
	if result := database.GetDB().Save(&po); result.Error != nil {
		log.Error("Failed to acknowledge purchase order", zap.Uint64("po_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to acknowledge purchase order"})
	}

	// Acknowledgment refreshes the response-time metric only; the other
	// metrics wait for the next full recompute.
	defer prometheus.TrackRecompute("response_time")(time.Now())
	if err := performance.RecomputeResponseTime(po.VendorID); err != nil {
		log.Error("Failed to recompute response time",
			zap.Uint64("po_id", id),
			zap.Uint("vendor_id", po.VendorID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update vendor response time"})
	}

	log.Info("Purchase order acknowledged",
		zap.Uint64("po_id", id),
		zap.Uint("vendor_id", po.VendorID),
		zap.Time("acknowledgment_date", ackDate))
	return c.JSON(http.StatusOK, echo.Map{"message": "Purchase order acknowledged successfully"})
}

// SnapshotVendorPerformance appends the vendor's current metrics to the
// performance history. Intended to be called by an external scheduler.
func SnapshotVendorPerformance(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("snapshot")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid vendor ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid vendor ID"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	record, err := performance.TakeSnapshot(uint(id))
	if err != nil {
		if errors.Is(err, performance.ErrVendorNotFound) {
			log.Warn("Vendor not found for snapshot", zap.Uint64("vendor_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Vendor not found"})
		}
		log.Error("Failed to snapshot vendor performance", zap.Uint64("vendor_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to snapshot vendor performance"})
	}

	log.Info("Vendor performance snapshot recorded",
		zap.Uint64("vendor_id", id),
		zap.Uint("snapshot_id", record.ID))
	return c.JSON(http.StatusCreated, record)
}

// ListVendorPerformanceHistory returns the vendor's performance snapshots,
// newest first
func ListVendorPerformanceHistory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("history")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid vendor ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid vendor ID"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	records, err := performance.History(uint(id))
	if err != nil {
		if errors.Is(err, performance.ErrVendorNotFound) {
			log.Warn("Vendor not found for history query", zap.Uint64("vendor_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Vendor not found"})
		}
		log.Error("Failed to retrieve performance history", zap.Uint64("vendor_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve performance history"})
	}

	return c.JSON(http.StatusOK, echo.Map{"history": records})
}
