package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"vendor-service/internal/model"
	"vendor-service/pkg/database"
	"vendor-service/pkg/logger"
	"vendor-service/pkg/validate"
	"vendor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PurchaseOrderRequest defines the structure for purchase order
// creation/update requests. IssueDate and AcknowledgmentDate are absent:
// the issue date is stamped at creation and never changes, and the
// acknowledgment date is only set through the acknowledge operation.
type PurchaseOrderRequest struct {
	PONumber      string          `json:"po_number" validate:"required,max=50"`
	VendorID      uint            `json:"vendor" validate:"required"`
	OrderDate     time.Time       `json:"order_date" validate:"required"`
	DeliveryDate  *time.Time      `json:"delivery_date"`
	Items         json.RawMessage `json:"items"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	Status        string          `json:"status" validate:"omitempty,oneof=Pending Completed Canceled"`
	QualityRating *float64        `json:"quality_rating" validate:"omitempty,gte=0,lte=5"`
}

// CreatePurchaseOrder creates a new purchase order
func CreatePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPurchaseOrderOperation("create")

	var req PurchaseOrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if fields := validate.Struct(&req); fields != nil {
		log.Warn("Purchase order validation failed", zap.Any("fields", fields))
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fields})
	}

	// The owning vendor must exist
	var vendorCount int64
	database.GetDB().Model(&model.Vendor{}).Where("id = ?", req.VendorID).Count(&vendorCount)
	if vendorCount == 0 {
		log.Warn("Vendor does not exist for purchase order", zap.Uint("vendor_id", req.VendorID))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": map[string]string{"vendor": "vendor does not exist"},
		})
	}

	// Check if a purchase order with the same number exists
	var count int64
	database.GetDB().Model(&model.PurchaseOrder{}).
		Where("po_number = ?", req.PONumber).
		Count(&count)
	if count > 0 {
		log.Warn("Purchase order with this number already exists", zap.String("po_number", req.PONumber))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Purchase order with this number already exists"})
	}

	status := model.OrderStatus(req.Status)
	if req.Status == "" {
		status = model.OrderPending
	}

	po := model.PurchaseOrder{
		PONumber:      req.PONumber,
		VendorID:      req.VendorID,
		OrderDate:     req.OrderDate,
		DeliveryDate:  req.DeliveryDate,
		Items:         req.Items,
		Quantity:      req.Quantity,
		Status:        status,
		QualityRating: req.QualityRating,
		IssueDate:     time.Now().UTC(),
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&po); result.Error != nil {
		log.Error("Failed to create purchase order",
			zap.String("po_number", req.PONumber),
			zap.Uint("vendor_id", req.VendorID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create purchase order"})
	}

	log.Info("Purchase order created successfully",
		zap.Uint("id", po.ID),
		zap.String("po_number", po.PONumber),
		zap.Uint("vendor_id", po.VendorID))
	return c.JSON(http.StatusCreated, po)
}

// ListPurchaseOrders retrieves all purchase orders ordered by id
func ListPurchaseOrders(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPurchaseOrderOperation("list")

	// Parse query parameters for pagination
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20 // Default limit
	}

	offset := (page - 1) * limit

	query := database.GetDB().Model(&model.PurchaseOrder{})

	// Filter by owning vendor if specified
	if vendorParam := c.QueryParam("vendor"); vendorParam != "" {
		if vendorID, err := strconv.ParseUint(vendorParam, 10, 32); err == nil {
			query = query.Where("vendor_id = ?", vendorID)
		} else {
			log.Warn("Invalid vendor parameter", zap.String("value", vendorParam), zap.Error(err))
		}
	}

	// Filter by status if specified
	if status := c.QueryParam("status"); status != "" {
		if model.OrderStatus(status).Valid() {
			query = query.Where("status = ?", status)
		} else {
			log.Warn("Invalid status parameter", zap.String("value", status))
		}
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var orders []model.PurchaseOrder
	result := query.
		Order("id asc").
		Limit(limit).
		Offset(offset).
		Find(&orders)
	if result.Error != nil {
		log.Error("Failed to retrieve purchase orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve purchase orders"})
	}

	var total int64
	query.Limit(-1).Offset(-1).Count(&total)

	log.Info("Purchase orders retrieved successfully",
		zap.Int("count", len(orders)),
		zap.Int64("total", total))

	return c.JSON(http.StatusOK, echo.Map{
		"purchase_orders": orders,
		"pagination": echo.Map{
			"current_page": page,
			"limit":        limit,
			"total":        total,
			"total_pages":  (int(total) + limit - 1) / limit,
		},
	})
}

// GetPurchaseOrder retrieves a purchase order by ID
func GetPurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPurchaseOrderOperation("get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid purchase order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid purchase order ID"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var po model.PurchaseOrder
	if result := database.GetDB().First(&po, id); result.Error != nil {
		log.Warn("Purchase order not found", zap.Uint64("po_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Purchase order not found"})
	}

	return c.JSON(http.StatusOK, po)
}

// UpdatePurchaseOrder updates an existing purchase order. The issue date is
// immutable and the acknowledgment date can only be set through the
// acknowledge operation; Completed and Canceled are terminal states.
func UpdatePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPurchaseOrderOperation("update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid purchase order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid purchase order ID"})
	}

	var req PurchaseOrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("po_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if fields := validate.Struct(&req); fields != nil {
		log.Warn("Purchase order validation failed", zap.Any("fields", fields))
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fields})
	}

	var po model.PurchaseOrder
	if result := database.GetDB().First(&po, id); result.Error != nil {
		log.Warn("Purchase order not found for update", zap.Uint64("po_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Purchase order not found"})
	}

	newStatus := po.Status
	if req.Status != "" {
		newStatus = model.OrderStatus(req.Status)
	}

	// No transition out of a terminal state
	if po.Status.Terminal() && newStatus != po.Status {
		log.Warn("Rejected status transition out of terminal state",
			zap.Uint64("po_id", id),
			zap.String("from", string(po.Status)),
			zap.String("to", string(newStatus)))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": map[string]string{"status": "cannot transition out of a terminal status"},
		})
	}

	if req.VendorID != po.VendorID {
		var vendorCount int64
		database.GetDB().Model(&model.Vendor{}).Where("id = ?", req.VendorID).Count(&vendorCount)
		if vendorCount == 0 {
			log.Warn("Vendor does not exist for purchase order", zap.Uint("vendor_id", req.VendorID))
			return c.JSON(http.StatusBadRequest, echo.Map{
				"errors": map[string]string{"vendor": "vendor does not exist"},
			})
		}
	}

	// Check if the number is changed and if the new number already exists
	if req.PONumber != po.PONumber {
		var count int64
		database.GetDB().Model(&model.PurchaseOrder{}).
			Where("po_number = ? AND id != ?", req.PONumber, id).
			Count(&count)
		if count > 0 {
			log.Warn("Purchase order with this number already exists", zap.String("po_number", req.PONumber))
			return c.JSON(http.StatusConflict, echo.Map{"error": "Purchase order with this number already exists"})
		}
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	po.PONumber = req.PONumber
	po.VendorID = req.VendorID
	po.OrderDate = req.OrderDate
	po.DeliveryDate = req.DeliveryDate
	po.Items = req.Items
	po.Quantity = req.Quantity
	po.Status = newStatus
	po.QualityRating = req.QualityRating
	// IssueDate and AcknowledgmentDate are intentionally untouched

	if result := database.GetDB().Save(&po); result.Error != nil {
		log.Error("Failed to update purchase order", zap.Uint64("po_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update purchase order"})
	}

	log.Info("Purchase order updated successfully",
		zap.Uint64("po_id", id),
		zap.String("po_number", po.PONumber),
		zap.String("status", string(po.Status)))
	return c.JSON(http.StatusOK, po)
}

// DeletePurchaseOrder deletes a purchase order
func DeletePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPurchaseOrderOperation("delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid purchase order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid purchase order ID"})
	}

	var po model.PurchaseOrder
	if result := database.GetDB().First(&po, id); result.Error != nil {
		log.Warn("Purchase order not found for delete", zap.Uint64("po_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Purchase order not found"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&po); result.Error != nil {
		log.Error("Failed to delete purchase order", zap.Uint64("po_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete purchase order"})
	}

	log.Info("Purchase order deleted successfully",
		zap.Uint64("po_id", id),
		zap.String("po_number", po.PONumber))
	return c.NoContent(http.StatusNoContent)
}
