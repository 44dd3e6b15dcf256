package handler

import (
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
	"gorm.io/gorm"
)

// VendorRequest defines the structure for vendor creation/update requests.
// The derived metric fields are deliberately absent: clients cannot author
// them, only the performance engine writes them.
type VendorRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	ContactDetails string `json:"contact_details"`
	Address        string `json:"address"`
	VendorCode     string `json:"vendor_code" validate:"required,max=50"`
}

// CreateVendor creates a new vendor
func CreateVendor(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("create")

	var req VendorRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if fields := validate.Struct(&req); fields != nil {
		log.Warn("Vendor validation failed", zap.Any("fields", fields))
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fields})
	}

	// Check if a vendor with the same code exists
	var count int64
	database.GetDB().Model(&model.Vendor{}).
		Where("vendor_code = ?", req.VendorCode).
		Count(&count)
	if count > 0 {
		log.Warn("Vendor with this code already exists", zap.String("vendor_code", req.VendorCode))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Vendor with this code already exists"})
	}

	vendor := model.Vendor{
		Name:           req.Name,
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
		VendorCode:     req.VendorCode,
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&vendor); result.Error != nil {
		log.Error("Failed to create vendor",
			zap.String("name", req.Name),
			zap.String("vendor_code", req.VendorCode),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create vendor"})
	}

	go updateVendorCount()

	log.Info("Vendor created successfully",
		zap.Uint("id", vendor.ID),
		zap.String("name", vendor.Name),
		zap.String("vendor_code", vendor.VendorCode))
	return c.JSON(http.StatusCreated, vendor)
}

// ListVendors retrieves all vendors ordered by id
func ListVendors(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("list")

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

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var vendors []model.Vendor
	result := database.GetDB().
		Order("id asc").
		Limit(limit).
		Offset(offset).
		Find(&vendors)
	if result.Error != nil {
		log.Error("Failed to retrieve vendors", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve vendors"})
	}

	var total int64
	database.GetDB().Model(&model.Vendor{}).Count(&total)

	log.Info("Vendors retrieved successfully",
		zap.Int("count", len(vendors)),
		zap.Int64("total", total))

	return c.JSON(http.StatusOK, echo.Map{
		"vendors": vendors,
		"pagination": echo.Map{
			"current_page": page,
			"limit":        limit,
			"total":        total,
			"total_pages":  (int(total) + limit - 1) / limit,
		},
	})
}

// GetVendor retrieves a vendor by ID
func GetVendor(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid vendor ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid vendor ID"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	var vendor model.Vendor
	if result := database.GetDB().First(&vendor, id); result.Error != nil {
		log.Warn("Vendor not found", zap.Uint64("vendor_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Vendor not found"})
	}

	return c.JSON(http.StatusOK, vendor)
}

// UpdateVendor updates an existing vendor's profile fields
func UpdateVendor(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid vendor ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid vendor ID"})
	}

	var req VendorRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("vendor_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if fields := validate.Struct(&req); fields != nil {
		log.Warn("Vendor validation failed", zap.Any("fields", fields))
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fields})
	}

	var vendor model.Vendor
	if result := database.GetDB().First(&vendor, id); result.Error != nil {
		log.Warn("Vendor not found for update", zap.Uint64("vendor_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Vendor not found"})
	}

	// Check if code is changed and if the new code already exists
	if req.VendorCode != vendor.VendorCode {
		var count int64
		database.GetDB().Model(&model.Vendor{}).
			Where("vendor_code = ? AND id != ?", req.VendorCode, id).
			Count(&count)
		if count > 0 {
			log.Warn("Vendor with this code already exists", zap.String("vendor_code", req.VendorCode))
			return c.JSON(http.StatusConflict, echo.Map{"error": "Vendor with this code already exists"})
		}
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	// Update profile fields only; metric fields belong to the performance
	// engine and keep their stored values.
	vendor.Name = req.Name
	vendor.ContactDetails = req.ContactDetails
	vendor.Address = req.Address
	vendor.VendorCode = req.VendorCode

	if result := database.GetDB().Save(&vendor); result.Error != nil {
		log.Error("Failed to update vendor", zap.Uint64("vendor_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update vendor"})
	}

	log.Info("Vendor updated successfully",
		zap.Uint64("vendor_id", id),
		zap.String("name", vendor.Name),
		zap.String("vendor_code", vendor.VendorCode))
	return c.JSON(http.StatusOK, vendor)
}

// DeleteVendor deletes a vendor along with its purchase orders and
// performance history
func DeleteVendor(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid vendor ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid vendor ID"})
	}

	var vendor model.Vendor
	if result := database.GetDB().First(&vendor, id); result.Error != nil {
		log.Warn("Vendor not found for delete", zap.Uint64("vendor_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Vendor not found"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("delete")(time.Now())

	// Orders and history rows belong to the vendor; remove everything in one
	// transaction so a failed step leaves the vendor intact.
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vendor_id = ?", vendor.ID).Delete(&model.PurchaseOrder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vendor_id = ?", vendor.ID).Delete(&model.HistoricalPerformance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&vendor).Error
	})
	if err != nil {
		log.Error("Failed to delete vendor", zap.Uint64("vendor_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete vendor"})
	}

	go updateVendorCount()

	log.Info("Vendor deleted successfully",
		zap.Uint64("vendor_id", id),
		zap.String("name", vendor.Name),
		zap.String("vendor_code", vendor.VendorCode))
	return c.NoContent(http.StatusNoContent)
}

// Helper function to update the vendor count metric
func updateVendorCount() {
	var count int64
	database.GetDB().Model(&model.Vendor{}).Count(&count)
	prometheus.UpdateVendorCount(count)
}
