package handler

import (
	"net/http"
	"testing"

	"vendor-service/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVendor(t *testing.T) {
	setupTest(t)
	e := echo.New()

	c, rec := newRequest(e, http.MethodPost, "/api/vendors/",
		`{"name":"Globex Supply","contact_details":"sales@globex.test","address":"1 Factory Rd","vendor_code":"GLX-1"}`)
	require.NoError(t, CreateVendor(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "GLX-1", body["vendor_code"])
	// Derived metrics start at their zero defaults
	assert.Equal(t, 0.0, body["on_time_delivery_rate"])
	assert.Equal(t, 0.0, body["fulfillment_rate"])
}

func TestCreateVendorDuplicateCode(t *testing.T) {
	db := setupTest(t)
	e := echo.New()
	seedTestVendor(t, db, "GLX-1")

	c, rec := newRequest(e, http.MethodPost, "/api/vendors/",
		`{"name":"Other","vendor_code":"GLX-1"}`)
	require.NoError(t, CreateVendor(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateVendorValidation(t *testing.T) {
	setupTest(t)
	e := echo.New()

	c, rec := newRequest(e, http.MethodPost, "/api/vendors/", `{"address":"nowhere"}`)
	require.NoError(t, CreateVendor(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	fields, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "vendor_code")
}

func TestGetVendorNotFound(t *testing.T) {
	setupTest(t)
	e := echo.New()

	c, rec := newRequest(e, http.MethodGet, "/", "")
	c.SetPath("/api/vendors/:id/")
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, GetVendor(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListVendorsOrderedByID(t *testing.T) {
	db := setupTest(t)
	e := echo.New()
	seedTestVendor(t, db, "VN-B")
	seedTestVendor(t, db, "VN-A")
	seedTestVendor(t, db, "VN-C")

	c, rec := newRequest(e, http.MethodGet, "/api/vendors/", "")
	require.NoError(t, ListVendors(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	vendors, ok := body["vendors"].([]interface{})
	require.True(t, ok)
	require.Len(t, vendors, 3)

	var prev float64
	for _, v := range vendors {
		id := v.(map[string]interface{})["id"].(float64)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestUpdateVendorKeepsDerivedMetrics(t *testing.T) {
	db := setupTest(t)
	e := echo.New()
	vendor := seedTestVendor(t, db, "VN-1")

	require.NoError(t, db.Model(vendor).Updates(map[string]interface{}{
		"on_time_delivery_rate": 90.0,
		"average_response_time": 1800.0,
	}).Error)

	c, rec := newRequest(e, http.MethodPut, "/",
		`{"name":"Globex Renamed","vendor_code":"VN-1"}`)
	c.SetPath("/api/vendors/:id/")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, UpdateVendor(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.Vendor
	require.NoError(t, db.First(&stored, vendor.ID).Error)
	assert.Equal(t, "Globex Renamed", stored.Name)
	// Metric fields are owned by the performance engine and survive updates
	assert.InDelta(t, 90.0, stored.OnTimeDeliveryRate, 1e-9)
	assert.InDelta(t, 1800.0, stored.AverageResponseTime, 1e-9)
}

func TestDeleteVendorCascades(t *testing.T) {
	db := setupTest(t)
	e := echo.New()
	vendor := seedTestVendor(t, db, "VN-1")

	require.NoError(t, db.Create(&model.PurchaseOrder{
		PONumber:  "PO-1",
		VendorID:  vendor.ID,
		OrderDate: *dayPtr(2024, 1, 1),
		Quantity:  1,
		Status:    model.OrderPending,
		IssueDate: *dayPtr(2024, 1, 1),
	}).Error)
	require.NoError(t, db.Create(&model.HistoricalPerformance{
		VendorID: vendor.ID,
		Date:     *dayPtr(2024, 1, 2),
	}).Error)

	c, rec := newRequest(e, http.MethodDelete, "/", "")
	c.SetPath("/api/vendors/:id/")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, DeleteVendor(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var vendorCount, orderCount, historyCount int64
	db.Model(&model.Vendor{}).Count(&vendorCount)
	db.Model(&model.PurchaseOrder{}).Count(&orderCount)
	db.Model(&model.HistoricalPerformance{}).Count(&historyCount)
	assert.Zero(t, vendorCount)
	assert.Zero(t, orderCount)
	assert.Zero(t, historyCount)
}
