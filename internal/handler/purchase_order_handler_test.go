package handler

import (
	"net/http"
	"testing"

	"vendor-service/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePurchaseOrder(t *testing.T) {
	db := setupTest(t)
	e := echo.New()
	seedTestVendor(t, db, "VN-1")

	c, rec := newRequest(e, http.MethodPost, "/api/purchase_orders/",
		`{"po_number":"PO-100","vendor":1,"order_date":"2024-01-01T00:00:00Z","items":[{"sku":"W-1","qty":5}],"quantity":5}`)
	require.NoError(t, CreatePurchaseOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "PO-100", body["po_number"])
	assert.Equal(t, string(model.OrderPending), body["status"])
	assert.Nil(t, body["acknowledgment_date"])
	assert.NotEmpty(t, body["issue_date"])
}

func TestCreatePurchaseOrderUnknownVendor(t *testing.T) {
	setupTest(t)
	e := echo.New()

	c, rec := newRequest(e, http.MethodPost, "/api/purchase_orders/",
		`{"po_number":"PO-100","vendor":7,"order_date":"2024-01-01T00:00:00Z","quantity":5}`)
	require.NoError(t, CreatePurchaseOrder(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	fields, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "vendor")
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	db := setupTest(t)
	e := echo.New()
	seedTestVendor(t, db, "VN-1")

	c, rec := newRequest(e, http.MethodPost, "/api/purchase_orders/",
		`{"vendor":1,"order_date":"2024-01-01T00:00:00Z","quantity":0}`)
	require.NoError(t, CreatePurchaseOrder(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	fields, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "po_number")
	assert.Contains(t, fields, "quantity")
}

func TestUpdatePurchaseOrderTerminalStatusGuard(t *testing.T) {
	db := setupTest(t)
	e := echo.New()
	vendor := seedTestVendor(t, db, "VN-1")

	require.NoError(t, db.Create(&model.PurchaseOrder{
		PONumber:  "PO-1",
		VendorID:  vendor.ID,
		OrderDate: *dayPtr(2024, 1, 1),
		Quantity:  2,
		Status:    model.OrderCompleted,
		IssueDate: *dayPtr(2024, 1, 1),
	}).Error)

	c, rec := newRequest(e, http.MethodPut, "/",
		`{"po_number":"PO-1","vendor":1,"order_date":"2024-01-01T00:00:00Z","quantity":2,"status":"Canceled"}`)
	c.SetPath("/api/purchase_orders/:id/")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, UpdatePurchaseOrder(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var stored model.PurchaseOrder
	require.NoError(t, db.First(&stored, 1).Error)
	assert.Equal(t, model.OrderCompleted, stored.Status)
}

func TestUpdatePurchaseOrderKeepsIssueAndAcknowledgmentDates(t *testing.T) {
	db := setupTest(t)
	e := echo.New()
	vendor := seedTestVendor(t, db, "VN-1")

	issue := *dayPtr(2024, 1, 1)
	ack := dayPtr(2024, 1, 3)
	require.NoError(t, db.Create(&model.PurchaseOrder{
		PONumber:           "PO-1",
		VendorID:           vendor.ID,
		OrderDate:          issue,
		Quantity:           2,
		Status:             model.OrderPending,
		IssueDate:          issue,
		AcknowledgmentDate: ack,
	}).Error)

	c, rec := newRequest(e, http.MethodPut, "/",
		`{"po_number":"PO-1","vendor":1,"order_date":"2024-02-01T00:00:00Z","quantity":9,"status":"Completed"}`)
	c.SetPath("/api/purchase_orders/:id/")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, UpdatePurchaseOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.PurchaseOrder
	require.NoError(t, db.First(&stored, 1).Error)
	assert.Equal(t, 9, stored.Quantity)
	assert.Equal(t, model.OrderCompleted, stored.Status)
	assert.True(t, stored.IssueDate.Equal(issue))
	require.NotNil(t, stored.AcknowledgmentDate)
	assert.True(t, stored.AcknowledgmentDate.Equal(*ack))
}

func TestDeletePurchaseOrder(t *testing.T) {
	db := setupTest(t)
	e := echo.New()
	vendor := seedTestVendor(t, db, "VN-1")

	require.NoError(t, db.Create(&model.PurchaseOrder{
		PONumber:  "PO-1",
		VendorID:  vendor.ID,
		OrderDate: *dayPtr(2024, 1, 1),
		Quantity:  2,
		Status:    model.OrderPending,
		IssueDate: *dayPtr(2024, 1, 1),
	}).Error)

	c, rec := newRequest(e, http.MethodDelete, "/", "")
	c.SetPath("/api/purchase_orders/:id/")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, DeletePurchaseOrder(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	db.Model(&model.PurchaseOrder{}).Count(&count)
	assert.Zero(t, count)
}
