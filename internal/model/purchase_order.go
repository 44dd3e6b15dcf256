package model

import (
	"encoding/json"
	"time"
)

// OrderStatus is the lifecycle state of a purchase order
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCompleted OrderStatus = "Completed"
	OrderCanceled  OrderStatus = "Canceled"
)

// Terminal reports whether no further status transition is allowed
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCanceled
}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCanceled:
		return true
	}
	return false
}

// PurchaseOrder represents a purchase order placed with a vendor.
//
// IssueDate is set once at creation and never changes afterwards.
// AcknowledgmentDate is set through the acknowledge operation;
// re-acknowledging overwrites the previous value.
type PurchaseOrder struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	PONumber           string          `json:"po_number" gorm:"type:varchar(50);uniqueIndex;not null"`
	VendorID           uint            `json:"vendor" gorm:"index;not null"`
	OrderDate          time.Time       `json:"order_date" gorm:"not null"`
	DeliveryDate       *time.Time      `json:"delivery_date"`
	Items              json.RawMessage `json:"items" gorm:"type:jsonb"`
	Quantity           int             `json:"quantity" gorm:"not null"`
	Status             OrderStatus     `json:"status" gorm:"type:varchar(20);default:'Pending'"`
	QualityRating      *float64        `json:"quality_rating"`
	IssueDate          time.Time       `json:"issue_date" gorm:"not null"`
	AcknowledgmentDate *time.Time      `json:"acknowledgment_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
