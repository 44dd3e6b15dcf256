package model

import (
	"time"
)

// Vendor represents a vendor the company places purchase orders with.
//
// The four rate/average fields are derived from the vendor's purchase order
// history by the performance engine. They are never accepted from API
// clients and are overwritten wholesale on each recomputation.
type Vendor struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"type:varchar(100);not null"`
	ContactDetails string `json:"contact_details" gorm:"type:text"`
	Address        string `json:"address" gorm:"type:text"`
	VendorCode     string `json:"vendor_code" gorm:"type:varchar(50);uniqueIndex;not null"`

	// Derived performance metrics. AverageResponseTime is in seconds.
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate" gorm:"default:0"`
	QualityRatingAvg    float64 `json:"quality_rating_avg" gorm:"default:0"`
	AverageResponseTime float64 `json:"average_response_time" gorm:"default:0"`
	FulfillmentRate     float64 `json:"fulfillment_rate" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
