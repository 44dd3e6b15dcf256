package model

import "time"

// HistoricalPerformance is a point-in-time snapshot of a vendor's four
// performance metrics. Rows are append-only; snapshot cadence is driven by
// an external scheduler calling the snapshot endpoint.
type HistoricalPerformance struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	VendorID uint      `json:"vendor" gorm:"index;not null"`
	Date     time.Time `json:"date" gorm:"not null"`

	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate" gorm:"default:0"`
	QualityRatingAvg    float64 `json:"quality_rating_avg" gorm:"default:0"`
	AverageResponseTime float64 `json:"average_response_time" gorm:"default:0"`
	FulfillmentRate     float64 `json:"fulfillment_rate" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
}
