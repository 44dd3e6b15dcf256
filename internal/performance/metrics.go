package performance

import (
	"vendor-service/internal/model"
)

// FulfillmentBasis selects the denominator used for the fulfillment rate
type FulfillmentBasis string

const (
	// BasisCompleted divides completed orders by the completed-order count
	// itself. This reproduces the historical behavior: the rate is 100 for
	// any vendor with at least one completed order. Kept as the default so
	// existing consumers see unchanged numbers.
	BasisCompleted FulfillmentBasis = "completed"

	// BasisTerminal divides completed orders by all orders that reached a
	// terminal state (completed + canceled).
	BasisTerminal FulfillmentBasis = "terminal"
)

// ParseBasis maps a config string to a basis, defaulting to BasisCompleted
func ParseBasis(s string) FulfillmentBasis {
	if FulfillmentBasis(s) == BasisTerminal {
		return BasisTerminal
	}
	return BasisCompleted
}

// Snapshot holds the four derived vendor performance metrics.
// AverageResponseTime is in seconds.
type Snapshot struct {
	OnTimeDeliveryRate  float64
	QualityRatingAvg    float64
	AverageResponseTime float64
	FulfillmentRate     float64
}

// Compute derives the four metrics from a vendor's completed orders, i.e.
// orders with status Completed and a non-nil acknowledgment date. canceled
// is the vendor's canceled-order count, used only under BasisTerminal.
//
// Returns ok=false when there are no completed orders; callers must then
// leave the vendor's stored metrics untouched.
func Compute(completed []model.PurchaseOrder, canceled int64, basis FulfillmentBasis) (Snapshot, bool) {
	total := len(completed)
	if total == 0 {
		return Snapshot{}, false
	}

	var snap Snapshot

	// On-time delivery: delivered no later than the acknowledgment date.
	// The acknowledgment date stands in for a promised date, which the
	// order record does not carry.
	onTime := 0
	for _, po := range completed {
		if po.DeliveryDate != nil && !po.DeliveryDate.After(*po.AcknowledgmentDate) {
			onTime++
		}
	}
	snap.OnTimeDeliveryRate = float64(onTime) / float64(total) * 100

	// Quality rating: mean over rated orders only. A vendor with no rated
	// orders gets 0, the field's declared default.
	var ratingSum float64
	rated := 0
	for _, po := range completed {
		if po.QualityRating != nil {
			ratingSum += *po.QualityRating
			rated++
		}
	}
	if rated > 0 {
		snap.QualityRatingAvg = ratingSum / float64(rated)
	}

	snap.AverageResponseTime = averageResponseSeconds(completed)

	switch basis {
	case BasisTerminal:
		snap.FulfillmentRate = float64(total) / float64(int64(total)+canceled) * 100
	default:
		snap.FulfillmentRate = float64(total) / float64(total) * 100
	}

	return snap, true
}

// averageResponseSeconds is the mean acknowledgment-minus-issue interval in
// seconds, 0 when no interval can be computed
func averageResponseSeconds(completed []model.PurchaseOrder) float64 {
	var sum float64
	n := 0
	for _, po := range completed {
		if po.AcknowledgmentDate == nil {
			continue
		}
		sum += po.AcknowledgmentDate.Sub(po.IssueDate).Seconds()
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
