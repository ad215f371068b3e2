package services

import (
	"github.com/kendall-kelly/maker-orders-api/models"
)

// amount dereferences a nullable price, treating absence as zero. Every
// predicate and calculator in this package is total over missing fields.
func amount(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// strValue dereferences a nullable string field
func strValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// EffectiveUnitPrice is the client-facing unit price, falling back to the
// manufacturer cost price when no client price has been set
func EffectiveUnitPrice(p *models.OrderProduct) float64 {
	if price := amount(p.ClientProductPrice); price > 0 {
		return price
	}
	return amount(p.ProductPrice)
}

// ProductHasFees reports whether a line is billable: it carries a sample fee
// or a positive effective unit price
func ProductHasFees(p *models.OrderProduct) bool {
	if p == nil {
		return false
	}
	return amount(p.SampleFee) > 0 || EffectiveUnitPrice(p) > 0
}

// IsSampleActive reports whether the order's sample sub-workflow is live:
// a sample is required and its status is neither no_sample nor unset
func IsSampleActive(o *models.Order) bool {
	if o == nil || !o.SampleRequired {
		return false
	}
	status := strValue(o.SampleStatus)
	return status != "" && status != models.SampleStatusNoSample
}

// SampleRoutedTo returns the party holding the order's active sample, or ""
// when the sample workflow is not active
func SampleRoutedTo(o *models.Order) string {
	if !IsSampleActive(o) {
		return ""
	}
	return strValue(o.SampleRoutedTo)
}

// IsSampleApproved accepts both spellings the transition flows have written
func IsSampleApproved(status string) bool {
	return status == models.SampleStatusApproved || status == models.SampleStatusSampleApproved
}

// HasShippingSelected reports whether a shipping method is chosen and the
// client-facing price for that method is set
func HasShippingSelected(p *models.OrderProduct) bool {
	if p == nil {
		return false
	}
	switch strValue(p.SelectedShippingMethod) {
	case models.ShippingMethodAir:
		return amount(p.ClientAirShippingPrice) > 0
	case models.ShippingMethodBoat:
		return amount(p.ClientBoatShippingPrice) > 0
	}
	return false
}

// shippingPrice returns the price for the line's selected method under the
// given pricing view; zero when no method is selected
func shippingPrice(p *models.OrderProduct, view PricingView) float64 {
	switch strValue(p.SelectedShippingMethod) {
	case models.ShippingMethodAir:
		if view == PricingViewCost {
			return amount(p.AirShippingPrice)
		}
		return amount(p.ClientAirShippingPrice)
	case models.ShippingMethodBoat:
		if view == PricingViewCost {
			return amount(p.BoatShippingPrice)
		}
		return amount(p.ClientBoatShippingPrice)
	}
	return 0
}
