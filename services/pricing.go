package services

import (
	"math"
	"time"

	"github.com/kendall-kelly/maker-orders-api/models"
)

// PricingView selects which side of the price columns a calculation reads.
// It is resolved once per request from the caller's role and threaded
// through the calculators, so individual call sites never compare role
// strings.
type PricingView int

const (
	// PricingViewNone: the role sees no prices; every total is zero.
	PricingViewNone PricingView = iota
	// PricingViewClientFacing: client prices. Admin-class viewers always get
	// this view, regardless of whose numbers they are looking at.
	PricingViewClientFacing
	// PricingViewCost: manufacturer cost prices. Manufacturer viewers always
	// get this view. The two views are never transposed.
	PricingViewCost
)

// ViewForRole maps a role tag to its pricing view
func ViewForRole(role string) PricingView {
	switch {
	case models.IsAdminRole(role):
		return PricingViewClientFacing
	case role == models.RoleManufacturer:
		return PricingViewCost
	}
	return PricingViewNone
}

// CalculateProductFees is the admin/client-facing billable total for one
// line: sample fee + effective client unit price x total quantity +
// client-facing shipping for the selected method. Used for invoice-readiness
// displays; not role-sensitive.
func CalculateProductFees(p *models.OrderProduct) float64 {
	if p == nil {
		return 0
	}
	total := amount(p.SampleFee)
	total += EffectiveUnitPrice(p) * float64(p.TotalQuantity())
	total += shippingPrice(p, PricingViewClientFacing)
	if total < 0 {
		return 0
	}
	return total
}

// CalculateProductTotal is the role-sensitive line total under the given
// pricing view
func CalculateProductTotal(p *models.OrderProduct, view PricingView) float64 {
	if p == nil || view == PricingViewNone {
		return 0
	}
	unit := amount(p.ClientProductPrice)
	if view == PricingViewCost {
		unit = amount(p.ProductPrice)
	}
	total := amount(p.SampleFee)
	total += unit * float64(p.TotalQuantity())
	total += shippingPrice(p, view)
	if total < 0 {
		return 0
	}
	return total
}

// CalculateOrderTotal sums the role-sensitive line totals across the order
func CalculateOrderTotal(o *models.Order, view PricingView) float64 {
	if o == nil {
		return 0
	}
	total := 0.0
	for i := range o.Products {
		total += CalculateProductTotal(&o.Products[i], view)
	}
	return total
}

// CalculateOrderFees sums CalculateProductFees over admin-held lines only;
// this is the total awaiting invoice approval
func CalculateOrderFees(o *models.Order) float64 {
	if o == nil {
		return 0
	}
	total := 0.0
	for i := range o.Products {
		if o.Products[i].RoutedTo == models.RoutedToAdmin {
			total += CalculateProductFees(&o.Products[i])
		}
	}
	return total
}

// EarliestInvoiceReadyDate returns the earliest RoutedAt among admin-held,
// billable, pre-production lines, or nil when no line qualifies. Drives the
// "days waiting for invoice" display.
func EarliestInvoiceReadyDate(o *models.Order) *time.Time {
	if o == nil {
		return nil
	}
	var earliest *time.Time
	for i := range o.Products {
		p := &o.Products[i]
		if p.RoutedTo != models.RoutedToAdmin || !ProductHasFees(p) {
			continue
		}
		if models.InProductionOrBeyond(p.ProductStatus) {
			continue
		}
		if p.RoutedAt == nil {
			continue
		}
		if earliest == nil || p.RoutedAt.Before(*earliest) {
			earliest = p.RoutedAt
		}
	}
	return earliest
}

// DaysSinceInvoiceReady is the elapsed whole days since the given timestamp,
// rounded up; 0 when the timestamp is absent or in the future
func DaysSinceInvoiceReady(since *time.Time, now time.Time) int {
	if since == nil {
		return 0
	}
	elapsed := now.Sub(*since)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Ceil(elapsed.Hours() / 24))
}
