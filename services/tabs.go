package services

import (
	"strings"
	"time"

	"github.com/kendall-kelly/maker-orders-api/models"
)

// Tab identifies an operational queue in the order list UI
type Tab string

// SubTab identifies a production_status sub-queue
type SubTab string

const (
	TabMyOrders         Tab = "my_orders"
	TabInvoiceApproval  Tab = "invoice_approval"
	TabSentToOther      Tab = "sent_to_other"
	TabProductionStatus Tab = "production_status"
	TabReadyToShip      Tab = "ready_to_ship"
	TabShipped          Tab = "shipped"

	SubTabSampleApproved        SubTab = "sample_approved"
	SubTabApprovedForProduction SubTab = "approved_for_production"
	SubTabInProduction          SubTab = "in_production"
)

// ParseTab validates a tab query parameter
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case TabMyOrders, TabInvoiceApproval, TabSentToOther, TabProductionStatus, TabReadyToShip, TabShipped:
		return Tab(s), true
	}
	return "", false
}

// ParseSubTab validates a production_status sub-tab query parameter
func ParseSubTab(s string) (SubTab, bool) {
	switch SubTab(s) {
	case SubTabSampleApproved, SubTabApprovedForProduction, SubTabInProduction:
		return SubTab(s), true
	}
	return "", false
}

// TabCounts are the per-tab badge numbers for one viewer. Counts are
// line-level: each counter is the number of order lines matching that tab's
// predicate, so a single order can contribute several lines to one badge.
type TabCounts struct {
	MyOrders              int `json:"my_orders"`
	InvoiceApproval       int `json:"invoice_approval"`
	SentToOther           int `json:"sent_to_other"`
	SampleApproved        int `json:"sample_approved"`
	ApprovedForProduction int `json:"approved_for_production"`
	InProduction          int `json:"in_production"`
	ProductionTotal       int `json:"production_total"`
	ReadyToShip           int `json:"ready_to_ship"`
	Shipped               int `json:"shipped"`
}

// ownerForRole maps a viewer role to the action owner its queues track
func ownerForRole(role string) models.ActionOwner {
	switch {
	case models.IsAdminRole(role):
		return models.OwnerAdmin
	case role == models.RoleManufacturer:
		return models.OwnerManufacturer
	case role == models.RoleClient:
		return models.OwnerClient
	}
	return models.OwnerInvalid
}

// otherParty is the opposite side of the admin/manufacturer handoff. Clients
// have no sent_to_other queue.
func otherParty(owner models.ActionOwner) models.ActionOwner {
	switch owner {
	case models.OwnerAdmin:
		return models.OwnerManufacturer
	case models.OwnerManufacturer:
		return models.OwnerAdmin
	}
	return models.OwnerInvalid
}

// lineHeldBy reports whether the line is actionable by the given party:
// routed to them and not yet at a production-stage status
func lineHeldBy(p *models.OrderProduct, owner models.ActionOwner) bool {
	return owner != models.OwnerInvalid && models.Classify(p.RoutedTo, p.ProductStatus) == owner
}

// lineInMyOrders: held by the viewer, and for admin-class viewers not
// billable (billable admin-held lines live in invoice_approval instead)
func lineInMyOrders(p *models.OrderProduct, owner models.ActionOwner) bool {
	if !lineHeldBy(p, owner) {
		return false
	}
	if owner == models.OwnerAdmin && ProductHasFees(p) {
		return false
	}
	return true
}

// lineInInvoiceApproval: admin-held, billable, pre-production
func lineInInvoiceApproval(p *models.OrderProduct) bool {
	return lineHeldBy(p, models.OwnerAdmin) && ProductHasFees(p)
}

func lineSampleApproved(p *models.OrderProduct) bool {
	return IsSampleApproved(strValue(p.SampleStatus))
}

func lineApprovedForProduction(p *models.OrderProduct) bool {
	return p.ProductStatus == models.ProductStatusApprovedForProduction ||
		p.ProductStatus == models.ProductStatusReadyForProduction
}

func lineInProduction(p *models.OrderProduct) bool {
	return p.ProductStatus == models.ProductStatusInProduction
}

func lineReadyToShip(p *models.OrderProduct, thresholdDays int, now time.Time) bool {
	return lineInProduction(p) && IsWithinShipThreshold(now, p.EstimatedShipDate, thresholdDays)
}

func lineShipped(p *models.OrderProduct) bool {
	return p.ProductStatus == models.ProductStatusShipped ||
		p.ProductStatus == models.ProductStatusCompleted
}

// hasOutstanding reports whether the order has anything actionable on the
// given party's side: a held pre-production line (billable or not) or the
// active sample
func hasOutstanding(o *models.Order, owner models.ActionOwner) bool {
	for i := range o.Products {
		if lineHeldBy(&o.Products[i], owner) {
			return true
		}
	}
	return SampleRoutedTo(o) == string(owner)
}

// orderInTab decides tab membership for one order and viewer.
//
// Note on my_orders vs sent_to_other: an order with outstanding work on both
// sides stays in the viewer's my_orders and is excluded from sent_to_other.
// The two tabs are deliberately not complementary.
func orderInTab(o *models.Order, owner models.ActionOwner, role string, tab Tab, subTab SubTab, thresholdDays int, now time.Time) bool {
	switch tab {
	case TabMyOrders:
		for i := range o.Products {
			if lineInMyOrders(&o.Products[i], owner) {
				return true
			}
		}
		return SampleRoutedTo(o) == string(owner)

	case TabInvoiceApproval:
		// Admin and client only; the total under approval is the
		// client-facing one either way.
		if !models.IsAdminRole(role) && role != models.RoleClient {
			return false
		}
		for i := range o.Products {
			if lineInInvoiceApproval(&o.Products[i]) {
				return true
			}
		}
		return false

	case TabSentToOther:
		other := otherParty(owner)
		if other == models.OwnerInvalid || hasOutstanding(o, owner) {
			return false
		}
		for i := range o.Products {
			if lineHeldBy(&o.Products[i], other) {
				return true
			}
		}
		return SampleRoutedTo(o) == string(other)

	case TabProductionStatus:
		switch subTab {
		case SubTabSampleApproved:
			if IsSampleApproved(strValue(o.SampleStatus)) {
				return true
			}
			for i := range o.Products {
				if lineSampleApproved(&o.Products[i]) {
					return true
				}
			}
		case SubTabApprovedForProduction:
			for i := range o.Products {
				if lineApprovedForProduction(&o.Products[i]) {
					return true
				}
			}
		case SubTabInProduction:
			for i := range o.Products {
				if lineInProduction(&o.Products[i]) {
					return true
				}
			}
		}
		return false

	case TabReadyToShip:
		if role != models.RoleManufacturer {
			return false
		}
		for i := range o.Products {
			if lineReadyToShip(&o.Products[i], thresholdDays, now) {
				return true
			}
		}
		return false

	case TabShipped:
		for i := range o.Products {
			if lineShipped(&o.Products[i]) {
				return true
			}
		}
		return false
	}
	return false
}

// FilterOrders returns the orders belonging to the selected tab for the
// given viewer role, preserving input order. thresholdDays only matters for
// ready_to_ship; now is injected for deterministic date arithmetic.
func FilterOrders(orders []models.Order, role string, tab Tab, subTab SubTab, thresholdDays int, now time.Time) []models.Order {
	owner := ownerForRole(role)
	filtered := make([]models.Order, 0, len(orders))
	for i := range orders {
		if orderInTab(&orders[i], owner, role, tab, subTab, thresholdDays, now) {
			filtered = append(filtered, orders[i])
		}
	}
	return filtered
}

// CountTabs walks every order's lines once and produces the badge counters
// for the given viewer. Each counter uses the same line predicate as tab
// membership; ProductionTotal sums the three production sub-tab counters.
func CountTabs(orders []models.Order, role string, thresholdDays int, now time.Time) TabCounts {
	owner := ownerForRole(role)
	other := otherParty(owner)
	invoiceTab := models.IsAdminRole(role) || role == models.RoleClient

	var counts TabCounts
	for i := range orders {
		o := &orders[i]
		ownSide := hasOutstanding(o, owner)
		for j := range o.Products {
			p := &o.Products[j]
			if lineInMyOrders(p, owner) {
				counts.MyOrders++
			}
			if invoiceTab && lineInInvoiceApproval(p) {
				counts.InvoiceApproval++
			}
			if other != models.OwnerInvalid && !ownSide && lineHeldBy(p, other) {
				counts.SentToOther++
			}
			if lineSampleApproved(p) {
				counts.SampleApproved++
			}
			if lineApprovedForProduction(p) {
				counts.ApprovedForProduction++
			}
			if lineInProduction(p) {
				counts.InProduction++
			}
			if role == models.RoleManufacturer && lineReadyToShip(p, thresholdDays, now) {
				counts.ReadyToShip++
			}
			if lineShipped(p) {
				counts.Shipped++
			}
		}
	}
	counts.ProductionTotal = counts.SampleApproved + counts.ApprovedForProduction + counts.InProduction
	return counts
}

// MatchesSearch reports whether an order matches a free-text query. Each
// whitespace-separated token must match (case-insensitive) the order number,
// order name, client name, or manufacturer name. An empty query matches
// everything.
func MatchesSearch(o *models.Order, query string) bool {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return true
	}
	fields := []string{
		strings.ToLower(o.OrderNumber),
		strings.ToLower(strValue(o.OrderName)),
		strings.ToLower(o.Client.CompanyName),
	}
	if o.Manufacturer != nil {
		fields = append(fields, strings.ToLower(o.Manufacturer.CompanyName))
	}
	for _, token := range tokens {
		found := false
		for _, field := range fields {
			if strings.Contains(field, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FilterBySearch applies MatchesSearch across a slice, preserving order.
// Search composes with tab classification without changing its semantics.
func FilterBySearch(orders []models.Order, query string) []models.Order {
	if strings.TrimSpace(query) == "" {
		return orders
	}
	filtered := make([]models.Order, 0, len(orders))
	for i := range orders {
		if MatchesSearch(&orders[i], query) {
			filtered = append(filtered, orders[i])
		}
	}
	return filtered
}
