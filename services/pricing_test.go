package services

import (
	"testing"
	"time"

	"github.com/kendall-kelly/maker-orders-api/models"
	"github.com/stretchr/testify/assert"
)

func tptr(t time.Time) *time.Time { return &t }

func itemsWithQuantity(quantities ...int) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(quantities))
	for _, q := range quantities {
		items = append(items, models.OrderItem{Quantity: q})
	}
	return items
}

func TestViewForRole(t *testing.T) {
	assert.Equal(t, PricingViewClientFacing, ViewForRole(models.RoleAdmin))
	assert.Equal(t, PricingViewClientFacing, ViewForRole(models.RoleSuperAdmin))
	assert.Equal(t, PricingViewCost, ViewForRole(models.RoleManufacturer))
	assert.Equal(t, PricingViewNone, ViewForRole(models.RoleClient))
	assert.Equal(t, PricingViewNone, ViewForRole("accountant"))
	assert.Equal(t, PricingViewNone, ViewForRole(""))
}

func TestCalculateProductFees(t *testing.T) {
	tests := []struct {
		name     string
		product  models.OrderProduct
		expected float64
	}{
		{"empty product", models.OrderProduct{}, 0},
		{"unit price times quantity", models.OrderProduct{
			ClientProductPrice: fptr(25),
			Items:              itemsWithQuantity(1, 3),
		}, 100},
		{"sample fee added", models.OrderProduct{
			SampleFee:          fptr(15),
			ClientProductPrice: fptr(10),
			Items:              itemsWithQuantity(2),
		}, 35},
		{"selected shipping added", models.OrderProduct{
			ClientProductPrice:     fptr(10),
			Items:                  itemsWithQuantity(1),
			SelectedShippingMethod: sptr(models.ShippingMethodAir),
			ClientAirShippingPrice: fptr(40),
			// boat price must not leak in
			ClientBoatShippingPrice: fptr(999),
		}, 50},
		{"unselected shipping ignored", models.OrderProduct{
			ClientProductPrice:     fptr(10),
			Items:                  itemsWithQuantity(1),
			ClientAirShippingPrice: fptr(40),
		}, 10},
		{"cost fallback when client unit price missing", models.OrderProduct{
			ProductPrice: fptr(8),
			Items:        itemsWithQuantity(5),
		}, 40},
		{"sample fee with no quantity", models.OrderProduct{
			SampleFee:          fptr(15),
			ClientProductPrice: fptr(25),
		}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateProductFees(&tt.product))
		})
	}

	assert.Equal(t, 0.0, CalculateProductFees(nil))
}

func TestCalculateProductTotalRoleAsymmetry(t *testing.T) {
	product := models.OrderProduct{
		ProductPrice:       fptr(10), // manufacturer cost
		ClientProductPrice: fptr(25), // client-facing
		Items:              itemsWithQuantity(4),
	}

	adminTotal := CalculateProductTotal(&product, ViewForRole(models.RoleAdmin))
	manufacturerTotal := CalculateProductTotal(&product, ViewForRole(models.RoleManufacturer))

	assert.Equal(t, 100.0, adminTotal, "Admin sees client-facing prices")
	assert.Equal(t, 40.0, manufacturerTotal, "Manufacturer sees cost prices")
	assert.NotEqual(t, adminTotal, manufacturerTotal,
		"Distinct price columns with quantity > 0 must yield different totals per role")

	assert.Equal(t, 0.0, CalculateProductTotal(&product, ViewForRole(models.RoleClient)),
		"Other roles see no totals")
}

func TestCalculateProductTotalShippingByView(t *testing.T) {
	product := models.OrderProduct{
		ProductPrice:           fptr(10),
		ClientProductPrice:     fptr(25),
		Items:                  itemsWithQuantity(1),
		SelectedShippingMethod: sptr(models.ShippingMethodBoat),
		BoatShippingPrice:      fptr(5),
		ClientBoatShippingPrice: fptr(12),
	}

	assert.Equal(t, 37.0, CalculateProductTotal(&product, PricingViewClientFacing))
	assert.Equal(t, 15.0, CalculateProductTotal(&product, PricingViewCost))
}

func TestCalculateOrderTotal(t *testing.T) {
	order := models.Order{
		Products: []models.OrderProduct{
			{ClientProductPrice: fptr(25), ProductPrice: fptr(10), Items: itemsWithQuantity(2)},
			{ClientProductPrice: fptr(5), ProductPrice: fptr(2), Items: itemsWithQuantity(10)},
		},
	}

	assert.Equal(t, 100.0, CalculateOrderTotal(&order, PricingViewClientFacing))
	assert.Equal(t, 40.0, CalculateOrderTotal(&order, PricingViewCost))
	assert.Equal(t, 0.0, CalculateOrderTotal(&order, PricingViewNone))
	assert.Equal(t, 0.0, CalculateOrderTotal(nil, PricingViewClientFacing))
}

func TestCalculateOrderFeesOnlyCountsAdminHeldLines(t *testing.T) {
	order := models.Order{
		Products: []models.OrderProduct{
			{RoutedTo: models.RoutedToAdmin, ClientProductPrice: fptr(25), Items: itemsWithQuantity(4)},
			{RoutedTo: models.RoutedToManufacturer, ClientProductPrice: fptr(100), Items: itemsWithQuantity(1)},
			{RoutedTo: models.RoutedToClient, ClientProductPrice: fptr(100), Items: itemsWithQuantity(1)},
		},
	}

	assert.Equal(t, 100.0, CalculateOrderFees(&order),
		"Only the admin-held line counts toward the invoice-approval total")
}

func TestCalculatorsNeverNegative(t *testing.T) {
	poisoned := models.OrderProduct{
		SampleFee:          fptr(-50),
		ClientProductPrice: fptr(-25),
		ProductPrice:       fptr(-10),
		Items:              itemsWithQuantity(3),
	}
	order := models.Order{Products: []models.OrderProduct{poisoned}}

	assert.GreaterOrEqual(t, CalculateProductFees(&poisoned), 0.0)
	assert.GreaterOrEqual(t, CalculateProductTotal(&poisoned, PricingViewClientFacing), 0.0)
	assert.GreaterOrEqual(t, CalculateProductTotal(&poisoned, PricingViewCost), 0.0)
	assert.GreaterOrEqual(t, CalculateOrderTotal(&order, PricingViewClientFacing), 0.0)
	assert.GreaterOrEqual(t, CalculateOrderFees(&order), 0.0)
}

func TestEarliestInvoiceReadyDate(t *testing.T) {
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	order := models.Order{
		Products: []models.OrderProduct{
			// qualifies, newer
			{RoutedTo: models.RoutedToAdmin, ClientProductPrice: fptr(10), Items: itemsWithQuantity(1),
				ProductStatus: models.ProductStatusPending, RoutedAt: tptr(newer)},
			// qualifies, older
			{RoutedTo: models.RoutedToAdmin, SampleFee: fptr(5),
				ProductStatus: models.ProductStatusPending, RoutedAt: tptr(older)},
			// not billable
			{RoutedTo: models.RoutedToAdmin, ProductStatus: models.ProductStatusPending, RoutedAt: tptr(older.Add(-time.Hour))},
			// past production
			{RoutedTo: models.RoutedToAdmin, ClientProductPrice: fptr(10), Items: itemsWithQuantity(1),
				ProductStatus: models.ProductStatusInProduction, RoutedAt: tptr(older.Add(-time.Hour))},
			// held by manufacturer
			{RoutedTo: models.RoutedToManufacturer, ClientProductPrice: fptr(10), Items: itemsWithQuantity(1),
				ProductStatus: models.ProductStatusPending, RoutedAt: tptr(older.Add(-time.Hour))},
		},
	}

	got := EarliestInvoiceReadyDate(&order)
	assert.NotNil(t, got)
	assert.True(t, got.Equal(older), "Earliest qualifying RoutedAt wins")

	assert.Nil(t, EarliestInvoiceReadyDate(&models.Order{}), "No qualifying line means no date")
	assert.Nil(t, EarliestInvoiceReadyDate(nil))
}

func TestDaysSinceInvoiceReady(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysSinceInvoiceReady(nil, now), "Absent timestamp is zero days")
	assert.Equal(t, 0, DaysSinceInvoiceReady(tptr(now), now))
	assert.Equal(t, 0, DaysSinceInvoiceReady(tptr(now.Add(time.Hour)), now), "Future timestamp is zero days")
	assert.Equal(t, 1, DaysSinceInvoiceReady(tptr(now.Add(-time.Hour)), now), "Partial day rounds up")
	assert.Equal(t, 1, DaysSinceInvoiceReady(tptr(now.Add(-24*time.Hour)), now))
	assert.Equal(t, 3, DaysSinceInvoiceReady(tptr(now.Add(-49*time.Hour)), now))
}
