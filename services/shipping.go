package services

import (
	"math"
	"time"

	"github.com/kendall-kelly/maker-orders-api/models"
)

// DefaultShipThresholdDays applies when a manufacturer has no configured
// ready-to-ship window
const DefaultShipThresholdDays = 3

// ThresholdForManufacturer resolves the ready-to-ship window for a
// manufacturer, falling back to the default when unset or not positive
func ThresholdForManufacturer(m *models.Manufacturer) int {
	if m == nil || m.ShipThresholdDays == nil || *m.ShipThresholdDays <= 0 {
		return DefaultShipThresholdDays
	}
	return *m.ShipThresholdDays
}

// startOfDay truncates a time to midnight in its own location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsWithinShipThreshold reports whether an estimated ship date falls within
// thresholdDays from now, at calendar-day granularity. Both times are
// normalized to midnight; a nil or past ship date is never within threshold.
// now is injected so the evaluation is deterministic under test.
func IsWithinShipThreshold(now time.Time, shipDate *time.Time, thresholdDays int) bool {
	if shipDate == nil {
		return false
	}
	diff := startOfDay(*shipDate).Sub(startOfDay(now))
	diffDays := int(math.Ceil(diff.Hours() / 24))
	return diffDays >= 0 && diffDays <= thresholdDays
}
