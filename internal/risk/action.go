package risk

import (
	"fmt"

	"github.com/fekuna/ecomarche-risk-service/internal/model"
)

// Action labels for computed recommendations.
const (
	ActionCheckDate      = "Check date"
	ActionMajorDiscount  = "Immediate major discount"
	ActionDiscount30     = "30% discount"
	ActionDiscount15     = "15% discount"
	ActionSmallPromotion = "Small promotion"
	ActionMajorBundle    = "Major promotion/bundle"
	ActionMultiBuy       = "Multi-buy promotion"
	ActionMonitorStock   = "Monitor stock"
	ActionReposition     = "Reposition price or bundle"
)

// recommendAction maps the dominant driver and its magnitude to a discrete
// action and discount percentage.
func recommendAction(driver Driver, daysRemaining *int, stockRatio, priceScore float64) (string, float64) {
	switch driver {
	case DriverExpiry:
		switch {
		case daysRemaining == nil:
			return ActionCheckDate, 0
		case *daysRemaining <= 1:
			return ActionMajorDiscount, 40
		case *daysRemaining <= 3:
			return ActionDiscount30, 30
		case *daysRemaining <= 7:
			return ActionDiscount15, 15
		default:
			return ActionSmallPromotion, 5
		}
	case DriverStock:
		switch {
		case stockRatio > 2.0:
			return ActionMajorBundle, 30
		case stockRatio > 1.0:
			return ActionMultiBuy, 20
		default:
			return ActionMonitorStock, 0
		}
	default:
		if priceScore > 0.2 {
			return ActionReposition, 15
		}
		return ActionReposition, 10
	}
}

// ActionForDiscount re-derives an action label purely from a discount
// magnitude. Used when a persisted promotion overrides the computed
// recommendation.
func ActionForDiscount(discount float64) string {
	d := int(discount)
	switch {
	case discount <= 0:
		return "Monitor stock (0%)"
	case discount >= 40:
		return fmt.Sprintf("Immediate major discount (%d%%)", d)
	case discount >= 30:
		return fmt.Sprintf("%d%% discount (%d%%)", d, d)
	case discount >= 20:
		return fmt.Sprintf("Multi-buy promotion (%d%%)", d)
	case discount >= 10:
		return fmt.Sprintf("Small promotion (%d%%)", d)
	default:
		return fmt.Sprintf("%d%% discount (%d%%)", d, d)
	}
}

// applyPromotionOverride replaces the computed action and discount with the
// persisted promotion's discount. The override always wins over the driver.
func applyPromotionOverride(promo *model.Promotion, action string, discount float64) (string, float64) {
	if promo == nil {
		return action, discount
	}
	return ActionForDiscount(promo.DiscountPercent), promo.DiscountPercent
}
