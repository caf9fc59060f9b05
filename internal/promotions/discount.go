package promotions

import (
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/pkg/db/models"
	"github.com/pharmadist/pricing-engine/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// DiscountAmount computes the promotion's discount against an order total,
// capped by MaxDiscountAmount when set and never exceeding the total itself.
// Free-shipping promotions take nothing off the merchandise total; the
// shipping credit is the order workflow's concern.
func DiscountAmount(p *models.Promotion, orderTotal decimal.Decimal) decimal.Decimal {
	if p == nil || orderTotal.Sign() <= 0 {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch p.DiscountKind {
	case enums.PromotionDiscountPercentage:
		discount = orderTotal.Mul(p.DiscountValue).Div(hundred)
	case enums.PromotionDiscountFixedAmount:
		discount = p.DiscountValue
	case enums.PromotionDiscountFreeShipping:
		return decimal.Zero
	default:
		return decimal.Zero
	}
	if p.MaxDiscountAmount != nil {
		discount = decimal.Min(discount, *p.MaxDiscountAmount)
	}
	if discount.Sign() < 0 {
		return decimal.Zero
	}
	return decimal.Min(discount, orderTotal)
}
