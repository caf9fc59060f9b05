// Package tiers maps customer tiers to their baseline discount percentage.
// The mapping is fixed at compile time so lookups are pure and safe for
// unbounded concurrent use.
package tiers

import (
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/pkg/enums"
)

var discountByTier = map[enums.CustomerTier]decimal.Decimal{
	enums.CustomerTierPremium:  decimal.NewFromInt(15),
	enums.CustomerTierStandard: decimal.NewFromInt(10),
	enums.CustomerTierBasic:    decimal.NewFromInt(5),
}

// DiscountPercentFor returns the baseline discount percentage for the tier.
// Unknown tiers get zero.
func DiscountPercentFor(tier enums.CustomerTier) decimal.Decimal {
	if pct, ok := discountByTier[tier]; ok {
		return pct
	}
	return decimal.Zero
}
