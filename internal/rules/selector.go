package rules

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/internal/catalog"
	"github.com/pharmadist/pricing-engine/internal/customers"
	"github.com/pharmadist/pricing-engine/pkg/db/models"
	"github.com/pharmadist/pricing-engine/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// Selector picks the single best-matching price rule for a calculation.
// Rules never stack with each other; at most one wins. Pure read.
type Selector interface {
	SelectBestRule(ctx context.Context, product *catalog.ProductInfo, customer *customers.CustomerInfo, quantity int, asOf time.Time) (*models.PriceRule, error)
}

type selector struct {
	repo Repository
}

// NewSelector wires a rule selector with its repository.
func NewSelector(repo Repository) (Selector, error) {
	if repo == nil {
		return nil, fmt.Errorf("rule repository required")
	}
	return &selector{repo: repo}, nil
}

// SelectBestRule returns the highest-priority matching rule, or nil when
// nothing matches. Priority ties break by rule id ascending so the outcome
// never depends on row order.
func (s *selector) SelectBestRule(ctx context.Context, product *catalog.ProductInfo, customer *customers.CustomerInfo, quantity int, asOf time.Time) (*models.PriceRule, error) {
	if product == nil {
		return nil, fmt.Errorf("product required")
	}
	if customer == nil {
		return nil, fmt.Errorf("customer required")
	}

	candidates, err := s.repo.FindCandidates(ctx, product.ID, product.CategoryID, product.ManufacturerID, asOf)
	if err != nil {
		return nil, err
	}

	mc := MatchContext{Product: product, Customer: customer, Quantity: quantity}
	matched := candidates[:0]
	for _, candidate := range candidates {
		if Matches(candidate, mc) {
			matched = append(matched, candidate)
		}
	}
	if len(matched) == 0 {
		return nil, nil
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID.String() < b.ID.String()
	})
	winner := matched[0]
	return &winner, nil
}

// DiscountAmount computes how much the rule takes off a current unit price.
// The result is clamped to [0, price] so a rule can never push a price
// negative or grant more than the price itself.
func DiscountAmount(rule *models.PriceRule, price decimal.Decimal) decimal.Decimal {
	if rule == nil || price.Sign() <= 0 {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch rule.DiscountKind {
	case enums.RuleDiscountPercentage:
		discount = price.Mul(rule.DiscountValue).Div(hundred)
	case enums.RuleDiscountFixedAmount:
		discount = decimal.Min(rule.DiscountValue, price)
	case enums.RuleDiscountFixedPrice:
		// The value is the target sell price, so the discount is whatever
		// distance remains down to it.
		discount = decimal.Max(decimal.Zero, price.Sub(rule.DiscountValue))
	default:
		return decimal.Zero
	}
	if discount.Sign() < 0 {
		return decimal.Zero
	}
	return decimal.Min(discount, price)
}
