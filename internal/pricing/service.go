package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/internal/catalog"
	"github.com/pharmadist/pricing-engine/internal/customers"
	"github.com/pharmadist/pricing-engine/internal/overrides"
	"github.com/pharmadist/pricing-engine/internal/promotions"
	"github.com/pharmadist/pricing-engine/internal/rules"
	"github.com/pharmadist/pricing-engine/internal/tiers"
	"github.com/pharmadist/pricing-engine/pkg/enums"
	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
	"github.com/pharmadist/pricing-engine/pkg/metrics"
)

// SkipReasonTierStacking marks a valid promotion that was withheld because it
// does not stack with an applied tier discount.
const SkipReasonTierStacking = "cannot_stack_with_tier_pricing"

var hundred = decimal.NewFromInt(100)

// CalculateInput is one pricing question: this product, this customer, this
// quantity, right now (or at AsOf when set).
type CalculateInput struct {
	ProductID     uuid.UUID
	CustomerID    uuid.UUID
	Quantity      int
	PromotionCode string
	PriceType     enums.PriceType
	RegionID      *uuid.UUID
	AsOf          time.Time
}

// BatchLine is one line of a multi-product calculation.
type BatchLine struct {
	ProductID uuid.UUID
	Quantity  int
	PriceType enums.PriceType
	RegionID  *uuid.UUID
}

// Breakdown itemizes every stage of a price calculation. Discount percents
// are relative to the price the stage saw; OverallDiscountPercent is relative
// to the undiscounted base total.
type Breakdown struct {
	ProductID  uuid.UUID
	CustomerID uuid.UUID
	Quantity   int

	BasePrice   decimal.Decimal
	PriceSource overrides.PriceSource
	OverrideID  *uuid.UUID

	TierDiscountPercent decimal.Decimal
	TierDiscountAmount  decimal.Decimal

	RuleID              *uuid.UUID
	RuleDiscountPercent decimal.Decimal
	RuleDiscountAmount  decimal.Decimal

	PromotionCode            string
	PromotionDiscountPercent decimal.Decimal
	PromotionDiscountAmount  decimal.Decimal
	PromotionError           *enums.PromotionErrorKind
	PromotionSkipReason      string

	FinalUnitPrice         decimal.Decimal
	LineTotal              decimal.Decimal
	TotalAfterPromotion    decimal.Decimal
	OverallDiscountPercent decimal.Decimal
}

// Service orchestrates the full pricing waterfall: base price, tier discount,
// at most one rule, then an optional promotion gated by stacking policy.
type Service interface {
	Calculate(ctx context.Context, input CalculateInput) (*Breakdown, error)
	CalculateBatch(ctx context.Context, customerID uuid.UUID, promotionCode string, lines []BatchLine) ([]*Breakdown, error)
}

type service struct {
	catalogSvc   catalog.Service
	customersSvc customers.Service
	resolver     overrides.Resolver
	selector     rules.Selector
	promotions   promotions.Service
	metrics      *metrics.PricingMetrics
}

// NewService wires the orchestrator. The metrics collector is optional.
func NewService(
	catalogSvc catalog.Service,
	customersSvc customers.Service,
	resolver overrides.Resolver,
	selector rules.Selector,
	promotionsSvc promotions.Service,
	m *metrics.PricingMetrics,
) (Service, error) {
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if customersSvc == nil {
		return nil, fmt.Errorf("customer service required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("override resolver required")
	}
	if selector == nil {
		return nil, fmt.Errorf("rule selector required")
	}
	if promotionsSvc == nil {
		return nil, fmt.Errorf("promotion service required")
	}
	return &service{
		catalogSvc:   catalogSvc,
		customersSvc: customersSvc,
		resolver:     resolver,
		selector:     selector,
		promotions:   promotionsSvc,
		metrics:      m,
	}, nil
}

func (s *service) Calculate(ctx context.Context, input CalculateInput) (*Breakdown, error) {
	started := time.Now()
	breakdown, err := s.calculate(ctx, input)
	if err != nil {
		s.metrics.ObserveCalculation("error", time.Since(started))
		return nil, err
	}
	s.metrics.ObserveCalculation("success", time.Since(started))
	return breakdown, nil
}

// CalculateBatch prices each line independently with the same customer and
// promotion code. A promotion's minimum-order threshold is checked against
// each line's own total; cart-level totals belong to the order workflow.
func (s *service) CalculateBatch(ctx context.Context, customerID uuid.UUID, promotionCode string, lines []BatchLine) ([]*Breakdown, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line required")
	}
	breakdowns := make([]*Breakdown, 0, len(lines))
	for _, line := range lines {
		breakdown, err := s.Calculate(ctx, CalculateInput{
			ProductID:     line.ProductID,
			CustomerID:    customerID,
			Quantity:      line.Quantity,
			PromotionCode: promotionCode,
			PriceType:     line.PriceType,
			RegionID:      line.RegionID,
		})
		if err != nil {
			return nil, err
		}
		breakdowns = append(breakdowns, breakdown)
	}
	return breakdowns, nil
}

func (s *service) calculate(ctx context.Context, input CalculateInput) (*Breakdown, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	product, err := s.catalogSvc.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customersSvc.GetCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolver.ResolveBasePrice(ctx, overrides.ResolveInput{
		ProductID:  input.ProductID,
		CustomerID: input.CustomerID,
		PriceType:  input.PriceType,
		RegionID:   input.RegionID,
		AsOf:       asOf,
	})
	if err != nil {
		return nil, err
	}

	breakdown := &Breakdown{
		ProductID:   input.ProductID,
		CustomerID:  input.CustomerID,
		Quantity:    input.Quantity,
		BasePrice:   resolved.Price,
		PriceSource: resolved.Source,
		OverrideID:  resolved.OverrideID,
	}

	price := resolved.Price

	// tier discount
	tierPercent := tiers.DiscountPercentFor(customer.Tier)
	tierAmount := price.Mul(tierPercent).Div(hundred)
	price = clampZero(price.Sub(tierAmount))
	breakdown.TierDiscountPercent = tierPercent
	breakdown.TierDiscountAmount = tierAmount

	// at most one rule
	rule, err := s.selector.SelectBestRule(ctx, product, customer, input.Quantity, asOf)
	if err != nil {
		return nil, err
	}
	if rule != nil {
		ruleAmount := rules.DiscountAmount(rule, price)
		breakdown.RuleID = &rule.ID
		breakdown.RuleDiscountAmount = ruleAmount
		if price.Sign() > 0 {
			breakdown.RuleDiscountPercent = ruleAmount.Mul(hundred).Div(price)
		}
		price = clampZero(price.Sub(ruleAmount))
	}

	breakdown.FinalUnitPrice = price
	breakdown.LineTotal = price.Mul(decimal.NewFromInt(int64(input.Quantity)))
	breakdown.TotalAfterPromotion = breakdown.LineTotal

	if input.PromotionCode != "" {
		if err := s.applyPromotion(ctx, breakdown, input.PromotionCode, asOf); err != nil {
			return nil, err
		}
	}

	breakdown.OverallDiscountPercent = overallDiscountPercent(breakdown)
	return breakdown, nil
}

// applyPromotion previews the promotion against the line total and records
// its contribution. Validation failures are soft: the line still prices, the
// breakdown carries the reason. Only infrastructure errors abort.
func (s *service) applyPromotion(ctx context.Context, breakdown *Breakdown, code string, asOf time.Time) error {
	result, err := s.promotions.Validate(ctx, code, breakdown.CustomerID, breakdown.LineTotal, asOf)
	if err != nil {
		return err
	}
	if !result.Valid {
		breakdown.PromotionError = result.ErrorKind
		return nil
	}
	if !result.Promotion.CanStackWithTier && breakdown.TierDiscountAmount.Sign() > 0 {
		breakdown.PromotionSkipReason = SkipReasonTierStacking
		return nil
	}

	breakdown.PromotionCode = code
	breakdown.PromotionDiscountAmount = result.EstimatedDiscount
	if breakdown.LineTotal.Sign() > 0 {
		breakdown.PromotionDiscountPercent = result.EstimatedDiscount.Mul(hundred).Div(breakdown.LineTotal)
	}
	breakdown.TotalAfterPromotion = clampZero(breakdown.LineTotal.Sub(result.EstimatedDiscount))
	return nil
}

func overallDiscountPercent(breakdown *Breakdown) decimal.Decimal {
	baseTotal := breakdown.BasePrice.Mul(decimal.NewFromInt(int64(breakdown.Quantity)))
	if baseTotal.Sign() <= 0 {
		return decimal.Zero
	}
	saved := baseTotal.Sub(breakdown.TotalAfterPromotion)
	return saved.Mul(hundred).Div(baseTotal)
}

func clampZero(value decimal.Decimal) decimal.Decimal {
	if value.Sign() < 0 {
		return decimal.Zero
	}
	return value
}
