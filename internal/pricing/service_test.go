package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/internal/catalog"
	"github.com/pharmadist/pricing-engine/internal/customers"
	"github.com/pharmadist/pricing-engine/internal/overrides"
	"github.com/pharmadist/pricing-engine/internal/promotions"
	"github.com/pharmadist/pricing-engine/pkg/db/models"
	"github.com/pharmadist/pricing-engine/pkg/enums"
	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
)

type fakeCatalog struct {
	products map[uuid.UUID]*catalog.ProductInfo
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductInfo, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

type fakeCustomers struct {
	customers map[uuid.UUID]*customers.CustomerInfo
}

func (f *fakeCustomers) GetCustomer(ctx context.Context, id uuid.UUID) (*customers.CustomerInfo, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return customer, nil
}

func (f *fakeCustomers) IsChildOf(ctx context.Context, childID, parentID uuid.UUID) (bool, error) {
	return false, nil
}

// fakeResolver answers straight from the catalog base price.
type fakeResolver struct {
	catalog *fakeCatalog
}

func (f *fakeResolver) ResolveBasePrice(ctx context.Context, input overrides.ResolveInput) (*overrides.ResolvedPrice, error) {
	product, err := f.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	return &overrides.ResolvedPrice{Price: product.BasePrice, Source: overrides.SourceCatalog}, nil
}

type fakeSelector struct {
	rule *models.PriceRule
}

func (f *fakeSelector) SelectBestRule(ctx context.Context, product *catalog.ProductInfo, customer *customers.CustomerInfo, quantity int, asOf time.Time) (*models.PriceRule, error) {
	return f.rule, nil
}

type fakePromotions struct {
	result *promotions.ValidationResult
}

func (f *fakePromotions) Validate(ctx context.Context, code string, customerID uuid.UUID, orderTotal decimal.Decimal, asOf time.Time) (*promotions.ValidationResult, error) {
	if f.result != nil && f.result.Valid && f.result.Promotion != nil {
		// recompute against the supplied total the way the real service does
		result := *f.result
		result.EstimatedDiscount = promotions.DiscountAmount(f.result.Promotion, orderTotal)
		return &result, nil
	}
	return f.result, nil
}

func (f *fakePromotions) Apply(ctx context.Context, input promotions.ApplyInput) (*promotions.AppliedPromotion, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not used in these tests")
}

type testFixture struct {
	svc        Service
	productID  uuid.UUID
	customerID uuid.UUID
}

func newFixture(t *testing.T, basePrice string, tier enums.CustomerTier, rule *models.PriceRule, promo *promotions.ValidationResult) testFixture {
	t.Helper()
	productID := uuid.New()
	customerID := uuid.New()
	cat := &fakeCatalog{products: map[uuid.UUID]*catalog.ProductInfo{
		productID: {
			ID:             productID,
			SKU:            "SKU-001",
			BasePrice:      decimal.RequireFromString(basePrice),
			CategoryID:     uuid.New(),
			ManufacturerID: uuid.New(),
		},
	}}
	cust := &fakeCustomers{customers: map[uuid.UUID]*customers.CustomerInfo{
		customerID: {ID: customerID, Tier: tier, Type: enums.CustomerTypePharmacy},
	}}
	svc, err := NewService(cat, cust, &fakeResolver{catalog: cat}, &fakeSelector{rule: rule}, &fakePromotions{result: promo}, nil)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return testFixture{svc: svc, productID: productID, customerID: customerID}
}

func validPromo(kind enums.PromotionDiscountKind, value, maxDiscount string, stacksWithTier bool) *promotions.ValidationResult {
	promotion := &models.Promotion{
		ID:               uuid.New(),
		Code:             "SUMMER10",
		DiscountKind:     kind,
		DiscountValue:    decimal.RequireFromString(value),
		CanStackWithTier: stacksWithTier,
		Active:           true,
	}
	if maxDiscount != "" {
		cap := decimal.RequireFromString(maxDiscount)
		promotion.MaxDiscountAmount = &cap
	}
	return &promotions.ValidationResult{Valid: true, Promotion: promotion}
}

func TestCalculateFullWaterfall(t *testing.T) {
	t.Parallel()

	rule := &models.PriceRule{
		ID:            uuid.New(),
		Scope:         enums.RuleScopeGlobal,
		DiscountKind:  enums.RuleDiscountPercentage,
		DiscountValue: decimal.RequireFromString("5"),
		Active:        true,
	}
	fx := newFixture(t, "100.00", enums.CustomerTierPremium, rule, validPromo(enums.PromotionDiscountPercentage, "10", "20.00", true))

	got, err := fx.svc.Calculate(context.Background(), CalculateInput{
		ProductID:     fx.productID,
		CustomerID:    fx.customerID,
		Quantity:      3,
		PromotionCode: "SUMMER10",
		PriceType:     enums.PriceTypeStandard,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	assertEqual := func(name string, got decimal.Decimal, want string) {
		t.Helper()
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("%s = %s, want %s", name, got, want)
		}
	}
	assertEqual("base price", got.BasePrice, "100.00")
	assertEqual("tier percent", got.TierDiscountPercent, "15")
	assertEqual("tier amount", got.TierDiscountAmount, "15.00")
	assertEqual("rule amount", got.RuleDiscountAmount, "4.25")
	assertEqual("final unit price", got.FinalUnitPrice, "80.75")
	assertEqual("line total", got.LineTotal, "242.25")
	// 10% of 242.25 is 24.225, capped at 20.00
	assertEqual("promotion amount", got.PromotionDiscountAmount, "20.00")
	assertEqual("total after promotion", got.TotalAfterPromotion, "222.25")
	if got.RuleID == nil || *got.RuleID != rule.ID {
		t.Fatalf("rule id missing from breakdown")
	}
	if got.PromotionCode != "SUMMER10" {
		t.Fatalf("promotion code %q", got.PromotionCode)
	}
	// saved 77.75 of a 300.00 base total
	want := decimal.RequireFromString("77.75").Mul(decimal.NewFromInt(100)).Div(decimal.RequireFromString("300.00"))
	if !got.OverallDiscountPercent.Equal(want) {
		t.Fatalf("overall percent %s, want %s", got.OverallDiscountPercent, want)
	}
}

func TestCalculateNonStackingPromotionSkipped(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, "100.00", enums.CustomerTierPremium, nil, validPromo(enums.PromotionDiscountPercentage, "10", "", false))

	got, err := fx.svc.Calculate(context.Background(), CalculateInput{
		ProductID:     fx.productID,
		CustomerID:    fx.customerID,
		Quantity:      1,
		PromotionCode: "SUMMER10",
		PriceType:     enums.PriceTypeStandard,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if got.PromotionSkipReason != SkipReasonTierStacking {
		t.Fatalf("expected stacking skip, got %q", got.PromotionSkipReason)
	}
	if !got.PromotionDiscountAmount.IsZero() || got.PromotionCode != "" {
		t.Fatalf("skipped promotion must contribute nothing: %+v", got)
	}
	if !got.TotalAfterPromotion.Equal(got.LineTotal) {
		t.Fatalf("total moved despite skip: %s vs %s", got.TotalAfterPromotion, got.LineTotal)
	}
}

func TestCalculateNonStackingPromotionAppliesWithoutTierDiscount(t *testing.T) {
	t.Parallel()

	// unknown tier gets a zero tier discount, so the non-stacking promotion
	// is allowed through
	fx := newFixture(t, "100.00", enums.CustomerTier("unrated"), nil, validPromo(enums.PromotionDiscountFixedAmount, "10", "", false))

	got, err := fx.svc.Calculate(context.Background(), CalculateInput{
		ProductID:     fx.productID,
		CustomerID:    fx.customerID,
		Quantity:      1,
		PromotionCode: "SUMMER10",
		PriceType:     enums.PriceTypeStandard,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !got.TierDiscountAmount.IsZero() {
		t.Fatalf("expected zero tier discount, got %s", got.TierDiscountAmount)
	}
	if got.PromotionSkipReason != "" || !got.PromotionDiscountAmount.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("promotion should have applied: %+v", got)
	}
	if !got.TotalAfterPromotion.Equal(decimal.RequireFromString("90.00")) {
		t.Fatalf("total %s, want 90.00", got.TotalAfterPromotion)
	}
}

func TestCalculateInvalidPromotionSoftFails(t *testing.T) {
	t.Parallel()

	kind := enums.PromotionErrorExpired
	fx := newFixture(t, "50.00", enums.CustomerTierBasic, nil, &promotions.ValidationResult{Valid: false, ErrorKind: &kind})

	got, err := fx.svc.Calculate(context.Background(), CalculateInput{
		ProductID:     fx.productID,
		CustomerID:    fx.customerID,
		Quantity:      2,
		PromotionCode: "EXPIRED",
		PriceType:     enums.PriceTypeStandard,
	})
	if err != nil {
		t.Fatalf("invalid promotion must not abort the calculation: %v", err)
	}
	if got.PromotionError == nil || *got.PromotionError != enums.PromotionErrorExpired {
		t.Fatalf("expected expired kind, got %v", got.PromotionError)
	}
	// basic tier 5% off 50.00 → 47.50 each
	if !got.TotalAfterPromotion.Equal(decimal.RequireFromString("95.00")) {
		t.Fatalf("total %s, want 95.00", got.TotalAfterPromotion)
	}
}

func TestCalculateClampsAtZero(t *testing.T) {
	t.Parallel()

	rule := &models.PriceRule{
		ID:            uuid.New(),
		Scope:         enums.RuleScopeGlobal,
		DiscountKind:  enums.RuleDiscountFixedAmount,
		DiscountValue: decimal.RequireFromString("500"),
		Active:        true,
	}
	fx := newFixture(t, "10.00", enums.CustomerTierBasic, rule, nil)

	got, err := fx.svc.Calculate(context.Background(), CalculateInput{
		ProductID:  fx.productID,
		CustomerID: fx.customerID,
		Quantity:   4,
		PriceType:  enums.PriceTypeStandard,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !got.FinalUnitPrice.IsZero() || !got.LineTotal.IsZero() {
		t.Fatalf("price must clamp at zero: unit %s line %s", got.FinalUnitPrice, got.LineTotal)
	}
	if got.FinalUnitPrice.Sign() < 0 {
		t.Fatal("final unit price went negative")
	}
}

func TestCalculateRejectsBadQuantity(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, "10.00", enums.CustomerTierBasic, nil, nil)
	_, err := fx.svc.Calculate(context.Background(), CalculateInput{
		ProductID:  fx.productID,
		CustomerID: fx.customerID,
		Quantity:   0,
		PriceType:  enums.PriceTypeStandard,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCalculateBatchPricesLinesIndependently(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, "20.00", enums.CustomerTierStandard, nil, nil)
	breakdowns, err := fx.svc.CalculateBatch(context.Background(), fx.customerID, "", []BatchLine{
		{ProductID: fx.productID, Quantity: 1, PriceType: enums.PriceTypeStandard},
		{ProductID: fx.productID, Quantity: 5, PriceType: enums.PriceTypeStandard},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(breakdowns) != 2 {
		t.Fatalf("got %d breakdowns", len(breakdowns))
	}
	// standard tier: 10% off 20.00 → 18.00
	if !breakdowns[0].TotalAfterPromotion.Equal(decimal.RequireFromString("18.00")) {
		t.Fatalf("line 1 total %s", breakdowns[0].TotalAfterPromotion)
	}
	if !breakdowns[1].TotalAfterPromotion.Equal(decimal.RequireFromString("90.00")) {
		t.Fatalf("line 2 total %s", breakdowns[1].TotalAfterPromotion)
	}

	if _, err := fx.svc.CalculateBatch(context.Background(), fx.customerID, "", nil); err == nil {
		t.Fatal("empty batch must be rejected")
	}
}
