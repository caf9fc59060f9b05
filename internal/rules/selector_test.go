package rules

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pharmadist/pricing-engine/internal/catalog"
	"github.com/pharmadist/pricing-engine/internal/customers"
	"github.com/pharmadist/pricing-engine/pkg/db/models"
	"github.com/pharmadist/pricing-engine/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:rules_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.PriceRule{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testProduct() *catalog.ProductInfo {
	return &catalog.ProductInfo{
		ID:             uuid.New(),
		SKU:            "SKU-001",
		Name:           "Amoxicillin 500mg",
		BasePrice:      decimal.RequireFromString("100.00"),
		CategoryID:     uuid.New(),
		ManufacturerID: uuid.New(),
	}
}

func testCustomer(tier enums.CustomerTier, ctype enums.CustomerType) *customers.CustomerInfo {
	return &customers.CustomerInfo{
		ID:   uuid.New(),
		Name: "Mercy General",
		Tier: tier,
		Type: ctype,
	}
}

func mustCreateRule(t *testing.T, db *gorm.DB, rule *models.PriceRule) *models.PriceRule {
	t.Helper()
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	if rule.Name == "" {
		rule.Name = "rule " + rule.ID.String()[:8]
	}
	if rule.DiscountKind == "" {
		rule.DiscountKind = enums.RuleDiscountPercentage
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("create rule: %v", err)
	}
	return rule
}

func newSelectorForTest(t *testing.T, db *gorm.DB) Selector {
	t.Helper()
	sel, err := NewSelector(NewRepository(db))
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	return sel
}

func TestSelectBestRuleNoMatches(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	product := testProduct()
	otherProduct := uuid.New()

	mustCreateRule(t, db, &models.PriceRule{
		Scope:         enums.RuleScopeProduct,
		ScopeID:       &otherProduct,
		DiscountValue: decimal.RequireFromString("5"),
		Active:        true,
	})

	sel := newSelectorForTest(t, db)
	got, err := sel.SelectBestRule(context.Background(), product, testCustomer(enums.CustomerTierBasic, enums.CustomerTypePharmacy), 1, time.Now())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no rule, got %s", got.ID)
	}
}

func TestSelectBestRuleScopeMatching(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	product := testProduct()
	customer := testCustomer(enums.CustomerTierStandard, enums.CustomerTypeHospital)
	sel := newSelectorForTest(t, db)

	tests := []struct {
		name    string
		scope   enums.RuleScope
		scopeID *uuid.UUID
	}{
		{"global", enums.RuleScopeGlobal, nil},
		{"product", enums.RuleScopeProduct, &product.ID},
		{"category", enums.RuleScopeCategory, &product.CategoryID},
		{"manufacturer", enums.RuleScopeManufacturer, &product.ManufacturerID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule := mustCreateRule(t, db, &models.PriceRule{
				Scope:         tc.scope,
				ScopeID:       tc.scopeID,
				DiscountValue: decimal.RequireFromString("5"),
				Priority:      10,
				Active:        true,
			})
			defer db.Delete(rule)

			got, err := sel.SelectBestRule(context.Background(), product, customer, 1, time.Now())
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			if got == nil || got.ID != rule.ID {
				t.Fatalf("scope %s did not match", tc.scope)
			}
		})
	}
}

func TestSelectBestRuleTargetingAndQuantity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	product := testProduct()
	customer := testCustomer(enums.CustomerTierBasic, enums.CustomerTypePharmacy)
	otherCustomer := uuid.New()
	premium := enums.CustomerTierPremium
	pharmacy := enums.CustomerTypePharmacy
	minTen := 10
	maxFive := 5

	// none of these should match a basic pharmacy buying quantity 3
	mustCreateRule(t, db, &models.PriceRule{
		Scope: enums.RuleScopeGlobal, CustomerID: &otherCustomer,
		DiscountValue: decimal.RequireFromString("5"), Active: true,
	})
	mustCreateRule(t, db, &models.PriceRule{
		Scope: enums.RuleScopeGlobal, RequiredTier: &premium,
		DiscountValue: decimal.RequireFromString("5"), Active: true,
	})
	mustCreateRule(t, db, &models.PriceRule{
		Scope: enums.RuleScopeGlobal, MinQuantity: &minTen,
		DiscountValue: decimal.RequireFromString("5"), Active: true,
	})
	// matches: right type, quantity within bounds
	winner := mustCreateRule(t, db, &models.PriceRule{
		Scope: enums.RuleScopeGlobal, RequiredType: &pharmacy, MaxQuantity: &maxFive,
		DiscountValue: decimal.RequireFromString("7"), Active: true,
	})

	sel := newSelectorForTest(t, db)
	got, err := sel.SelectBestRule(context.Background(), product, customer, 3, time.Now())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got == nil || got.ID != winner.ID {
		t.Fatalf("expected targeted rule to win, got %+v", got)
	}
}

func TestSelectBestRulePriorityTieBreaksByIDAscending(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	product := testProduct()
	customer := testCustomer(enums.CustomerTierStandard, enums.CustomerTypeClinic)

	// fixed ids so the expected winner is deterministic regardless of
	// generation or insertion order
	lowID := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	highID := uuid.MustParse("99999999-9999-4999-8999-999999999999")

	mustCreateRule(t, db, &models.PriceRule{
		ID: highID, Scope: enums.RuleScopeGlobal,
		DiscountValue: decimal.RequireFromString("5"), Priority: 10, Active: true,
	})
	mustCreateRule(t, db, &models.PriceRule{
		ID: lowID, Scope: enums.RuleScopeGlobal,
		DiscountValue: decimal.RequireFromString("8"), Priority: 10, Active: true,
	})

	sel := newSelectorForTest(t, db)
	got, err := sel.SelectBestRule(context.Background(), product, customer, 1, time.Now())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got == nil || got.ID != lowID {
		t.Fatalf("expected lowest rule id to win the tie, got %+v", got)
	}
}

func TestSelectBestRuleHigherPriorityWins(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	product := testProduct()
	customer := testCustomer(enums.CustomerTierStandard, enums.CustomerTypeClinic)

	mustCreateRule(t, db, &models.PriceRule{
		Scope:         enums.RuleScopeGlobal,
		DiscountValue: decimal.RequireFromString("5"),
		Priority:      1,
		Active:        true,
	})
	winner := mustCreateRule(t, db, &models.PriceRule{
		Scope:         enums.RuleScopeProduct,
		ScopeID:       &product.ID,
		DiscountValue: decimal.RequireFromString("3"),
		Priority:      20,
		Active:        true,
	})

	sel := newSelectorForTest(t, db)
	got, err := sel.SelectBestRule(context.Background(), product, customer, 1, time.Now())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got == nil || got.ID != winner.ID {
		t.Fatalf("expected priority 20 rule, got %+v", got)
	}
}

func TestSelectBestRuleValidityWindow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	product := testProduct()
	customer := testCustomer(enums.CustomerTierStandard, enums.CustomerTypeClinic)
	now := time.Now()
	tomorrow := now.Add(24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	mustCreateRule(t, db, &models.PriceRule{
		Scope: enums.RuleScopeGlobal, ValidFrom: &tomorrow,
		DiscountValue: decimal.RequireFromString("5"), Active: true,
	})
	mustCreateRule(t, db, &models.PriceRule{
		Scope: enums.RuleScopeGlobal, ValidFrom: &lastWeek, ValidTo: &yesterday,
		DiscountValue: decimal.RequireFromString("5"), Active: true,
	})
	mustCreateRule(t, db, &models.PriceRule{
		Scope:         enums.RuleScopeGlobal,
		DiscountValue: decimal.RequireFromString("5"), Active: false,
	})

	sel := newSelectorForTest(t, db)
	got, err := sel.SelectBestRule(context.Background(), product, customer, 1, now)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no valid rule, got %s", got.ID)
	}
}

func TestDiscountAmount(t *testing.T) {
	t.Parallel()

	price := decimal.RequireFromString("85.00")
	tests := []struct {
		name  string
		kind  enums.RuleDiscountKind
		value string
		want  string
	}{
		{"percentage", enums.RuleDiscountPercentage, "5", "4.25"},
		{"fixed amount", enums.RuleDiscountFixedAmount, "10", "10"},
		{"fixed amount capped at price", enums.RuleDiscountFixedAmount, "200", "85.00"},
		{"fixed price below current", enums.RuleDiscountFixedPrice, "60", "25.00"},
		{"fixed price above current", enums.RuleDiscountFixedPrice, "120", "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule := &models.PriceRule{
				DiscountKind:  tc.kind,
				DiscountValue: decimal.RequireFromString(tc.value),
			}
			got := DiscountAmount(rule, price)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}

	if got := DiscountAmount(nil, price); !got.IsZero() {
		t.Fatalf("nil rule should discount zero, got %s", got)
	}
	rule := &models.PriceRule{DiscountKind: enums.RuleDiscountPercentage, DiscountValue: decimal.RequireFromString("10")}
	if got := DiscountAmount(rule, decimal.Zero); !got.IsZero() {
		t.Fatalf("zero price should discount zero, got %s", got)
	}
}
