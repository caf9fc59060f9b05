package rules

import (
	"github.com/pharmadist/pricing-engine/internal/catalog"
	"github.com/pharmadist/pricing-engine/internal/customers"
	"github.com/pharmadist/pricing-engine/pkg/db/models"
	"github.com/pharmadist/pricing-engine/pkg/enums"
)

// MatchContext is the fact set one rule is evaluated against. Building it once
// per calculation keeps the per-rule predicate free of lookups.
type MatchContext struct {
	Product  *catalog.ProductInfo
	Customer *customers.CustomerInfo
	Quantity int
}

// Matches reports whether the rule applies to the given context. Every set
// constraint must hold; unset constraints impose no restriction.
func Matches(rule models.PriceRule, mc MatchContext) bool {
	return matchesScope(rule, mc.Product) &&
		matchesTargeting(rule, mc.Customer) &&
		matchesQuantity(rule, mc.Quantity)
}

func matchesScope(rule models.PriceRule, product *catalog.ProductInfo) bool {
	switch rule.Scope {
	case enums.RuleScopeGlobal:
		return true
	case enums.RuleScopeProduct:
		return rule.ScopeID != nil && *rule.ScopeID == product.ID
	case enums.RuleScopeCategory:
		return rule.ScopeID != nil && *rule.ScopeID == product.CategoryID
	case enums.RuleScopeManufacturer:
		return rule.ScopeID != nil && *rule.ScopeID == product.ManufacturerID
	default:
		return false
	}
}

func matchesTargeting(rule models.PriceRule, customer *customers.CustomerInfo) bool {
	if rule.CustomerID != nil && *rule.CustomerID != customer.ID {
		return false
	}
	if rule.RequiredTier != nil && *rule.RequiredTier != customer.Tier {
		return false
	}
	if rule.RequiredType != nil && *rule.RequiredType != customer.Type {
		return false
	}
	return true
}

func matchesQuantity(rule models.PriceRule, quantity int) bool {
	if rule.MinQuantity != nil && quantity < *rule.MinQuantity {
		return false
	}
	if rule.MaxQuantity != nil && quantity > *rule.MaxQuantity {
		return false
	}
	return true
}
