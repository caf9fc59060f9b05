package enums

import "fmt"

// RuleDiscountKind maps to the rule_discount_kind_enum enum in Postgres.
type RuleDiscountKind string

const (
	RuleDiscountPercentage  RuleDiscountKind = "percentage"
	RuleDiscountFixedAmount RuleDiscountKind = "fixed_amount"
	RuleDiscountFixedPrice  RuleDiscountKind = "fixed_price"
)

var validRuleDiscountKinds = []RuleDiscountKind{
	RuleDiscountPercentage,
	RuleDiscountFixedAmount,
	RuleDiscountFixedPrice,
}

// IsValid reports whether the value matches the canonical rule discount kind enum.
func (k RuleDiscountKind) IsValid() bool {
	for _, candidate := range validRuleDiscountKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// String returns the raw enum value.
func (k RuleDiscountKind) String() string {
	return string(k)
}

// ParseRuleDiscountKind converts raw input into RuleDiscountKind.
func ParseRuleDiscountKind(value string) (RuleDiscountKind, error) {
	for _, candidate := range validRuleDiscountKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule discount kind %q", value)
}
