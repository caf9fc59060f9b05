package enums

import "fmt"

// PromotionDiscountKind maps to the promotion_discount_kind_enum enum in Postgres.
type PromotionDiscountKind string

const (
	PromotionDiscountPercentage   PromotionDiscountKind = "percentage"
	PromotionDiscountFixedAmount  PromotionDiscountKind = "fixed_amount"
	PromotionDiscountFreeShipping PromotionDiscountKind = "free_shipping"
)

var validPromotionDiscountKinds = []PromotionDiscountKind{
	PromotionDiscountPercentage,
	PromotionDiscountFixedAmount,
	PromotionDiscountFreeShipping,
}

// IsValid reports whether the value matches the canonical promotion discount kind enum.
func (k PromotionDiscountKind) IsValid() bool {
	for _, candidate := range validPromotionDiscountKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// String returns the raw enum value.
func (k PromotionDiscountKind) String() string {
	return string(k)
}

// ParsePromotionDiscountKind converts raw input into PromotionDiscountKind.
func ParsePromotionDiscountKind(value string) (PromotionDiscountKind, error) {
	for _, candidate := range validPromotionDiscountKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion discount kind %q", value)
}
