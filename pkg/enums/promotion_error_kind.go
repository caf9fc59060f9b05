package enums

import "fmt"

// PromotionErrorKind identifies why a promotion code failed validation.
// Validation short-circuits, so a result carries at most one kind.
type PromotionErrorKind string

const (
	PromotionErrorCodeNotFound          PromotionErrorKind = "code_not_found"
	PromotionErrorInactive              PromotionErrorKind = "inactive"
	PromotionErrorNotYetStarted         PromotionErrorKind = "not_yet_started"
	PromotionErrorExpired               PromotionErrorKind = "expired"
	PromotionErrorUsageCapReached       PromotionErrorKind = "usage_cap_reached"
	PromotionErrorPerCustomerCapReached PromotionErrorKind = "per_customer_cap_reached"
	PromotionErrorMinimumOrderNotMet    PromotionErrorKind = "minimum_order_not_met"
	PromotionErrorCustomerNotEligible   PromotionErrorKind = "customer_not_eligible"
)

var validPromotionErrorKinds = []PromotionErrorKind{
	PromotionErrorCodeNotFound,
	PromotionErrorInactive,
	PromotionErrorNotYetStarted,
	PromotionErrorExpired,
	PromotionErrorUsageCapReached,
	PromotionErrorPerCustomerCapReached,
	PromotionErrorMinimumOrderNotMet,
	PromotionErrorCustomerNotEligible,
}

// IsValid reports whether the value matches a known promotion error kind.
func (k PromotionErrorKind) IsValid() bool {
	for _, candidate := range validPromotionErrorKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// String returns the raw enum value.
func (k PromotionErrorKind) String() string {
	return string(k)
}

// ParsePromotionErrorKind converts raw input into PromotionErrorKind.
func ParsePromotionErrorKind(value string) (PromotionErrorKind, error) {
	for _, candidate := range validPromotionErrorKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion error kind %q", value)
}
