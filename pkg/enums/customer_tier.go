package enums

import "fmt"

// CustomerTier maps to the customer_tier_enum enum in Postgres.
type CustomerTier string

const (
	CustomerTierPremium  CustomerTier = "premium"
	CustomerTierStandard CustomerTier = "standard"
	CustomerTierBasic    CustomerTier = "basic"
)

var validCustomerTiers = []CustomerTier{
	CustomerTierPremium,
	CustomerTierStandard,
	CustomerTierBasic,
}

// IsValid reports whether the value matches the canonical customer tier enum.
func (t CustomerTier) IsValid() bool {
	for _, candidate := range validCustomerTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// String returns the raw enum value.
func (t CustomerTier) String() string {
	return string(t)
}

// ParseCustomerTier converts raw input into CustomerTier.
func ParseCustomerTier(value string) (CustomerTier, error) {
	for _, candidate := range validCustomerTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer tier %q", value)
}
