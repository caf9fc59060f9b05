package enums

import "fmt"

// PriceType tags which pricing channel an override belongs to.
type PriceType string

const (
	PriceTypeStandard PriceType = "standard"
	PriceTypeContract PriceType = "contract"
	PriceTypeTender   PriceType = "tender"
)

var validPriceTypes = []PriceType{
	PriceTypeStandard,
	PriceTypeContract,
	PriceTypeTender,
}

// IsValid reports whether the value matches the canonical price type enum.
func (t PriceType) IsValid() bool {
	for _, candidate := range validPriceTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// String returns the raw enum value.
func (t PriceType) String() string {
	return string(t)
}

// ParsePriceType converts raw input into PriceType.
func ParsePriceType(value string) (PriceType, error) {
	for _, candidate := range validPriceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price type %q", value)
}
