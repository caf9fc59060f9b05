package enums

import "fmt"

// CustomerType maps to the customer_type_enum enum in Postgres.
type CustomerType string

const (
	CustomerTypeHospital   CustomerType = "hospital"
	CustomerTypePharmacy   CustomerType = "pharmacy"
	CustomerTypeWholesaler CustomerType = "wholesaler"
	CustomerTypeClinic     CustomerType = "clinic"
)

var validCustomerTypes = []CustomerType{
	CustomerTypeHospital,
	CustomerTypePharmacy,
	CustomerTypeWholesaler,
	CustomerTypeClinic,
}

// IsValid reports whether the value matches the canonical customer type enum.
func (t CustomerType) IsValid() bool {
	for _, candidate := range validCustomerTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// String returns the raw enum value.
func (t CustomerType) String() string {
	return string(t)
}

// ParseCustomerType converts raw input into CustomerType.
func ParseCustomerType(value string) (CustomerType, error) {
	for _, candidate := range validCustomerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer type %q", value)
}
