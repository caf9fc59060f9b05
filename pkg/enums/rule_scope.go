package enums

import "fmt"

// RuleScope maps to the rule_scope_enum enum in Postgres.
type RuleScope string

const (
	RuleScopeGlobal       RuleScope = "global"
	RuleScopeProduct      RuleScope = "product"
	RuleScopeCategory     RuleScope = "category"
	RuleScopeManufacturer RuleScope = "manufacturer"
)

var validRuleScopes = []RuleScope{
	RuleScopeGlobal,
	RuleScopeProduct,
	RuleScopeCategory,
	RuleScopeManufacturer,
}

// IsValid reports whether the value matches the canonical rule scope enum.
func (s RuleScope) IsValid() bool {
	for _, candidate := range validRuleScopes {
		if candidate == s {
			return true
		}
	}
	return false
}

// String returns the raw enum value.
func (s RuleScope) String() string {
	return string(s)
}

// RequiresScopeID reports whether rules with this scope must carry a scope target id.
func (s RuleScope) RequiresScopeID() bool {
	return s != RuleScopeGlobal
}

// ParseRuleScope converts raw input into RuleScope.
func ParseRuleScope(value string) (RuleScope, error) {
	for _, candidate := range validRuleScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule scope %q", value)
}
