package domain

// Rule identifiers the backend knows how to remediate.
const (
	RuleMissingRequiredField = "missing_required_field"
	RuleInvalidStatus        = "invalid_status"
)

// DefaultFixableRules is the built-in allow-list.
var DefaultFixableRules = []string{RuleMissingRequiredField, RuleInvalidStatus}

// FixabilityPolicy is a static allow-list of rule IDs eligible for preview and apply.
type FixabilityPolicy struct {
	rules map[string]bool
}

// NewFixabilityPolicy builds a policy from rule IDs. An empty list yields the default allow-list.
func NewFixabilityPolicy(ruleIDs ...string) FixabilityPolicy {
	if len(ruleIDs) == 0 {
		ruleIDs = DefaultFixableRules
	}
	rules := make(map[string]bool, len(ruleIDs))
	for _, r := range ruleIDs {
		rules[r] = true
	}
	return FixabilityPolicy{rules: rules}
}

// DefaultFixabilityPolicy returns the policy for DefaultFixableRules.
func DefaultFixabilityPolicy() FixabilityPolicy {
	return NewFixabilityPolicy()
}

func (p FixabilityPolicy) IsFixable(ruleID string) bool {
	if p.rules == nil {
		return DefaultFixabilityPolicy().rules[ruleID]
	}
	return p.rules[ruleID]
}
