package domain_test

import (
	"testing"

	"github.com/abdidvp/docqms/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestKey_SameFileAndRuleIgnoresOtherFields(t *testing.T) {
	a := domain.Violation{File: "a.md", RuleID: "invalid_status", Severity: "high", Message: "one", Path: "/docs/a.md"}
	b := domain.Violation{File: "a.md", RuleID: "invalid_status", Severity: "low", Message: "two"}
	assert.Equal(t, domain.Key(a), domain.Key(b))
}

func TestKey_DifferentRuleDiffers(t *testing.T) {
	a := domain.Violation{File: "a.md", RuleID: "invalid_status"}
	b := domain.Violation{File: "a.md", RuleID: "missing_required_field"}
	assert.NotEqual(t, domain.Key(a), domain.Key(b))
}

func TestKey_NoConcatenationCollision(t *testing.T) {
	a := domain.Violation{File: "a", RuleID: "bc"}
	b := domain.Violation{File: "ab", RuleID: "c"}
	assert.NotEqual(t, domain.Key(a), domain.Key(b))
}

func TestKey_TotalForEmptyFields(t *testing.T) {
	assert.NotPanics(t, func() { domain.Key(domain.Violation{}) })
	assert.Equal(t, domain.Key(domain.Violation{}), domain.Key(domain.Violation{Path: ""}))
}

func TestRowKey_DisambiguatesDuplicates(t *testing.T) {
	v := domain.Violation{File: "a.md", RuleID: "invalid_status"}
	assert.NotEqual(t, domain.RowKey(v, 0), domain.RowKey(v, 1))
	assert.NotEqual(t, domain.Key(v), domain.RowKey(v, 0))
}

func TestDisplayKey(t *testing.T) {
	v := domain.Violation{File: "docs/a.md", RuleID: "invalid_status"}
	assert.Equal(t, "docs/a.md:invalid_status", domain.DisplayKey(domain.Key(v)))
	assert.Equal(t, "plain", domain.DisplayKey("plain"))
}
