package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abdidvp/docqms/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestReason_ServerDetail(t *testing.T) {
	err := fmt.Errorf("applying fix: %w", &domain.ServerError{Op: "fix", StatusCode: 409, Detail: "file locked"})
	assert.Equal(t, "file locked", domain.Reason(err))
}

func TestReason_Validation(t *testing.T) {
	err := &domain.ValidationError{Reason: domain.ReasonPathMissing}
	assert.Equal(t, "cannot fix: file path missing", domain.Reason(err))
	assert.True(t, domain.IsPathMissing(err))
	assert.False(t, domain.IsNotFixable(err))
}

func TestReason_NotFixable(t *testing.T) {
	err := &domain.ValidationError{RuleID: "schema_validation", Reason: domain.ReasonNotFixable}
	assert.Equal(t, "rule is not fixable: schema_validation", domain.Reason(err))
	assert.True(t, domain.IsNotFixable(err))
}

func TestReason_Nil(t *testing.T) {
	assert.Equal(t, "", domain.Reason(nil))
}

func TestNetworkError_Unwraps(t *testing.T) {
	inner := errors.New("connection refused")
	err := &domain.NetworkError{Op: "validate", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "network error")
}

func TestParseError_Unwraps(t *testing.T) {
	inner := errors.New("unexpected EOF")
	err := &domain.ParseError{Op: "validate", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "validate: malformed response: unexpected EOF", err.Error())
}

func TestReason_Rejected(t *testing.T) {
	err := fmt.Errorf("preview: %w", &domain.RejectedError{Message: "File not found"})
	assert.Equal(t, "File not found", domain.Reason(err))
}
