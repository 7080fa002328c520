package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/abdidvp/docqms/internal/adapters/inbound/cli"
	"github.com/abdidvp/docqms/internal/domain"
)

var (
	guide = domain.Violation{
		File: "guide.md", Path: "/docs/guide.md",
		RuleID: domain.RuleMissingRequiredField, Severity: "high", Message: "missing field: owner",
	}
	release = domain.Violation{
		File: "release.md", Path: "/docs/release.md",
		RuleID: domain.RuleInvalidStatus, Severity: "medium", Message: "status 'wip' is not allowed",
	}
	brokenLink = domain.Violation{
		File: "index.md", Path: "/docs/index.md",
		RuleID: "broken_link", Severity: "low", Message: "link to missing.md is broken",
	}
)

func payload(rate float64, vs ...domain.Violation) domain.ValidationPayload {
	return domain.ValidationPayload{ComplianceRate: rate, Violations: vs, TotalFiles: 12, ValidFiles: 12 - len(vs)}
}

// runCLI executes the root command in a fresh project directory scoped to
// the test and returns combined output.
func runCLI(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DOCQMS_SERVER_URL", "")
	t.Setenv("DOCQMS_TOKEN", "")

	root := cli.NewRootCmdForTest()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--path", dir))
	err := root.Execute()
	return out.String(), err
}
