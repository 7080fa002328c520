package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abdidvp/docqms/internal/adapters/inbound/cli"
)

func TestMCPCommandExists(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetArgs([]string{"mcp", "--help"})
	err := cmd.Execute()
	assert.NoError(t, err)
}

func TestMCPServeCommandExists(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetArgs([]string{"mcp", "serve", "--help"})
	err := cmd.Execute()
	assert.NoError(t, err)
}

func TestDashboardAndWatchCommandsExist(t *testing.T) {
	for _, name := range []string{"dashboard", "watch", "version"} {
		cmd := cli.NewRootCmdForTest()
		cmd.SetArgs([]string{name, "--help"})
		assert.NoError(t, cmd.Execute(), name)
	}
}
