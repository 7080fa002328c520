package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/abdidvp/docqms/internal/application"
)

// Services are the application services exposed over MCP.
type Services struct {
	Snapshots   *application.SnapshotService
	Remediation *application.RemediationService
	Logger      *zap.Logger
}

// NewDocQMSMCPServer creates a new MCP server with all docqms tools and
// resources registered.
func NewDocQMSMCPServer(version string, svc Services) *server.MCPServer {
	if svc.Logger == nil {
		svc.Logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"docqms",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc)
	registerResources(s, svc)

	return s
}
