package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	snapshotURI = "docqms://snapshot"
	statesURI   = "docqms://remediation"
)

// registerResources registers all docqms MCP resources on the given server.
func registerResources(s *server.MCPServer, svc Services) {
	// 1. docqms://snapshot - last fetched compliance snapshot
	s.AddResource(
		mcplib.NewResource(
			snapshotURI,
			"Compliance Snapshot",
			mcplib.WithResourceDescription("Last fetched compliance snapshot. Fetched on first read."),
			mcplib.WithMIMEType("application/json"),
		),
		handleSnapshotResource(svc),
	)

	// 2. docqms://remediation - per-violation remediation states
	s.AddResource(
		mcplib.NewResource(
			statesURI,
			"Remediation States",
			mcplib.WithResourceDescription("Violations with a preview or fix in progress, ready or failed"),
			mcplib.WithMIMEType("application/json"),
		),
		handleStatesResource(svc),
	)
}

func handleSnapshotResource(svc Services) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		snap := svc.Snapshots.Current()
		if snap == nil {
			var err error
			if snap, err = svc.Snapshots.Refresh(ctx); err != nil {
				return nil, fmt.Errorf("fetching snapshot: %w", err)
			}
		}
		return jsonContents(snapshotURI, viewOf(snap, svc.Remediation.Policy()))
	}
}

func handleStatesResource(svc Services) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		states := svc.Remediation.States()
		out := make([]stateView, 0, len(states))
		for k, st := range states {
			out = append(out, stateOf(k, st))
		}
		sortStates(out)
		return jsonContents(statesURI, out)
	}
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
