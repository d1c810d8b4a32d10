package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"tradeguard/internal/domain"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResources(server *mcp.Server, dash DashboardReader) {
	server.AddResource(&mcp.Resource{
		URI:         "dashboard://assets",
		Name:        "tracked-assets",
		Description: "Assets the analyzer emits signals for",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, domain.TrackedAssets)
	})

	server.AddResource(&mcp.Resource{
		URI:         "dashboard://state",
		Name:        "dashboard-state",
		Description: "Current dashboard state",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if dash == nil {
			return nil, fmt.Errorf("dashboard unavailable")
		}
		return jsonResource(req.Params.URI, dashboardOutput{State: dash.State()})
	})

	server.AddResource(&mcp.Resource{
		URI:         "dashboard://sources",
		Name:        "market-sources",
		Description: "Grounding sources cited by the last market data fetch",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if dash == nil {
			return nil, fmt.Errorf("dashboard unavailable")
		}
		return jsonResource(req.Params.URI, sourcesOutput{Sources: dash.State().Snapshot.Sources})
	})

	server.AddResource(&mcp.Resource{
		URI:         "dashboard://intervention",
		Name:        "intervention",
		Description: "BCB intervention analysis for the current snapshot",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if dash == nil {
			return nil, fmt.Errorf("dashboard unavailable")
		}
		return jsonResource(req.Params.URI, interventionOutput(dash))
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "signals://{asset}",
		Name:        "signal-by-asset",
		Description: "Current trading signals for one asset",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if dash == nil {
			return nil, fmt.Errorf("dashboard unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil || parsed.Scheme != "signals" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		asset, err := normalizeAsset(strings.Trim(parsed.Host+parsed.Path, "/"))
		if err != nil {
			return nil, err
		}
		signals := filterSignals(dash.State().Signals, signalFilter{Asset: asset})
		return jsonResource(req.Params.URI, signalsListOutput{Signals: signals})
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
