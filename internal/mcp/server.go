package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultRequestTimeout = 5 * time.Second

type ServerConfig struct {
	// RequestTimeout bounds every request. dashboard_refresh runs a full
	// inference cycle, so this should sit above the inference timeout.
	RequestTimeout time.Duration
}

func NewServer(tracer trace.Tracer, dash Dashboard, cfg ServerConfig) *sdkmcp.Server {
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	srv := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "tradeguard-mcp",
		Version: "1.0.0",
	}, &sdkmcp.ServerOptions{
		Instructions: "Inspect the TradeGuard dashboard: macro snapshot for Brazilian futures, INDEX/DOLLAR signals and BCB intervention analysis.",
		Logger:       slog.Default(),
	})

	srv.AddReceivingMiddleware(timeoutMiddleware(requestTimeout))
	if tracer != nil {
		srv.AddReceivingMiddleware(tracingMiddleware(tracer))
	}

	registerTools(srv, dash)
	registerResources(srv, dash)
	return srv
}

func NewHTTPTransportHandler(server *sdkmcp.Server, cfg HTTPHandlerConfig) http.Handler {
	base := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, &sdkmcp.StreamableHTTPOptions{})
	return wrapHTTPHandler(base, cfg)
}

func timeoutMiddleware(timeout time.Duration) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(timeoutCtx, method, req)
		}
	}
}

func tracingMiddleware(tracer trace.Tracer) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx, span := tracer.Start(ctx, spanName(method, req))
			defer span.End()
			span.SetAttributes(attribute.String("mcp.method", method))

			switch r := req.(type) {
			case *sdkmcp.CallToolRequest:
				span.SetAttributes(attribute.String("mcp.tool", strings.TrimSpace(r.Params.Name)))
			case *sdkmcp.ReadResourceRequest:
				span.SetAttributes(attribute.String("mcp.resource.uri", strings.TrimSpace(r.Params.URI)))
			}

			result, err := next(ctx, method, req)
			if err != nil {
				span.RecordError(err)
			}
			return result, err
		}
	}
}

func spanName(method string, req sdkmcp.Request) string {
	if callReq, ok := req.(*sdkmcp.CallToolRequest); ok && method == "tools/call" {
		if name := strings.TrimSpace(callReq.Params.Name); name != "" {
			return "mcp.tool." + name
		}
		return "mcp.tool.call"
	}
	return "mcp." + strings.ReplaceAll(method, "/", ".")
}
