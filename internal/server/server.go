// Package server exposes the automation operations as MCP tools over
// stdio. Handlers resolve the session fresh on every call, delegate to
// the gui façade, and convert the domain error taxonomy into tool error
// responses at the boundary.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/saptools/sapmcp/internal/gui"
	"github.com/saptools/sapmcp/internal/session"
	"github.com/saptools/sapmcp/internal/telemetry"
)

// Name identifies the server to MCP clients.
const Name = "sapmcp"

// Options carries the server's collaborators.
type Options struct {
	Version    string
	Sessions   *session.Accessor
	Ops        *gui.Facade
	LaunchWait time.Duration
	Log        *slog.Logger
	Metrics    *telemetry.Metrics
	Tracer     trace.Tracer
}

// Server is the MCP tool surface.
type Server struct {
	mcp        *mcpserver.MCPServer
	sessions   *session.Accessor
	ops        *gui.Facade
	launchWait time.Duration
	log        *slog.Logger
	metrics    *telemetry.Metrics
	tracer     trace.Tracer
}

// New builds the server and registers every tool.
func New(o Options) *Server {
	if o.Metrics == nil {
		o.Metrics = telemetry.NewMetrics()
	}
	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer(Name)
	}

	s := &Server{
		mcp: mcpserver.NewMCPServer(
			Name,
			o.Version,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithLogging(),
			mcpserver.WithRecovery(),
		),
		sessions:   o.Sessions,
		ops:        o.Ops,
		launchWait: o.LaunchWait,
		log:        o.Log,
		metrics:    o.Metrics,
		tracer:     o.Tracer,
	}

	s.registerSessionTools()
	s.registerElementTools()
	s.registerGridTools()
	return s
}

// Run serves on stdio until the client disconnects.
func (s *Server) Run() error {
	s.log.Info("serving on stdio", "name", Name)
	return mcpserver.ServeStdio(s.mcp)
}

// addTool registers a tool with instrumentation wrapped around its
// handler.
func (s *Server) addTool(tool mcp.Tool, h mcpserver.ToolHandlerFunc) {
	s.mcp.AddTool(tool, s.instrument(tool.Name, h))
}

// instrument wraps a handler with a span, metrics, and the error
// boundary: handlers return domain errors, clients get tool error
// responses.
func (s *Server) instrument(name string, h mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := s.tracer.Start(ctx, "tool/"+name)
		defer span.End()

		start := time.Now()
		res, err := h(ctx, req)
		if err != nil {
			kind := errKind(err)
			s.metrics.ObserveCall(name, time.Since(start), kind)
			span.RecordError(err)
			s.log.Error("tool failed", "tool", name, "kind", kind, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.metrics.ObserveCall(name, time.Since(start), "")
		s.log.Debug("tool completed", "tool", name, "elapsed", time.Since(start))
		return res, nil
	}
}

// errKind maps a domain error to its metrics label.
func errKind(err error) string {
	switch {
	case errors.Is(err, session.ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, session.ErrLauncherNotFound), errors.Is(err, session.ErrLaunchTimeout):
		return "launcher"
	case errors.Is(err, session.ErrLogin):
		return "login"
	case errors.Is(err, session.ErrNoSession):
		return "no_session"
	case errors.Is(err, gui.ErrTransaction):
		return "transaction"
	case errors.Is(err, gui.ErrElementNotFound):
		return "element_not_found"
	case errors.Is(err, gui.ErrUnsupportedOperation):
		return "unsupported_operation"
	case errors.Is(err, gui.ErrInvalidCell):
		return "invalid_cell"
	case errors.Is(err, gui.ErrCapture):
		return "capture"
	case errors.Is(err, gui.ErrExport):
		return "export"
	case errors.Is(err, gui.ErrAutomation):
		return "automation"
	default:
		return "internal"
	}
}

// jsonResult marshals a payload as the tool's text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// textResult wraps a plain confirmation message.
func textResult(format string, args ...any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(fmt.Sprintf(format, args...)), nil
}

// readOnlyTool declares a tool that only observes GUI state.
func readOnlyTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	base := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			ReadOnlyHint:    mcp.ToBoolPtr(true),
			DestructiveHint: mcp.ToBoolPtr(false),
			IdempotentHint:  mcp.ToBoolPtr(true),
			OpenWorldHint:   mcp.ToBoolPtr(false),
		}),
	}
	return mcp.NewTool(name, append(base, opts...)...)
}

// mutatingTool declares a tool that changes GUI or application state.
func mutatingTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	base := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			ReadOnlyHint:    mcp.ToBoolPtr(false),
			DestructiveHint: mcp.ToBoolPtr(true),
			OpenWorldHint:   mcp.ToBoolPtr(false),
		}),
	}
	return mcp.NewTool(name, append(base, opts...)...)
}
