package mcpserver

import (
	"context"
	"io"
	"log/slog"

	"github.com/artifactsplus/artifactsplus/internal/artifact"
	"github.com/artifactsplus/artifactsplus/internal/branding"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = ""

// ReportedVersion is the version the server announces to hosts: Version when
// set at build time, otherwise the branded default.
func ReportedVersion() string {
	if Version != "" {
		return Version
	}
	return branding.ServerVersion()
}

// New creates the MCP server with every artifact tool registered.
func New(m *artifact.Manager, logger *slog.Logger) *server.MCPServer {
	return NewFrom(func() (*artifact.Manager, error) { return m, nil }, logger)
}

// NewFrom is New with the Manager resolved on each tool call.
func NewFrom(manager ManagerFunc, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := server.NewMCPServer(
		branding.ServerName(),
		ReportedVersion(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	for _, t := range ToolsFrom(manager, logger) {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}

// Serve runs s on in/out until in closes or ctx is done.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, logger *slog.Logger) error {
	stdio := server.NewStdioServer(s)
	if logger != nil {
		stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))
	}
	return stdio.Listen(ctx, in, out)
}

const instructions = `Manage local React artifact projects.
Create a project with create-new-react-artifact-folder, then write the whole
App.tsx with write-artifact-tsx instead of returning an inline artifact.
Every write keeps the previous App.tsx under src/old_App.`
