package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/artifactsplus/artifactsplus/internal/artifact"
	"github.com/artifactsplus/artifactsplus/internal/errs"
	"github.com/artifactsplus/artifactsplus/internal/validate"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names.
const (
	WriteTool      = "write-artifact-tsx"
	CreateTool     = "create-new-react-artifact-folder"
	ComponentsTool = "install-ui-components"
	BackupsTool    = "list-artifact-backups"
)

// Tool is one registered MCP tool.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// ManagerFunc supplies the Manager a tool call runs against. Its error is
// returned as the call's result, so the server keeps running while the
// configuration is incomplete.
type ManagerFunc func() (*artifact.Manager, error)

// Tools returns every artifact tool bound to m.
func Tools(m *artifact.Manager, logger *slog.Logger) []Tool {
	return ToolsFrom(func() (*artifact.Manager, error) { return m, nil }, logger)
}

// ToolsFrom returns every artifact tool, resolving the Manager on each call.
func ToolsFrom(manager ManagerFunc, logger *slog.Logger) []Tool {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return []Tool{
		&tool{name: WriteTool, desc: "Write content to the App.tsx file of an artifact project. The previous App.tsx is kept as a timestamped backup.", run: writeArtifact, manager: manager, logger: logger},
		&tool{name: CreateTool, desc: "Create a new artifact folder with an appropriate name and scaffold a React project in it. After creating the folder, write React artifacts using write-artifact-tsx rather than returning them inline.", run: createFolder, manager: manager, logger: logger},
		&tool{name: ComponentsTool, desc: "Install the shadcn/ui components imported by the project's App.tsx.", run: installComponents, manager: manager, logger: logger},
		&tool{name: BackupsTool, desc: "List the previous versions of a project's App.tsx, oldest first.", run: listBackups, manager: manager, logger: logger},
	}
}

type runFunc func(ctx context.Context, m *artifact.Manager, args map[string]any) (string, error)

type tool struct {
	name    string
	desc    string
	run     runFunc
	manager ManagerFunc
	logger  *slog.Logger
}

func (t *tool) Definition() mcp.Tool {
	schema, err := validate.Schema(t.name)
	if err != nil {
		schema = json.RawMessage(`{"type":"object"}`)
	}
	return mcp.NewToolWithRawSchema(t.name, t.desc, schema)
}

func (t *tool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	callID := uuid.NewString()
	log := t.logger.With("tool", t.name, "call_id", callID)
	log.Info("tool call")

	args := req.GetArguments()
	res, err := validate.Validate(t.name, args)
	if err != nil {
		log.Error("validation unavailable", "error", err)
		return errorResult(err), nil
	}
	if err := res.Err(t.name); err != nil {
		log.Warn("invalid arguments", "error", err)
		return errorResult(err), nil
	}

	m, err := t.manager()
	if err != nil {
		log.Error("no manager for tool call", "error", err)
		return errorResult(err), nil
	}

	text, err := t.run(ctx, m, args)
	if errors.Is(err, errs.ErrAlreadyExists) {
		log.Info("tool call finished", "outcome", "already exists")
		return mcp.NewToolResultText(text), nil
	}
	if err != nil {
		log.Error("tool call failed", "kind", errs.KindOf(err).String(), "error", err)
		return errorResult(err), nil
	}
	log.Info("tool call finished")
	return mcp.NewToolResultText(text), nil
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + err.Error())
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func writeArtifact(ctx context.Context, m *artifact.Manager, args map[string]any) (string, error) {
	w, err := m.Write(ctx, stringArg(args, "project_name"), stringArg(args, "content"))
	if err != nil {
		return "", err
	}
	return "Successfully wrote content to " + w.File, nil
}

func createFolder(ctx context.Context, m *artifact.Manager, args map[string]any) (string, error) {
	name := stringArg(args, "project_name")
	c, err := m.Create(ctx, name)
	if errors.Is(err, errs.ErrAlreadyExists) {
		return fmt.Sprintf("A project with name %s already exists. Choose a different name.", name), err
	}
	if err != nil {
		return "", err
	}
	return "Created new artifact folder: " + c.Path, nil
}

func installComponents(ctx context.Context, m *artifact.Manager, args map[string]any) (string, error) {
	res, err := m.InstallComponents(ctx, stringArg(args, "project_name"))
	if err != nil {
		return "", err
	}
	if len(res.Components) == 0 {
		return "App.tsx imports no ui components; nothing to install.", nil
	}
	return "Installed ui components: " + strings.Join(res.Components, ", "), nil
}

func listBackups(_ context.Context, m *artifact.Manager, args map[string]any) (string, error) {
	name := stringArg(args, "project_name")
	backups, err := m.Backups(name)
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return fmt.Sprintf("Project %s has no backups.", name), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d backup(s) of App.tsx in %s, oldest first:\n", len(backups), name)
	for _, bk := range backups {
		fmt.Fprintf(&b, "- %s (%d bytes)\n", bk.Name, bk.Size)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
