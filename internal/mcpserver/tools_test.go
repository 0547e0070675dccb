package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/artifactsplus/artifactsplus/internal/artifact"
	"github.com/artifactsplus/artifactsplus/internal/config"
	"github.com/artifactsplus/artifactsplus/internal/runtime/runtimetest"
	"github.com/artifactsplus/artifactsplus/internal/scaffold/scaffoldtest"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*artifact.Manager, string) {
	t.Helper()
	srv := scaffoldtest.Server(t, scaffoldtest.ReactTemplate(t))
	base := t.TempDir()
	m, err := artifact.New(config.Config{
		ProjectsPath:    base,
		TemplateURL:     srv.URL,
		TemplatePrefix:  scaffoldtest.ReactPrefix,
		InstallerPath:   "npm",
		NpxPath:         "npx",
		DownloadTimeout: 5 * time.Second,
	}, artifact.WithRunner(&runtimetest.Fake{}), artifact.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return m, base
}

func toolByName(t *testing.T, m *artifact.Manager, name string) Tool {
	t.Helper()
	for _, tl := range Tools(m, nil) {
		if tl.Definition().Name == name {
			return tl
		}
	}
	t.Fatalf("tool %s not registered", name)
	return nil
}

func call(t *testing.T, tl Tool, args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = tl.Definition().Name
	req.Params.Arguments = args

	res, err := tl.Handle(context.Background(), req)
	require.NoError(t, err, "tool failures are reported in the result")
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text, res.IsError
}

func TestTools_Definitions(t *testing.T) {
	m, _ := newManager(t)
	var names []string
	for _, tl := range Tools(m, nil) {
		def := tl.Definition()
		names = append(names, def.Name)
		assert.NotEmpty(t, def.Description)
		assert.Contains(t, string(def.RawInputSchema), `"project_name"`)
	}
	assert.Equal(t, []string{WriteTool, CreateTool, ComponentsTool, BackupsTool}, names)
}

func TestCreateThenWrite(t *testing.T) {
	m, base := newManager(t)
	create := toolByName(t, m, CreateTool)
	write := toolByName(t, m, WriteTool)

	text, isErr := call(t, create, map[string]any{"project_name": "demo"})
	assert.False(t, isErr)
	assert.Equal(t, "Created new artifact folder: "+filepath.Join(base, "demo"), text)

	text, isErr = call(t, write, map[string]any{"project_name": "demo", "content": "export default 1"})
	assert.False(t, isErr)
	file := filepath.Join(base, "demo", "src", "App.tsx")
	assert.Equal(t, "Successfully wrote content to "+file, text)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "export default 1", string(data))

	text, isErr = call(t, toolByName(t, m, BackupsTool), map[string]any{"project_name": "demo"})
	assert.False(t, isErr)
	assert.True(t, strings.HasPrefix(text, "1 backup(s) of App.tsx in demo"), text)
	assert.Contains(t, text, "- App_replacedat_")
}

func TestCreate_AlreadyExistsIsNotAnError(t *testing.T) {
	m, base := newManager(t)
	require.NoError(t, os.Mkdir(filepath.Join(base, "taken"), 0755))

	text, isErr := call(t, toolByName(t, m, CreateTool), map[string]any{"project_name": "taken"})
	assert.False(t, isErr)
	assert.Equal(t, "A project with name taken already exists. Choose a different name.", text)
}

func TestHandle_Errors(t *testing.T) {
	m, base := newManager(t)
	require.NoError(t, os.Mkdir(filepath.Join(base, "bare"), 0755))

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"missing content", WriteTool, map[string]any{"project_name": "demo"}, "content"},
		{"empty content", WriteTool, map[string]any{"project_name": "demo", "content": ""}, "/content"},
		{"path in name", CreateTool, map[string]any{"project_name": "../x"}, "/project_name"},
		{"no arguments", BackupsTool, nil, "project_name"},
		{"unknown project", WriteTool, map[string]any{"project_name": "ghost", "content": "x"}, "does not exist"},
		{"no managed file", WriteTool, map[string]any{"project_name": "bare", "content": "x"}, "not found"},
		{"components without app", ComponentsTool, map[string]any{"project_name": "bare"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, toolByName(t, m, tt.tool), tt.args)
			assert.True(t, isErr)
			assert.True(t, strings.HasPrefix(text, "Error: "), text)
			assert.Contains(t, text, tt.want)
		})
	}
	assert.NoDirExists(t, filepath.Join(filepath.Dir(base), "x"))
}

func TestHandle_UnconfiguredManager(t *testing.T) {
	_, cfgErr := artifact.New(config.Config{})
	require.Error(t, cfgErr)

	tools := ToolsFrom(func() (*artifact.Manager, error) { return nil, cfgErr }, nil)
	require.Len(t, tools, 4)
	args := map[string]any{"project_name": "demo", "content": "export default 1"}
	for _, tl := range tools {
		text, isErr := call(t, tl, args)
		assert.True(t, isErr, tl.Definition().Name)
		assert.True(t, strings.HasPrefix(text, "Error: "), text)
		assert.Contains(t, text, "PROJECTS_PATH")
	}
}

func TestInstallComponents_NothingToInstall(t *testing.T) {
	m, _ := newManager(t)
	_, isErr := call(t, toolByName(t, m, CreateTool), map[string]any{"project_name": "demo"})
	require.False(t, isErr)

	text, isErr := call(t, toolByName(t, m, ComponentsTool), map[string]any{"project_name": "demo"})
	assert.False(t, isErr)
	assert.Contains(t, text, "nothing to install")
}

func TestListBackups_Empty(t *testing.T) {
	m, base := newManager(t)
	require.NoError(t, os.Mkdir(filepath.Join(base, "fresh"), 0755))

	text, isErr := call(t, toolByName(t, m, BackupsTool), map[string]any{"project_name": "fresh"})
	assert.False(t, isErr)
	assert.Equal(t, "Project fresh has no backups.", text)
}
