// Package components finds the shadcn/ui components an artifact imports and
// installs them into the project with the shadcn generator.
package components

import (
	"context"
	"regexp"
	"strings"

	"github.com/artifactsplus/artifactsplus/internal/errs"
	"github.com/artifactsplus/artifactsplus/internal/runtime"
)

// Matches both the "@/components/ui/x" alias and the bare "@components/ui/x" form.
var uiImport = regexp.MustCompile(`@/?['"]*components/ui/([^'"/]+)`)

// Analysis is what Analyze found in a source file.
type Analysis struct {
	// ImportLines are the leading consecutive import statements.
	ImportLines []string
	// UIComponents are the referenced ui component names, first use first.
	UIComponents []string
}

// Analyze scans content for its leading import block and every
// "@/components/ui/<name>" reference.
func Analyze(content string) Analysis {
	lines := strings.Split(content, "\n")

	n := 0
	for n < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[n]), "import") {
		n++
	}

	var a Analysis
	if n > 0 {
		a.ImportLines = lines[:n]
	}

	seen := make(map[string]bool)
	for _, m := range uiImport.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			a.UIComponents = append(a.UIComponents, name)
		}
	}
	return a
}

// Installer runs the shadcn generator.
type Installer struct {
	// Npx is the npx executable. Defaults to "npx".
	Npx    string
	Runner runtime.Runner
}

// Result reports an install run.
type Result struct {
	Components []string
	Output     string
}

// Install adds names to the project at dir. An empty list does nothing.
func (i *Installer) Install(ctx context.Context, dir string, names []string) (*Result, error) {
	res := &Result{Components: names}
	if len(names) == 0 {
		return res, nil
	}

	npx := i.Npx
	if npx == "" {
		npx = "npx"
	}
	runner := i.Runner
	if runner == nil {
		runner = &runtime.ExecRunner{}
	}

	args := append([]string{"shadcn@latest", "add"}, names...)
	out, err := runner.Run(ctx, dir, npx, args...)
	if err != nil {
		return res, errs.E(errs.Setup, "install ui components", dir, err)
	}
	res.Output = out.Stdout
	return res, nil
}
