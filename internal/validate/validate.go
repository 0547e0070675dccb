package validate

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/artifactsplus/artifactsplus/internal/errs"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaSuffix = ".schema.json"

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var (
	compiled    map[string]*jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
	printer     = message.NewPrinter(language.English)
)

// Result contains the outcome of a schema validation.
type Result struct {
	Valid  bool
	Issues []Issue
}

// Issue represents a single validation error from the schema.
type Issue struct {
	Path    string // Instance location (e.g., "/project_name")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Err returns nil for a valid result, otherwise a validation error naming
// every issue.
func (r *Result) Err(tool string) error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		msgs[i] = issue.String()
	}
	return errs.Errorf(errs.Validation, "validate "+tool+" arguments", "", "%s", strings.Join(msgs, "; "))
}

// Tools returns the names of every tool with a schema, sorted.
func Tools() []string {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), schemaSuffix))
	}
	sort.Strings(names)
	return names
}

// Schema returns the raw schema document for tool.
func Schema(tool string) (json.RawMessage, error) {
	data, err := schemaFS.ReadFile(path.Join("schemas", tool+schemaSuffix))
	if err != nil {
		return nil, errs.Errorf(errs.NotFound, "load schema", "", "no schema for tool %q", tool)
	}
	return json.RawMessage(data), nil
}

// getSchemas compiles every embedded schema once.
func getSchemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		out := make(map[string]*jsonschema.Schema)
		for _, tool := range Tools() {
			raw, err := Schema(tool)
			if err != nil {
				compileErr = err
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				compileErr = fmt.Errorf("unmarshaling %s schema: %w", tool, err)
				return
			}
			url := tool + schemaSuffix
			if err := c.AddResource(url, doc); err != nil {
				compileErr = fmt.Errorf("adding %s schema resource: %w", tool, err)
				return
			}
			s, err := c.Compile(url)
			if err != nil {
				compileErr = fmt.Errorf("compiling %s schema: %w", tool, err)
				return
			}
			out[tool] = s
		}
		compiled = out
	})
	return compiled, compileErr
}

// Validate checks args against tool's schema. The error return is for
// unknown tools and schema failures; argument problems are in the Result.
func Validate(tool string, args map[string]any) (*Result, error) {
	schemas, err := getSchemas()
	if err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}
	schema, ok := schemas[tool]
	if !ok {
		return nil, errs.Errorf(errs.NotFound, "validate", "", "no schema for tool %q", tool)
	}

	if args == nil {
		args = map[string]any{}
	}
	// Round-trip through JSON so numbers arrive as json.Number.
	data, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("converting arguments to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("preparing arguments for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &Result{Valid: true}, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &Result{Issues: extractIssues(ve)}, nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectIssues(ve, &issues)

	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	return deduplicate(issues)
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	p := ""
	if len(ve.InstanceLocation) > 0 {
		p = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	if ve.ErrorKind == nil {
		return
	}
	keyword := leafKeyword(ve.ErrorKind)
	// Container keywords carry no detail of their own.
	if keyword == "" || keyword == "$ref" || keyword == "allOf" {
		return
	}
	msg := ve.ErrorKind.LocalizedString(printer)

	*issues = append(*issues, Issue{Path: p, Message: msg, Keyword: keyword})
}

// leafKeyword names the keyword that failed. Some leaf kinds report an
// empty keyword path and are named here instead.
func leafKeyword(k jsonschema.ErrorKind) string {
	switch k.(type) {
	case *kind.Not:
		return "not"
	case *kind.FalseSchema:
		return "false"
	}
	if kw := k.KeywordPath(); len(kw) > 0 {
		return kw[len(kw)-1]
	}
	return ""
}

func deduplicate(issues []Issue) []Issue {
	seen := make(map[string]bool)
	var result []Issue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
