// Package hostconfig registers the MCP server in the desktop host's
// claude_desktop_config.json.
package hostconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/artifactsplus/artifactsplus/internal/errs"
)

// FileName is the host's configuration file.
const FileName = "claude_desktop_config.json"

const serversKey = "mcpServers"

// Entry is one server registration.
type Entry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// DefaultPath returns the host config location for goos. appData is the
// %APPDATA% directory and is only used on windows.
func DefaultPath(goos, home, appData string) (string, error) {
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", FileName), nil
	case "windows":
		return filepath.Join(appData, "Claude", FileName), nil
	default:
		return "", errs.Errorf(errs.Other, "locate host config", "", "unsupported platform %q (pass the config path explicitly)", goos)
	}
}

// Install sets mcpServers[name] to entry in the file at path. Every other
// key is preserved in its original order; new keys go last. A missing or
// unparsable file is replaced by a fresh document. It reports whether an
// existing document was kept.
func Install(path, name string, entry Entry) (bool, error) {
	doc, kept := read(path)

	servers := newObject()
	if raw, ok := doc.vals[serversKey]; ok {
		if parsed, err := parseObject(raw); err == nil {
			servers = parsed
		}
	}

	rawEntry, err := json.Marshal(entry)
	if err != nil {
		return kept, fmt.Errorf("encoding server entry: %w", err)
	}
	servers.set(name, rawEntry)
	doc.set(serversKey, servers.encode())

	var out bytes.Buffer
	if err := json.Indent(&out, doc.encode(), "", "  "); err != nil {
		return kept, fmt.Errorf("encoding host config: %w", err)
	}
	out.WriteByte('\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return kept, errs.E(errs.Filesystem, "create host config directory", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return kept, errs.E(errs.Filesystem, "write host config", path, err)
	}
	return kept, nil
}

// Lookup returns the registration for name, if any.
func Lookup(path, name string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.E(errs.NotFound, "read host config", path, err)
		}
		return nil, errs.E(errs.Filesystem, "read host config", path, err)
	}
	var doc struct {
		Servers map[string]Entry `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.E(errs.Validation, "parse host config", path, err)
	}
	e, ok := doc.Servers[name]
	if !ok {
		return nil, errs.Errorf(errs.NotFound, "read host config", path, "server %q is not registered", name)
	}
	return &e, nil
}

func read(path string) (*object, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return newObject(), false
	}
	doc, err := parseObject(data)
	if err != nil {
		return newObject(), false
	}
	return doc, true
}

// object is a JSON object that remembers its key order.
type object struct {
	keys []string
	vals map[string]json.RawMessage
}

func newObject() *object {
	return &object{vals: map[string]json.RawMessage{}}
}

// parseObject decodes data, which must hold exactly one JSON object.
func parseObject(data []byte) (*object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("not a JSON object")
	}

	o := newObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		o.set(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON object")
	}
	return o, nil
}

// set replaces the value of key in place, or appends key when it is new.
func (o *object) set(key string, val json.RawMessage) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
}

// encode renders o compactly in key order.
func (o *object) encode() []byte {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		name, _ := json.Marshal(k)
		b.Write(name)
		b.WriteByte(':')
		b.Write(o.vals[k])
	}
	b.WriteByte('}')
	return b.Bytes()
}
