// Package scaffoldtest builds template archives and servers for tests.
package scaffoldtest

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
)

// Archive builds a zip holding files (path → content). Paths ending in "/"
// become directory entries. Entries are written in sorted order.
func Archive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		if strings.HasSuffix(name, "/") {
			if _, err := zw.Create(name); err != nil {
				t.Fatal(err)
			}
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// ReactTemplate returns a multi-project archive shaped like a GitHub branch
// download: the wanted template under templates-main/react-ts/ plus an
// unrelated sibling project.
func ReactTemplate(t *testing.T) []byte {
	t.Helper()
	return Archive(t, map[string]string{
		"templates-main/":                      "",
		"templates-main/README.md":             "# templates",
		"templates-main/react-ts/":             "",
		"templates-main/react-ts/package.json": `{"name":"artifact","private":true}`,
		"templates-main/react-ts/index.html":   "<div id=\"root\"></div>",
		"templates-main/react-ts/src/":         "",
		"templates-main/react-ts/src/App.tsx":  DefaultApp,
		"templates-main/react-ts/src/main.tsx": "import App from './App'",
		"templates-main/vue/package.json":      `{"name":"vue"}`,
		"templates-main/vue/src/App.vue":       "<template/>",
	})
}

// ReactPrefix is the template subtree inside ReactTemplate.
const ReactPrefix = "templates-main/react-ts/"

// DefaultApp is the managed file shipped by ReactTemplate.
const DefaultApp = "export default function App() { return <h1>Hello</h1> }\n"

// Server serves data for every request and closes with the test.
func Server(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}
