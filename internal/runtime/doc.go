// Package runtime runs the external programs an artifact project depends on:
// the package installer, the shadcn component generator, and the editor.
// Output is captured so failures can carry the program's stderr, and an
// optional pair of writers lets callers stream it as well.
package runtime
