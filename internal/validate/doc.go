// Package validate holds the JSON Schema documents describing each tool's
// arguments and checks incoming arguments against them. The same documents
// are advertised to the host as the tools' input schemas.
package validate
