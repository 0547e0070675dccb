// Package mcpserver exposes artifact operations as MCP tools over stdio.
//
// Each tool pairs an input schema from package validate with a handler that
// checks the arguments against it before calling the artifact.Manager.
// Failures come back as error results whose text starts with "Error: ".
package mcpserver
