// Package artifact ties the project, scaffold, components and launcher
// packages into the operations exposed to hosts and the CLI. A Manager is
// built from an explicit config.Config; nothing here reads the environment.
package artifact
