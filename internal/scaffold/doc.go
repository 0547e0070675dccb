// Package scaffold populates a freshly created artifact project from a remote
// template archive. It downloads the zip, extracts only the template subtree
// through a filtering Sink, lifts that subtree to the project root, and runs
// the package installer so the project is ready to use.
package scaffold
