// Package project owns the on-disk shape of an artifact project: resolving
// and creating its directory under the projects root, and replacing its
// managed content file while preserving every previous version under
// src/old_App.
package project
