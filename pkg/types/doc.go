// Package types defines the library entities, session configuration, and
// standard errors shared across zot-tui.
package types
