// Package explorer holds the UI state of the registry explorer.
//
// State never performs I/O. User actions return the command to submit, if
// any, and worker results are folded in with Apply. The terminal front end
// lives in the tui subpackage.
package explorer
