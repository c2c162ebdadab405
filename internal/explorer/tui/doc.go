// Package tui is the terminal front end of the registry explorer.
//
// The model never blocks on device I/O. User actions submit commands to a
// Dispatcher and a tick every DefaultPollInterval performs one non-blocking
// receive, folding any result into the explorer state. If the result
// channel reports termination the program quits and Run returns the error.
//
// Layout, top to bottom:
//
//   - device selector (or a placeholder) with the info panel beside it
//   - Plane / Name / Class filter inputs and the Save to File prompt
//   - the registry viewport
//   - the logs pane, toggled with l
package tui
