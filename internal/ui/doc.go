// Package ui renders the output of the one-shot ioreg-explorer subcommands.
//
// Unlike the interactive explorer in internal/explorer/tui, these components
// print once and return. Everything goes through a Printer:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Device Info", "ioreg-explorer info", []ui.Detail{
//	    {Key: "Device", Value: "Sam's iPhone"},
//	})
//	p.PrintSuccess("Device info", details)
//
// Failures are shown with PrintError, which takes a list of troubleshooting
// tips rendered beneath the error.
//
// # Logging Integration
//
// zap logging is silent unless IOREG_EXPLORER_LOG_LEVEL or --log-level is
// set, so the curated output here is not interleaved with log lines.
package ui
