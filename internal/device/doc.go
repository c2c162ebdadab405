// Package device runs single device operations for the dispatch worker.
//
// Every call dials usbmuxd afresh, opens the service it needs, issues one
// request and closes everything again. Nothing is cached between calls.
package device
