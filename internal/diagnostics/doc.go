// Package diagnostics speaks the diagnostics relay service
// (com.apple.mobile.diagnostics_relay), which answers filtered IORegistry
// queries.
//
// go-ios starts the service through a lockdown session and frames every
// message as a length-prefixed plist; this package owns the request and
// reply bodies.
//
//	client, err := diagnostics.Connect(entry)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	plane := "IOPower"
//	tree, err := client.IORegistry(ctx, &plane, nil, nil)
package diagnostics
